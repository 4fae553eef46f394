package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
)

func testOptions(t *testing.T) cli.Options {
	t.Helper()
	dir := t.TempDir()
	return cli.Options{
		ConfigDir: dir,
		DataDir:   filepath.Join(dir, "data"),
	}
}

func TestBootstrap_AllServices(t *testing.T) {
	svc, release, err := bootstrap(context.Background(), testOptions(t))
	require.NoError(t, err)
	t.Cleanup(release)

	assert.NotNil(t, svc.Highlight)
	assert.NotNil(t, svc.Settings)
	assert.NotNil(t, svc.Capabilities)
	assert.NotNil(t, svc.Search)
	assert.NotNil(t, svc.Document)
	assert.NotNil(t, svc.Project)
}

func TestBootstrap_SkipStores(t *testing.T) {
	opts := testOptions(t)
	opts.SkipStores = true

	svc, release, err := bootstrap(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(release)

	assert.NotNil(t, svc.Highlight)
	assert.NotNil(t, svc.Settings)
	assert.Nil(t, svc.Search)
	assert.Nil(t, svc.Document)
	assert.Nil(t, svc.Project)

	_, err = os.Stat(filepath.Join(opts.DataDir, indexDir))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBootstrap_IndexHeldByAnotherProcess(t *testing.T) {
	opts := testOptions(t)
	_, release, err := bootstrap(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(release)

	t.Run("stores fail instead of waiting", func(t *testing.T) {
		done := make(chan error, 1)
		go func() {
			_, second, err := bootstrap(context.Background(), opts)
			if err == nil {
				second()
			}
			done <- err
		}()

		select {
		case err := <-done:
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrSearchUnavailable)
		case <-time.After(10 * time.Second):
			t.Fatal("bootstrap blocked on the index lock")
		}
	})

	t.Run("highlighting still works", func(t *testing.T) {
		skip := opts
		skip.SkipStores = true

		svc, second, err := bootstrap(context.Background(), skip)
		require.NoError(t, err)
		defer second()

		spans := svc.Highlight.FindQuery("slab edge", "edge", domain.DefaultMatchOptions())
		assert.Len(t, spans, 1)
	})
}
