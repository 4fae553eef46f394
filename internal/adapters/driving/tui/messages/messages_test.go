package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewType_String(t *testing.T) {
	testCases := []struct {
		view ViewType
		want string
	}{
		{ViewMenu, "menu"},
		{ViewSearch, "search"},
		{ViewProjects, "projects"},
		{ViewHelp, "help"},
		{ViewDocuments, "documents"},
		{ViewDocContent, "doc_content"},
		{ViewDocDetails, "doc_details"},
		{ViewType(99), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.view.String())
		})
	}
}

func TestViewType_ValuesAreDistinct(t *testing.T) {
	views := []ViewType{ViewMenu, ViewSearch, ViewProjects, ViewHelp, ViewDocuments, ViewDocContent, ViewDocDetails}

	seen := make(map[string]bool)
	for _, v := range views {
		assert.False(t, seen[v.String()], "duplicate view %s", v)
		seen[v.String()] = true
	}
}
