package driven

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ContentCache holds document content for a limited time.
type ContentCache interface {
	// Get returns the cached value and whether it was present and fresh.
	Get(key string) (string, bool)

	// Set stores a value, replacing any previous one.
	Set(key, value string)

	// Delete removes a value.
	Delete(key string)

	// Purge removes every value.
	Purge()

	// Len returns the number of live entries.
	Len() int
}
