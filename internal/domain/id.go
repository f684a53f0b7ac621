package domain

import "github.com/google/uuid"

// generateID creates a new unique record identifier.
func generateID() string {
	return uuid.New().String()
}

// ShortID returns the first eight characters of an identifier for display.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
