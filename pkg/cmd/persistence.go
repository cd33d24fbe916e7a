// Package cmd provides common initialization for the command-line binaries.
package cmd

import (
	"strings"

	"github.com/conveyorhq/conveyor/pkg/persistence"
	"github.com/conveyorhq/conveyor/pkg/persistence/file"
)

var supportedPersistenceProviders = []string{"file"}

// NewPersistence builds a store from a database URL. Only the file provider
// is implemented; unrecognized URL schemes fall back to it.
func NewPersistence(databaseURL string) persistence.Persistence {
	provider := parsePersistenceProvider(databaseURL)

	switch provider {
	default:
		return file.NewPersistence(databaseURL)
	}
}

func parsePersistenceProvider(databaseURL string) string {
	parts := strings.Split(databaseURL, "://")

	provider := parts[0]
	for _, supported := range supportedPersistenceProviders {
		if provider == supported {
			return provider
		}
	}

	return "file"
}
