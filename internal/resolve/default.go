package resolve

import (
	_ "embed"
	"fmt"
	"sync"
)

//go:embed data/hashes.json.gz
var embeddedSnapshot []byte

// EmbeddedSource serves the snapshot compiled into the binary
func EmbeddedSource() ([]byte, error) {
	return BytesSource(embeddedSnapshot)()
}

var (
	defaultMu       sync.Mutex
	defaultSource   Source = EmbeddedSource
	defaultDatabase *Database
)

// SetDefaultSource replaces the snapshot used by Default. It fails once
// Default has been called.
func SetDefaultSource(source Source) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultDatabase != nil {
		return fmt.Errorf("default resolution database already created")
	}
	defaultSource = source
	return nil
}

// Default returns the process-wide database. It is loaded lazily on
// first lookup.
func Default() *Database {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultDatabase == nil {
		defaultDatabase = New(defaultSource)
	}
	return defaultDatabase
}

// LookupByName queries the default database
func LookupByName(substring string) (Entry, bool, error) {
	return Default().LookupByName(substring)
}

// LookupByHash queries the default database
func LookupByHash(hash, pathHash uint32) (Entry, bool, error) {
	return Default().LookupByHash(hash, pathHash)
}
