package store

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a requested row does not exist.
var ErrNotFound = errors.New("not found")

// RepositoryError wraps a failed store operation with the operation
// name for failure attribution.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// repoErr wraps err as a *RepositoryError unless it already is one.
func repoErr(op string, err error) error {
	var re *RepositoryError
	if errors.As(err, &re) {
		return err
	}
	return &RepositoryError{Op: op, Err: err}
}

// Config configures the SQLite store.
type Config struct {
	// Path is the SQLite database file path. ":memory:" opens an
	// in-memory database, used by tests.
	Path string `koanf:"path"`
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	return Config{Path: "memoryd.db"}
}

// Validate checks the store configuration.
func (c Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("store path is required")
	}
	return nil
}
