// Package storage provides the durable key/value contract behind the
// watched list: one opaque value per (namespace, key), overwritten in full on
// every write.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// Store reads and writes whole values. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the stored value and true, or nil and false when nothing
	// has been written under (namespace, key).
	Get(ctx context.Context, namespace, key string) ([]byte, bool, error)
	// Set overwrites the value stored under (namespace, key).
	Set(ctx context.Context, namespace, key string, value []byte) error
	Close() error
}

var ErrInvalidName = errors.New("storage: invalid namespace or key")

var nameRE = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// checkNames keeps names safe for use as file names.
func checkNames(namespace, key string) error {
	if !nameRE.MatchString(namespace) || !nameRE.MatchString(key) {
		return fmt.Errorf("%w: %q/%q", ErrInvalidName, namespace, key)
	}
	return nil
}
