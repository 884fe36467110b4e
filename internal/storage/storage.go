// Package storage provides the blob backends behind the state store and the
// decoration asset source.
package storage

import "errors"

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = errors.New("storage: not found")
