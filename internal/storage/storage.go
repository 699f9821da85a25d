// Package storage is the document-store boundary: durable binary storage
// keyed by a caller-chosen path, returning a retrievable locator.
package storage

import (
	"context"
	"io"
)

// DocumentStore stores uploaded documents under caller-chosen keys.
// Put must not overwrite an existing key. Delete is used as the
// compensating action when a record write fails after an upload.
type DocumentStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (locator string, err error)
	Delete(ctx context.Context, key string) error
}
