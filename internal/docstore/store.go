// Package docstore persists named graph documents.
package docstore

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("docstore: document not found")

// Info describes a stored document without its content.
type Info struct {
	Name      string
	Size      int
	UpdatedAt time.Time
}

// Store defines the contract for persisting and retrieving documents.
type Store interface {
	// Schema
	CreateSchema(ctx context.Context) error

	// Documents
	Save(ctx context.Context, name string, content []byte) error
	Load(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context) ([]Info, error)
	Delete(ctx context.Context, name string) error

	Close() error
}
