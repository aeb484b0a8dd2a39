// Package store persists named diagram definitions for the HTTP API.
//
// Two backends implement [Store]:
//   - [MemoryStore]: process-local storage for development and tests
//   - [MongoStore]: MongoDB collection shared by server replicas
//
// Documents are keyed by a user-chosen name validated with
// [errors.ValidateDocumentName]. Put is an upsert: the creation time of an
// existing document is preserved.
//
//	st := store.NewMemoryStore()
//	doc, err := st.Put(ctx, "zoo", def)
//	doc, err = st.Get(ctx, "zoo")
//
// [errors.ValidateDocumentName]: github.com/matzehuels/classdiagram/pkg/errors
package store

import (
	"context"
	"errors"
	"time"

	errs "github.com/matzehuels/classdiagram/pkg/errors"
	"github.com/matzehuels/classdiagram/pkg/io"
)

// ErrNotFound is wrapped by errors for missing documents.
var ErrNotFound = errors.New("diagram not found")

// Document is a stored diagram definition.
type Document struct {
	Name       string        `json:"name" bson:"_id"`
	Definition io.Definition `json:"definition" bson:"definition"`
	CreatedAt  time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for definition storage backends.
type Store interface {
	// Get retrieves a document by name.
	// Returns an error wrapping ErrNotFound if it doesn't exist.
	Get(ctx context.Context, name string) (Document, error)

	// Put creates or replaces the definition stored under name.
	Put(ctx context.Context, name string, def io.Definition) (Document, error)

	// Delete removes a document. Deleting a missing document returns ErrNotFound.
	Delete(ctx context.Context, name string) error

	// List returns all documents sorted by name.
	List(ctx context.Context) ([]Document, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

func notFound(name string) error {
	return errs.Wrap(errs.ErrCodeDiagramNotFound, ErrNotFound, "diagram %q not found", name)
}

func storageError(err error, op, name string) error {
	return errs.Wrap(errs.ErrCodeStorage, err, "%s %q", op, name)
}
