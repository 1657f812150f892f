// Package store persists explanation documents under stable identifiers.
//
// Two backends are provided: FileStore keeps each document as a JSON file
// in a local directory, and MongoStore keeps documents in a MongoDB
// collection. Both implement the Store interface, so the HTTP API and
// the CLI can swap backends through configuration.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jmaspons/shapviz/pkg/errors"
	"github.com/jmaspons/shapviz/pkg/shapio"
)

// Record pairs a stored document with its identity and metadata.
type Record struct {
	// ID is the stable identifier assigned on Put.
	ID string `json:"id" bson:"_id"`

	// Name is an optional human-readable label.
	Name string `json:"name,omitempty" bson:"name,omitempty"`

	// CreatedAt is the time the record was stored.
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	// Document is the serialized explanation.
	Document *shapio.Document `json:"document" bson:"document"`
}

// Info is a Record without its document payload, used for listings.
type Info struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Rows      int       `json:"rows"`
	Columns   int       `json:"columns"`
}

// Store persists explanation documents.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Put stores a document and returns its assigned identifier.
	Put(ctx context.Context, name string, doc *shapio.Document) (string, error)

	// Get retrieves a stored record by identifier.
	// Returns an error with code ErrCodeExplanationNotFound if absent.
	Get(ctx context.Context, id string) (*Record, error)

	// Delete removes a stored record by identifier.
	// Returns an error with code ErrCodeExplanationNotFound if absent.
	Delete(ctx context.Context, id string) error

	// List returns metadata for all stored records, newest first.
	List(ctx context.Context) ([]Info, error)

	// Close releases any resources held by the store.
	Close() error
}

// newID returns a fresh record identifier.
func newID() string {
	return uuid.NewString()
}

// info derives listing metadata from a record.
func info(rec *Record) Info {
	inf := Info{
		ID:        rec.ID,
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
	}
	if rec.Document != nil {
		inf.Rows = len(rec.Document.Values)
		inf.Columns = len(rec.Document.Columns)
	}
	return inf
}

// notFound builds the canonical missing-record error.
func notFound(id string) error {
	return errors.New(errors.ErrCodeExplanationNotFound, "explanation not found: %s", id)
}
