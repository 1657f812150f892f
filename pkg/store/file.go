package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmaspons/shapviz/pkg/errors"
	"github.com/jmaspons/shapviz/pkg/shapio"
)

// FileStore persists records as JSON files in a local directory.
// Each record lives at <dir>/<id>.json.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir.
// The directory is created if it does not exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "failed to create store directory %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Put stores a document and returns its assigned identifier.
func (s *FileStore) Put(ctx context.Context, name string, doc *shapio.Document) (string, error) {
	if doc == nil {
		return "", errors.New(errors.ErrCodeInvalidInput, "document must not be nil")
	}
	rec := &Record{
		ID:        newID(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Document:  doc,
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "failed to encode record")
	}
	if err := os.WriteFile(s.path(rec.ID), data, 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeStoreUnavailable, err, "failed to write record %s", rec.ID)
	}
	return rec.ID, nil
}

// Get retrieves a stored record by identifier.
func (s *FileStore) Get(ctx context.Context, id string) (*Record, error) {
	if err := errors.ValidateExplanationID(id); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(id)
		}
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "failed to read record %s", id)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to decode record %s", id)
	}
	return &rec, nil
}

// Delete removes a stored record by identifier.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateExplanationID(id); err != nil {
		return err
	}
	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return notFound(id)
		}
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "failed to delete record %s", id)
	}
	return nil
}

// List returns metadata for all stored records, newest first.
func (s *FileStore) List(ctx context.Context) ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "failed to read store directory")
	}
	infos := make([]Info, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		rec, err := s.Get(ctx, id)
		if err != nil {
			// Skip unreadable entries rather than failing the listing.
			continue
		}
		infos = append(infos, info(rec))
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.After(infos[j].CreatedAt)
	})
	return infos, nil
}

// Close is a no-op for file stores.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}
