package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pawtrail/rescue/internal/domain"
)

// BlobStore implements domain.BlobStore using SQLite BLOBs. It backs local
// development and tests; production deployments use the S3 store in
// internal/blob.
type BlobStore struct {
	db      *sql.DB
	baseURL string
}

// NewBlobStore creates a SQLite-backed BlobStore. Stored objects resolve
// under baseURL + "/" + key.
func NewBlobStore(db *DB, baseURL string) *BlobStore {
	return &BlobStore{db: db.SqlDB, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *BlobStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO file_blobs (storage_key, content_type, data) VALUES (?, ?, ?)",
		key, contentType, data,
	)
	if err != nil {
		return "", fmt.Errorf("save file blob: %w", err)
	}
	return s.baseURL + "/" + key, nil
}

// Get returns the stored bytes and content type for key.
func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	var data []byte
	var contentType string
	err := s.db.QueryRowContext(ctx,
		"SELECT data, content_type FROM file_blobs WHERE storage_key = ?", key,
	).Scan(&data, &contentType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("get file blob: %w", err)
	}
	return data, contentType, nil
}

// Delete removes the blob. Deleting a missing key is not an error.
func (s *BlobStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM file_blobs WHERE storage_key = ?", key,
	)
	if err != nil {
		return fmt.Errorf("delete file blob: %w", err)
	}
	return nil
}
