package sqlite_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/pawtrail/rescue/internal/domain"
	"github.com/pawtrail/rescue/internal/repository/sqlite"
)

func TestBlobStorePutGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	store := sqlite.NewBlobStore(db, "/blobs/")

	data := []byte("jpeg bytes")
	url, err := store.Put(ctx, "animals/1/a.jpg", data, "image/jpeg")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if url != "/blobs/animals/1/a.jpg" {
		t.Fatalf("unexpected URL: %s", url)
	}

	got, contentType, err := store.Get(ctx, "animals/1/a.jpg")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("stored bytes do not match")
	}
	if contentType != "image/jpeg" {
		t.Fatalf("unexpected content type: %s", contentType)
	}
}

func TestBlobStorePutReplaces(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	store := sqlite.NewBlobStore(db, "/blobs")

	if _, err := store.Put(ctx, "k", []byte("old"), "image/jpeg"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := store.Put(ctx, "k", []byte("new"), "image/png"); err != nil {
		t.Fatalf("Put (replace): %v", err)
	}

	got, contentType, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "new" || contentType != "image/png" {
		t.Fatalf("expected replaced blob, got %q %s", got, contentType)
	}
}

func TestBlobStoreDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	store := sqlite.NewBlobStore(db, "/blobs")

	if _, err := store.Put(ctx, "gone", []byte("x"), "image/jpeg"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, _, err := store.Get(ctx, "gone"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting a missing key is fine.
	if err := store.Delete(ctx, "never-existed"); err != nil {
		t.Fatalf("Delete missing key: %v", err)
	}
}
