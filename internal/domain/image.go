package domain

import (
	"context"
	"time"
)

// AnimalImage holds metadata about a processed photograph of an animal.
// ByteSize and ContentType describe the processed payload stored under
// StorageKey, not the original upload.
type AnimalImage struct {
	ID               int64
	AnimalID         int64
	FileName         string // Original upload filename
	StorageKey       string // Key under which the processed bytes live in the blob store
	SourceURL        string // Resolvable URL for the stored bytes
	ByteSize         int64
	ContentType      string
	IsPrimary        bool // At most one per animal; exactly one when the animal has images
	DisplayOrder     int  // Append-only position within the animal's images
	UploadedByUserID int64
	CreatedAt        time.Time
}

// AnimalImageRepository handles image metadata persistence.
//
// The three mutating operations that touch the primary-image invariant
// (CreateAppend, SetPrimary, DeleteImage) must each execute as one atomic
// unit against the store, so a concurrent reader never observes an animal
// with zero or two primary images.
type AnimalImageRepository interface {
	// CreateAppend inserts the image with DisplayOrder set to the animal's
	// current image count and IsPrimary set iff that count is zero. The
	// count and insert happen in the same transaction.
	CreateAppend(ctx context.Context, image *AnimalImage) error
	GetByID(ctx context.Context, id int64) (*AnimalImage, error)
	ListByAnimal(ctx context.Context, animalID int64) ([]AnimalImage, error)
	GetPrimary(ctx context.Context, animalID int64) (*AnimalImage, error)
	CountByAnimal(ctx context.Context, animalID int64) (int64, error)
	// SetPrimary clears the primary flag on all of the animal's images and
	// sets it on imageID, atomically. Returns ErrNotFound if imageID does
	// not belong to animalID.
	SetPrimary(ctx context.Context, animalID, imageID int64) error
	// DeleteImage removes the record and, if it was primary, promotes the
	// remaining image with the lowest display order, atomically.
	DeleteImage(ctx context.Context, id int64) error
	// ListKeysByAnimal returns the storage keys of all of the animal's
	// images, used for blob cleanup when the animal itself is deleted.
	ListKeysByAnimal(ctx context.Context, animalID int64) ([]string, error)
}

// BlobStore abstracts storage of raw image bytes. Put returns a resolvable
// URL for the stored object. Delete is idempotent: deleting a missing key
// is not an error.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}
