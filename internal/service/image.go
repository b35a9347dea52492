package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pawtrail/rescue/internal/domain"
)

// Upload is one raw file submitted by a caller.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ImageService orchestrates the image ingestion pipeline: validation and
// resizing via the processor, byte storage via the blob store, and metadata
// via the image repository. It maintains the invariant that an animal with
// at least one image has exactly one primary image.
type ImageService struct {
	images    domain.AnimalImageRepository
	blobs     domain.BlobStore
	animals   domain.AnimalRepository
	processor *ImageProcessor
}

// NewImageService creates a new ImageService.
func NewImageService(images domain.AnimalImageRepository, blobs domain.BlobStore, animals domain.AnimalRepository, processor *ImageProcessor) *ImageService {
	return &ImageService{images: images, blobs: blobs, animals: animals, processor: processor}
}

// UploadBatch ingests files for an animal sequentially and independently.
// The first failure aborts the remaining files but already-committed images
// are preserved: each image is an independently addressable resource, so a
// bad file in the middle of a batch should not discard its siblings. The
// committed records are returned alongside the triggering error.
func (s *ImageService) UploadBatch(ctx context.Context, animalID int64, files []Upload, uploadedByUserID int64) ([]domain.AnimalImage, error) {
	animal, err := s.animals.GetByID(ctx, animalID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: animal %d", domain.ErrNotFound, animalID)
		}
		return nil, fmt.Errorf("get animal: %w", err)
	}

	var created []domain.AnimalImage
	for i := range files {
		image, err := s.UploadSingle(ctx, animal, files[i], uploadedByUserID)
		if err != nil {
			return created, fmt.Errorf("file %d (%s): %w", i, files[i].FileName, err)
		}
		created = append(created, *image)
	}
	return created, nil
}

// UploadSingle processes one file and persists it for the animal. The
// metadata record is inserted only after the blob write succeeds, so a
// failed blob write never leaves a record pointing at nothing. If the
// record insert fails after the blob write, the orphaned blob is accepted
// and logged rather than chased with a compensating delete.
func (s *ImageService) UploadSingle(ctx context.Context, animal *domain.Animal, file Upload, uploadedByUserID int64) (*domain.AnimalImage, error) {
	processed, err := s.processor.Process(file.Data, file.ContentType)
	if err != nil {
		return nil, err
	}

	// Keys are partitioned per animal; the random token makes them unique
	// within the animal's namespace and never reused.
	key := fmt.Sprintf("animals/%d/%s.jpg", animal.ID, uuid.NewString())

	url, err := s.blobs.Put(ctx, key, processed, ProcessedContentType)
	if err != nil {
		return nil, fmt.Errorf("store image bytes: %w", err)
	}

	image := &domain.AnimalImage{
		AnimalID:         animal.ID,
		FileName:         file.FileName,
		StorageKey:       key,
		SourceURL:        url,
		ByteSize:         int64(len(processed)),
		ContentType:      ProcessedContentType,
		UploadedByUserID: uploadedByUserID,
	}

	if err := s.images.CreateAppend(ctx, image); err != nil {
		slog.Warn("image record insert failed, blob orphaned", "key", key, "error", err)
		return nil, fmt.Errorf("create image record: %w", err)
	}

	return image, nil
}

// SetPrimary makes imageID the animal's single primary image. The clear and
// set steps run as one atomic unit in the repository, so concurrent readers
// never observe zero or two primaries.
func (s *ImageService) SetPrimary(ctx context.Context, animalID, imageID int64) (*domain.AnimalImage, error) {
	if err := s.images.SetPrimary(ctx, animalID, imageID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: image %d for animal %d", domain.ErrNotFound, imageID, animalID)
		}
		return nil, fmt.Errorf("set primary: %w", err)
	}
	return s.images.GetByID(ctx, imageID)
}

// DeleteImage removes an image's bytes and metadata. The blob delete is
// best-effort: an orphaned blob is a cheaper failure mode than an image
// stuck undeletable behind an unrelated storage outage. If the deleted
// image was primary, the remaining image with the lowest display order is
// promoted in the same transaction as the record delete.
func (s *ImageService) DeleteImage(ctx context.Context, imageID int64) error {
	image, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, image.StorageKey); err != nil {
		slog.Warn("blob delete failed, continuing with metadata delete", "key", image.StorageKey, "error", err)
	}

	if err := s.images.DeleteImage(ctx, imageID); err != nil {
		return fmt.Errorf("delete image record: %w", err)
	}
	return nil
}

// ListForAnimal returns the animal's images ordered by display order.
func (s *ImageService) ListForAnimal(ctx context.Context, animalID int64) ([]domain.AnimalImage, error) {
	return s.images.ListByAnimal(ctx, animalID)
}

// GetPrimary returns the animal's primary image, or ErrNotFound when the
// animal has no images.
func (s *ImageService) GetPrimary(ctx context.Context, animalID int64) (*domain.AnimalImage, error) {
	return s.images.GetPrimary(ctx, animalID)
}
