package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pawtrail/rescue/internal/domain"
)

// coordinateScale is the number of fractional digits kept for coordinates.
const coordinateScale = 8

// AnimalService handles reporting and managing stray animal records.
type AnimalService struct {
	animals domain.AnimalRepository
	images  domain.AnimalImageRepository
	blobs   domain.BlobStore
}

// NewAnimalService creates a new AnimalService.
func NewAnimalService(animals domain.AnimalRepository, images domain.AnimalImageRepository, blobs domain.BlobStore) *AnimalService {
	return &AnimalService{animals: animals, images: images, blobs: blobs}
}

// ReportAnimalInput carries the fields a volunteer submits when reporting
// an animal. Latitude and longitude are optional but must come as a pair.
type ReportAnimalInput struct {
	Name                string
	Species             string
	Breed               string
	Description         string
	EstimatedAge        string
	Gender              string
	Size                string
	LocationDescription string
	Latitude            *float64
	Longitude           *float64
	Status              domain.AnimalStatus
}

// Report validates the input and creates the animal record.
func (s *AnimalService) Report(ctx context.Context, input ReportAnimalInput, reportedByUserID int64) (*domain.Animal, error) {
	if input.Name == "" || input.Species == "" {
		return nil, fmt.Errorf("%w: name and species are required", domain.ErrInvalidInput)
	}
	if (input.Latitude == nil) != (input.Longitude == nil) {
		return nil, fmt.Errorf("%w: latitude and longitude must be provided together", domain.ErrInvalidInput)
	}
	if input.Status != "" && !domain.ValidStatus(input.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, input.Status)
	}

	lat, lon, err := toCoordinates(input.Latitude, input.Longitude)
	if err != nil {
		return nil, err
	}

	animal := &domain.Animal{
		Name:                input.Name,
		Species:             input.Species,
		Breed:               input.Breed,
		Status:              input.Status,
		Description:         input.Description,
		EstimatedAge:        input.EstimatedAge,
		Gender:              input.Gender,
		Size:                input.Size,
		LocationDescription: input.LocationDescription,
		Latitude:            lat,
		Longitude:           lon,
		ReportedByUserID:    reportedByUserID,
	}

	if err := s.animals.Create(ctx, animal); err != nil {
		return nil, fmt.Errorf("create animal: %w", err)
	}
	return animal, nil
}

// GetByID returns the animal with the given id.
func (s *AnimalService) GetByID(ctx context.Context, id int64) (*domain.Animal, error) {
	return s.animals.GetByID(ctx, id)
}

// List returns all animals.
func (s *AnimalService) List(ctx context.Context) ([]domain.Animal, error) {
	return s.animals.List(ctx)
}

// ListByStatus returns animals in the given rescue status.
func (s *AnimalService) ListByStatus(ctx context.Context, status domain.AnimalStatus) ([]domain.Animal, error) {
	if !domain.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	return s.animals.ListByStatus(ctx, status)
}

// SearchBySpecies returns animals whose species contains the given term,
// case-insensitively.
func (s *AnimalService) SearchBySpecies(ctx context.Context, species string) ([]domain.Animal, error) {
	return s.animals.ListBySpecies(ctx, species)
}

// Search matches the term against animal names and descriptions.
func (s *AnimalService) Search(ctx context.Context, term string) ([]domain.Animal, error) {
	if term == "" {
		return nil, fmt.Errorf("%w: search term is required", domain.ErrInvalidInput)
	}
	return s.animals.Search(ctx, term)
}

// ListReportedBy returns the animals a user has reported, newest first.
func (s *AnimalService) ListReportedBy(ctx context.Context, userID int64) ([]domain.Animal, error) {
	return s.animals.ListReportedBy(ctx, userID)
}

// ListRecent returns animals reported in the last 24 hours, newest first.
func (s *AnimalService) ListRecent(ctx context.Context) ([]domain.Animal, error) {
	return s.animals.ListReportedSince(ctx, time.Now().Add(-24*time.Hour))
}

// UpdateDetailsInput carries the editable descriptive fields of an animal.
type UpdateDetailsInput struct {
	Name                string
	Species             string
	Breed               string
	Description         string
	EstimatedAge        string
	Gender              string
	Size                string
	LocationDescription string
	Latitude            *float64
	Longitude           *float64
}

// UpdateDetails replaces the animal's descriptive fields.
func (s *AnimalService) UpdateDetails(ctx context.Context, id int64, input UpdateDetailsInput) (*domain.Animal, error) {
	if input.Name == "" || input.Species == "" {
		return nil, fmt.Errorf("%w: name and species are required", domain.ErrInvalidInput)
	}
	if (input.Latitude == nil) != (input.Longitude == nil) {
		return nil, fmt.Errorf("%w: latitude and longitude must be provided together", domain.ErrInvalidInput)
	}

	animal, err := s.animals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lat, lon, err := toCoordinates(input.Latitude, input.Longitude)
	if err != nil {
		return nil, err
	}

	animal.Name = input.Name
	animal.Species = input.Species
	animal.Breed = input.Breed
	animal.Description = input.Description
	animal.EstimatedAge = input.EstimatedAge
	animal.Gender = input.Gender
	animal.Size = input.Size
	animal.LocationDescription = input.LocationDescription
	animal.Latitude = lat
	animal.Longitude = lon

	if err := s.animals.Update(ctx, animal); err != nil {
		return nil, fmt.Errorf("update animal: %w", err)
	}
	return animal, nil
}

// UpdateStatus moves the animal to a new rescue status.
func (s *AnimalService) UpdateStatus(ctx context.Context, id int64, status domain.AnimalStatus) (*domain.Animal, error) {
	if !domain.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}

	animal, err := s.animals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	animal.Status = status
	if err := s.animals.Update(ctx, animal); err != nil {
		return nil, fmt.Errorf("update animal status: %w", err)
	}
	return animal, nil
}

// Delete removes the animal. Image records cascade with the animal row;
// their blobs are deleted best-effort first, since orphaned blobs are
// preferable to an animal stuck undeletable.
func (s *AnimalService) Delete(ctx context.Context, id int64) error {
	keys, err := s.images.ListKeysByAnimal(ctx, id)
	if err != nil {
		return fmt.Errorf("list image keys: %w", err)
	}
	for _, key := range keys {
		if err := s.blobs.Delete(ctx, key); err != nil {
			slog.Warn("blob delete failed during animal delete", "key", key, "error", err)
		}
	}

	return s.animals.Delete(ctx, id)
}

// CountByStatus returns the number of animals in the given status.
func (s *AnimalService) CountByStatus(ctx context.Context, status domain.AnimalStatus) (int64, error) {
	if !domain.ValidStatus(status) {
		return 0, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	return s.animals.CountByStatus(ctx, status)
}

// toCoordinates converts optional float coordinates into fixed-point
// decimals rounded to 8 fractional digits, validating their ranges.
func toCoordinates(lat, lon *float64) (*decimal.Decimal, *decimal.Decimal, error) {
	if lat == nil || lon == nil {
		return nil, nil, nil
	}
	if *lat < -90 || *lat > 90 {
		return nil, nil, fmt.Errorf("%w: latitude %v out of range", domain.ErrInvalidInput, *lat)
	}
	if *lon < -180 || *lon > 180 {
		return nil, nil, fmt.Errorf("%w: longitude %v out of range", domain.ErrInvalidInput, *lon)
	}
	dLat := decimal.NewFromFloat(*lat).Round(coordinateScale)
	dLon := decimal.NewFromFloat(*lon).Round(coordinateScale)
	return &dLat, &dLon, nil
}
