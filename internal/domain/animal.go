package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AnimalStatus tracks where an animal is in the rescue process.
type AnimalStatus string

const (
	StatusReported AnimalStatus = "reported"
	StatusRescued  AnimalStatus = "rescued"
	StatusFostered AnimalStatus = "fostered"
	StatusAdopted  AnimalStatus = "adopted"
	StatusDeceased AnimalStatus = "deceased"
)

// ValidStatus reports whether s is one of the known rescue statuses.
func ValidStatus(s AnimalStatus) bool {
	switch s {
	case StatusReported, StatusRescued, StatusFostered, StatusAdopted, StatusDeceased:
		return true
	}
	return false
}

// Animal is a stray animal reported by a volunteer. Latitude and longitude
// are fixed-point decimal degrees; both are nil when the reporter could not
// pin a location, and such animals never appear in proximity search results.
type Animal struct {
	ID                  int64
	Name                string
	Species             string
	Breed               string
	Status              AnimalStatus
	Description         string
	EstimatedAge        string
	Gender              string
	Size                string
	LocationDescription string
	Latitude            *decimal.Decimal
	Longitude           *decimal.Decimal
	ReportedByUserID    int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasLocation reports whether both coordinates are present.
func (a *Animal) HasLocation() bool {
	return a.Latitude != nil && a.Longitude != nil
}

// AnimalRepository defines persistence operations for animals.
type AnimalRepository interface {
	Create(ctx context.Context, animal *Animal) error
	GetByID(ctx context.Context, id int64) (*Animal, error)
	List(ctx context.Context) ([]Animal, error)
	ListByStatus(ctx context.Context, status AnimalStatus) ([]Animal, error)
	ListBySpecies(ctx context.Context, species string) ([]Animal, error)
	// ListLocated returns animals that have both coordinates set, ordered by id.
	ListLocated(ctx context.Context) ([]Animal, error)
	ListReportedBy(ctx context.Context, userID int64) ([]Animal, error)
	ListReportedSince(ctx context.Context, since time.Time) ([]Animal, error)
	Search(ctx context.Context, term string) ([]Animal, error)
	Update(ctx context.Context, animal *Animal) error
	Delete(ctx context.Context, id int64) error
	CountByStatus(ctx context.Context, status AnimalStatus) (int64, error)
}
