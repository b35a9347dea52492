package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/pawtrail/rescue/internal/domain"
)

// earthRadiusKm is the mean Earth radius used for great-circle distances.
const earthRadiusKm = 6371.0

// GeoService answers proximity queries over reported animals.
type GeoService struct {
	animals domain.AnimalRepository
}

// NewGeoService creates a new GeoService.
func NewGeoService(animals domain.AnimalRepository) *GeoService {
	return &GeoService{animals: animals}
}

// FindNear returns animals within radiusKm of the query point, boundary
// inclusive, ordered ascending by distance with ties broken by id. Animals
// without a stored location are not candidates.
func (s *GeoService) FindNear(ctx context.Context, lat, lon, radiusKm float64) ([]domain.Animal, error) {
	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("%w: latitude %v out of range", domain.ErrInvalidInput, lat)
	}
	if lon < -180 || lon > 180 {
		return nil, fmt.Errorf("%w: longitude %v out of range", domain.ErrInvalidInput, lon)
	}
	if radiusKm < 0 {
		return nil, fmt.Errorf("%w: radius must not be negative", domain.ErrInvalidInput)
	}

	candidates, err := s.animals.ListLocated(ctx)
	if err != nil {
		return nil, fmt.Errorf("list located animals: %w", err)
	}

	type match struct {
		animal   domain.Animal
		distance float64
	}
	var matches []match
	for _, a := range candidates {
		// Coordinates stay fixed-point until this single conversion.
		d := Haversine(lat, lon, a.Latitude.InexactFloat64(), a.Longitude.InexactFloat64())
		if d <= radiusKm {
			matches = append(matches, match{animal: a, distance: d})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].distance != matches[j].distance {
			return matches[i].distance < matches[j].distance
		}
		return matches[i].animal.ID < matches[j].animal.ID
	})

	animals := make([]domain.Animal, len(matches))
	for i, m := range matches {
		animals[i] = m.animal
	}
	return animals, nil
}

// Haversine returns the great-circle distance in kilometers between two
// points given in decimal degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
