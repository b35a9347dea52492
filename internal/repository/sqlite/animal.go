package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pawtrail/rescue/internal/domain"
	"github.com/shopspring/decimal"
)

// AnimalRepository implements domain.AnimalRepository using SQLite.
//
// Coordinates are persisted as fixed-point decimal text with 8 fractional
// digits so repeated load/store cycles never drift the way float columns do.
type AnimalRepository struct {
	db *sql.DB
}

// NewAnimalRepository creates a new SQLite-backed AnimalRepository.
func NewAnimalRepository(db *DB) *AnimalRepository {
	return &AnimalRepository{db: db.SqlDB}
}

const animalColumns = `id, name, species, breed, status, description, estimated_age, gender, size,
	 location_description, latitude, longitude, reported_by_user_id, created_at, updated_at`

func (r *AnimalRepository) Create(ctx context.Context, animal *domain.Animal) error {
	now := time.Now().UTC()
	if animal.Status == "" {
		animal.Status = domain.StatusReported
	}
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO animals (name, species, breed, status, description, estimated_age, gender, size,
		 location_description, latitude, longitude, reported_by_user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		animal.Name, animal.Species, animal.Breed, animal.Status, animal.Description,
		animal.EstimatedAge, animal.Gender, animal.Size, animal.LocationDescription,
		coordToText(animal.Latitude), coordToText(animal.Longitude),
		animal.ReportedByUserID, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert animal: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	animal.ID = id
	animal.CreatedAt = now
	animal.UpdatedAt = now
	return nil
}

func (r *AnimalRepository) GetByID(ctx context.Context, id int64) (*domain.Animal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+animalColumns+` FROM animals WHERE id = ?`, id)
	animal, err := scanAnimal(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get animal: %w", err)
	}
	return animal, nil
}

func (r *AnimalRepository) List(ctx context.Context) ([]domain.Animal, error) {
	return r.queryAnimals(ctx, `SELECT `+animalColumns+` FROM animals ORDER BY id`)
}

func (r *AnimalRepository) ListByStatus(ctx context.Context, status domain.AnimalStatus) ([]domain.Animal, error) {
	return r.queryAnimals(ctx,
		`SELECT `+animalColumns+` FROM animals WHERE status = ? ORDER BY id`, status)
}

func (r *AnimalRepository) ListBySpecies(ctx context.Context, species string) ([]domain.Animal, error) {
	return r.queryAnimals(ctx,
		`SELECT `+animalColumns+` FROM animals WHERE species LIKE ? COLLATE NOCASE ORDER BY id`,
		"%"+species+"%")
}

func (r *AnimalRepository) ListLocated(ctx context.Context) ([]domain.Animal, error) {
	return r.queryAnimals(ctx,
		`SELECT `+animalColumns+` FROM animals
		 WHERE latitude IS NOT NULL AND longitude IS NOT NULL ORDER BY id`)
}

func (r *AnimalRepository) ListReportedBy(ctx context.Context, userID int64) ([]domain.Animal, error) {
	return r.queryAnimals(ctx,
		`SELECT `+animalColumns+` FROM animals WHERE reported_by_user_id = ? ORDER BY created_at DESC, id DESC`,
		userID)
}

func (r *AnimalRepository) ListReportedSince(ctx context.Context, since time.Time) ([]domain.Animal, error) {
	return r.queryAnimals(ctx,
		`SELECT `+animalColumns+` FROM animals WHERE created_at > ? ORDER BY created_at DESC, id DESC`,
		since.UTC())
}

func (r *AnimalRepository) Search(ctx context.Context, term string) ([]domain.Animal, error) {
	pattern := "%" + term + "%"
	return r.queryAnimals(ctx,
		`SELECT `+animalColumns+` FROM animals
		 WHERE name LIKE ? COLLATE NOCASE OR description LIKE ? COLLATE NOCASE ORDER BY id`,
		pattern, pattern)
}

func (r *AnimalRepository) Update(ctx context.Context, animal *domain.Animal) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE animals SET name = ?, species = ?, breed = ?, status = ?, description = ?,
		 estimated_age = ?, gender = ?, size = ?, location_description = ?,
		 latitude = ?, longitude = ?, updated_at = ?
		 WHERE id = ?`,
		animal.Name, animal.Species, animal.Breed, animal.Status, animal.Description,
		animal.EstimatedAge, animal.Gender, animal.Size, animal.LocationDescription,
		coordToText(animal.Latitude), coordToText(animal.Longitude), now, animal.ID,
	)
	if err != nil {
		return fmt.Errorf("update animal: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	animal.UpdatedAt = now
	return nil
}

func (r *AnimalRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM animals WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete animal: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AnimalRepository) CountByStatus(ctx context.Context, status domain.AnimalStatus) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM animals WHERE status = ?", status,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count animals: %w", err)
	}
	return count, nil
}

func (r *AnimalRepository) queryAnimals(ctx context.Context, query string, args ...any) ([]domain.Animal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list animals: %w", err)
	}
	defer rows.Close()

	var animals []domain.Animal
	for rows.Next() {
		animal, err := scanAnimal(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan animal: %w", err)
		}
		animals = append(animals, *animal)
	}
	return animals, rows.Err()
}

func scanAnimal(scan func(dest ...any) error) (*domain.Animal, error) {
	a := &domain.Animal{}
	var lat, lon sql.NullString
	err := scan(&a.ID, &a.Name, &a.Species, &a.Breed, &a.Status, &a.Description,
		&a.EstimatedAge, &a.Gender, &a.Size, &a.LocationDescription,
		&lat, &lon, &a.ReportedByUserID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if a.Latitude, err = coordFromText(lat); err != nil {
		return nil, fmt.Errorf("parse latitude: %w", err)
	}
	if a.Longitude, err = coordFromText(lon); err != nil {
		return nil, fmt.Errorf("parse longitude: %w", err)
	}
	return a, nil
}

func coordToText(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.StringFixed(8)
}

func coordFromText(s sql.NullString) (*decimal.Decimal, error) {
	if !s.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
