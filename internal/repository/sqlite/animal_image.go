package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pawtrail/rescue/internal/domain"
)

// AnimalImageRepository implements domain.AnimalImageRepository using SQLite.
//
// Every operation that can flip the primary flag runs inside a single
// transaction, so readers never observe an animal with zero or two primary
// images. With the single-connection pool this also serializes concurrent
// invariant mutations.
type AnimalImageRepository struct {
	db *sql.DB
}

// NewAnimalImageRepository creates a new SQLite-backed AnimalImageRepository.
func NewAnimalImageRepository(db *DB) *AnimalImageRepository {
	return &AnimalImageRepository{db: db.SqlDB}
}

const imageColumns = `id, animal_id, file_name, storage_key, source_url, byte_size, content_type,
	 is_primary, display_order, uploaded_by_user_id, created_at`

func (r *AnimalImageRepository) CreateAppend(ctx context.Context, image *domain.AnimalImage) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// The count decides both the display order and the primary flag, so it
	// must be read inside the same transaction as the insert.
	var count int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM animal_images WHERE animal_id = ?", image.AnimalID,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("count animal images: %w", err)
	}

	now := time.Now().UTC()
	image.IsPrimary = count == 0
	image.DisplayOrder = count // Append at end

	result, err := tx.ExecContext(ctx,
		`INSERT INTO animal_images (animal_id, file_name, storage_key, source_url, byte_size,
		 content_type, is_primary, display_order, uploaded_by_user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		image.AnimalID, image.FileName, image.StorageKey, image.SourceURL, image.ByteSize,
		image.ContentType, image.IsPrimary, image.DisplayOrder, image.UploadedByUserID, now,
	)
	if err != nil {
		return fmt.Errorf("insert animal image: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	image.ID = id
	image.CreatedAt = now
	return nil
}

func (r *AnimalImageRepository) GetByID(ctx context.Context, id int64) (*domain.AnimalImage, error) {
	img := &domain.AnimalImage{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+imageColumns+` FROM animal_images WHERE id = ?`, id,
	).Scan(&img.ID, &img.AnimalID, &img.FileName, &img.StorageKey, &img.SourceURL,
		&img.ByteSize, &img.ContentType, &img.IsPrimary, &img.DisplayOrder,
		&img.UploadedByUserID, &img.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get animal image: %w", err)
	}
	return img, nil
}

func (r *AnimalImageRepository) ListByAnimal(ctx context.Context, animalID int64) ([]domain.AnimalImage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+imageColumns+` FROM animal_images WHERE animal_id = ? ORDER BY display_order`,
		animalID)
	if err != nil {
		return nil, fmt.Errorf("list animal images: %w", err)
	}
	defer rows.Close()

	var images []domain.AnimalImage
	for rows.Next() {
		var img domain.AnimalImage
		if err := rows.Scan(&img.ID, &img.AnimalID, &img.FileName, &img.StorageKey, &img.SourceURL,
			&img.ByteSize, &img.ContentType, &img.IsPrimary, &img.DisplayOrder,
			&img.UploadedByUserID, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan animal image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *AnimalImageRepository) GetPrimary(ctx context.Context, animalID int64) (*domain.AnimalImage, error) {
	img := &domain.AnimalImage{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+imageColumns+` FROM animal_images WHERE animal_id = ? AND is_primary = 1`,
		animalID,
	).Scan(&img.ID, &img.AnimalID, &img.FileName, &img.StorageKey, &img.SourceURL,
		&img.ByteSize, &img.ContentType, &img.IsPrimary, &img.DisplayOrder,
		&img.UploadedByUserID, &img.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get primary image: %w", err)
	}
	return img, nil
}

func (r *AnimalImageRepository) CountByAnimal(ctx context.Context, animalID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM animal_images WHERE animal_id = ?", animalID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count animal images: %w", err)
	}
	return count, nil
}

func (r *AnimalImageRepository) SetPrimary(ctx context.Context, animalID, imageID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"UPDATE animal_images SET is_primary = 0 WHERE animal_id = ?", animalID); err != nil {
		return fmt.Errorf("clear primary flags: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		"UPDATE animal_images SET is_primary = 1 WHERE id = ? AND animal_id = ?",
		imageID, animalID)
	if err != nil {
		return fmt.Errorf("set primary flag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		// Rolls back the clear step too, so the old primary survives.
		return domain.ErrNotFound
	}

	return tx.Commit()
}

func (r *AnimalImageRepository) DeleteImage(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var animalID int64
	var wasPrimary bool
	err = tx.QueryRowContext(ctx,
		"SELECT animal_id, is_primary FROM animal_images WHERE id = ?", id,
	).Scan(&animalID, &wasPrimary)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get animal image: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM animal_images WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete animal image: %w", err)
	}

	if wasPrimary {
		// Promote the remaining image with the lowest display order, if any.
		if _, err := tx.ExecContext(ctx,
			`UPDATE animal_images SET is_primary = 1 WHERE id = (
				SELECT id FROM animal_images WHERE animal_id = ?
				ORDER BY display_order, id LIMIT 1
			)`, animalID); err != nil {
			return fmt.Errorf("promote next primary: %w", err)
		}
	}

	return tx.Commit()
}

func (r *AnimalImageRepository) ListKeysByAnimal(ctx context.Context, animalID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT storage_key FROM animal_images WHERE animal_id = ?", animalID)
	if err != nil {
		return nil, fmt.Errorf("list storage keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan storage key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
