package handler

import (
	"time"

	"github.com/pawtrail/rescue/internal/domain"
)

// UserDTO is the JSON representation of a user.
type UserDTO struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Phone       string `json:"phone,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Phone:       u.Phone,
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
	}
}

// AnimalDTO is the JSON representation of an animal. Coordinates are
// rendered as strings to keep their fixed-point precision intact; the
// parent never embeds its images (clients fetch them separately).
type AnimalDTO struct {
	ID                  int64   `json:"id"`
	Name                string  `json:"name"`
	Species             string  `json:"species"`
	Breed               string  `json:"breed,omitempty"`
	Status              string  `json:"status"`
	Description         string  `json:"description,omitempty"`
	EstimatedAge        string  `json:"estimatedAge,omitempty"`
	Gender              string  `json:"gender,omitempty"`
	Size                string  `json:"size,omitempty"`
	LocationDescription string  `json:"locationDescription,omitempty"`
	Latitude            *string `json:"latitude"`
	Longitude           *string `json:"longitude"`
	ReportedByUserID    int64   `json:"reportedByUserId"`
	CreatedAt           string  `json:"createdAt"`
	UpdatedAt           string  `json:"updatedAt"`
}

func toAnimalDTO(a *domain.Animal) AnimalDTO {
	dto := AnimalDTO{
		ID:                  a.ID,
		Name:                a.Name,
		Species:             a.Species,
		Breed:               a.Breed,
		Status:              string(a.Status),
		Description:         a.Description,
		EstimatedAge:        a.EstimatedAge,
		Gender:              a.Gender,
		Size:                a.Size,
		LocationDescription: a.LocationDescription,
		ReportedByUserID:    a.ReportedByUserID,
		CreatedAt:           a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           a.UpdatedAt.Format(time.RFC3339),
	}
	if a.Latitude != nil {
		lat := a.Latitude.StringFixed(8)
		dto.Latitude = &lat
	}
	if a.Longitude != nil {
		lon := a.Longitude.StringFixed(8)
		dto.Longitude = &lon
	}
	return dto
}

func toAnimalDTOs(animals []domain.Animal) []AnimalDTO {
	dtos := make([]AnimalDTO, len(animals))
	for i := range animals {
		dtos[i] = toAnimalDTO(&animals[i])
	}
	return dtos
}

// AnimalImageDTO is the JSON representation of an animal image.
type AnimalImageDTO struct {
	ID               int64  `json:"id"`
	AnimalID         int64  `json:"animalId"`
	FileName         string `json:"fileName"`
	SourceURL        string `json:"sourceUrl"`
	ByteSize         int64  `json:"byteSize"`
	ContentType      string `json:"contentType"`
	IsPrimary        bool   `json:"isPrimary"`
	DisplayOrder     int    `json:"displayOrder"`
	UploadedByUserID int64  `json:"uploadedByUserId"`
	CreatedAt        string `json:"createdAt"`
}

func toAnimalImageDTO(img *domain.AnimalImage) AnimalImageDTO {
	return AnimalImageDTO{
		ID:               img.ID,
		AnimalID:         img.AnimalID,
		FileName:         img.FileName,
		SourceURL:        img.SourceURL,
		ByteSize:         img.ByteSize,
		ContentType:      img.ContentType,
		IsPrimary:        img.IsPrimary,
		DisplayOrder:     img.DisplayOrder,
		UploadedByUserID: img.UploadedByUserID,
		CreatedAt:        img.CreatedAt.Format(time.RFC3339),
	}
}

func toAnimalImageDTOs(images []domain.AnimalImage) []AnimalImageDTO {
	dtos := make([]AnimalImageDTO, len(images))
	for i := range images {
		dtos[i] = toAnimalImageDTO(&images[i])
	}
	return dtos
}
