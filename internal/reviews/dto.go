package reviews

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
	"github.com/angelmondragon/phonedex-backend/pkg/pagination"
)

const (
	MinRating = 1
	MaxRating = 5
)

// ListQuery is the dashboard review listing request.
type ListQuery struct {
	Page      pagination.Params
	PhoneID   *uuid.UUID
	UserID    *uuid.UUID
	Rating    *int
	SortBy    string
	SortOrder string
}

// PhoneQuery is the public per-phone listing request. Sort is one of
// createdAt, rating or helpful; results are newest/highest first.
type PhoneQuery struct {
	Page pagination.Params
	Sort string
}

// ReviewInput is the body shared by public and dashboard creates.
type ReviewInput struct {
	Rating            int      `json:"rating" validate:"required,min=1,max=5"`
	Title             *string  `json:"title" validate:"omitempty,max=200"`
	Content           *string  `json:"content" validate:"omitempty,max=5000"`
	DesignRating      *int     `json:"designRating" validate:"omitempty,min=1,max=5"`
	PerformanceRating *int     `json:"performanceRating" validate:"omitempty,min=1,max=5"`
	CameraRating      *int     `json:"cameraRating" validate:"omitempty,min=1,max=5"`
	BatteryRating     *int     `json:"batteryRating" validate:"omitempty,min=1,max=5"`
	ValueRating       *int     `json:"valueRating" validate:"omitempty,min=1,max=5"`
	Pros              []string `json:"pros" validate:"omitempty,max=20,dive,max=200"`
	Cons              []string `json:"cons" validate:"omitempty,max=20,dive,max=200"`
}

// CreateReviewInput is the dashboard create payload; it names the author and
// phone explicitly.
type CreateReviewInput struct {
	ReviewInput
	UserID     uuid.UUID `json:"userId" validate:"required"`
	PhoneID    uuid.UUID `json:"phoneId" validate:"required"`
	IsVerified bool      `json:"isVerified"`
}

// UpdateReviewInput carries optional changes.
type UpdateReviewInput struct {
	Rating            *int      `json:"rating" validate:"omitempty,min=1,max=5"`
	Title             *string   `json:"title" validate:"omitempty,max=200"`
	Content           *string   `json:"content" validate:"omitempty,max=5000"`
	DesignRating      *int      `json:"designRating" validate:"omitempty,min=1,max=5"`
	PerformanceRating *int      `json:"performanceRating" validate:"omitempty,min=1,max=5"`
	CameraRating      *int      `json:"cameraRating" validate:"omitempty,min=1,max=5"`
	BatteryRating     *int      `json:"batteryRating" validate:"omitempty,min=1,max=5"`
	ValueRating       *int      `json:"valueRating" validate:"omitempty,min=1,max=5"`
	Pros              *[]string `json:"pros" validate:"omitempty,max=20,dive,max=200"`
	Cons              *[]string `json:"cons" validate:"omitempty,max=20,dive,max=200"`
	IsVerified        *bool     `json:"isVerified"`
}

// VoteInput is the helpful/not-helpful vote body.
type VoteInput struct {
	Helpful *bool `json:"helpful" validate:"required"`
}

// Author is the public slice of the reviewing user.
type Author struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatarUrl"`
}

// ReviewDTO is the review payload.
type ReviewDTO struct {
	ID                uuid.UUID `json:"id"`
	PhoneID           uuid.UUID `json:"phoneId"`
	UserID            uuid.UUID `json:"userId"`
	Rating            int       `json:"rating"`
	Title             *string   `json:"title"`
	Content           *string   `json:"content"`
	DesignRating      *int      `json:"designRating"`
	PerformanceRating *int      `json:"performanceRating"`
	CameraRating      *int      `json:"cameraRating"`
	BatteryRating     *int      `json:"batteryRating"`
	ValueRating       *int      `json:"valueRating"`
	Pros              []string  `json:"pros"`
	Cons              []string  `json:"cons"`
	HelpfulCount      int64     `json:"helpfulCount"`
	NotHelpfulCount   int64     `json:"notHelpfulCount"`
	IsVerified        bool      `json:"isVerified"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
	Author            *Author   `json:"author,omitempty"`
}

// NewReviewDTO maps a review row.
func NewReviewDTO(r models.Review) ReviewDTO {
	dto := ReviewDTO{
		ID:                r.ID,
		PhoneID:           r.PhoneID,
		UserID:            r.UserID,
		Rating:            r.Rating,
		Title:             r.Title,
		Content:           r.Content,
		DesignRating:      r.DesignRating,
		PerformanceRating: r.PerformanceRating,
		CameraRating:      r.CameraRating,
		BatteryRating:     r.BatteryRating,
		ValueRating:       r.ValueRating,
		Pros:              nonNil(r.Pros),
		Cons:              nonNil(r.Cons),
		HelpfulCount:      r.HelpfulCount,
		NotHelpfulCount:   r.NotHelpfulCount,
		IsVerified:        r.IsVerified,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	if r.User != nil {
		dto.Author = &Author{ID: r.User.ID, Name: r.User.Name, AvatarURL: r.User.AvatarURL}
	}
	return dto
}

func nonNil(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
