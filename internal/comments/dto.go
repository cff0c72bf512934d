package comments

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
	"github.com/angelmondragon/phonedex-backend/pkg/enums"
	"github.com/angelmondragon/phonedex-backend/pkg/pagination"
)

// MaxContentLength caps comment bodies in runes.
const MaxContentLength = 2000

// CreateCommentInput is the public create payload.
type CreateCommentInput struct {
	Content  string     `json:"content" validate:"required,max=2000"`
	ParentID *uuid.UUID `json:"parentId"`
}

// StatusInput is the moderation payload.
type StatusInput struct {
	Status enums.CommentStatus `json:"status" validate:"required"`
}

// ListQuery is the dashboard moderation queue request.
type ListQuery struct {
	Page    pagination.Params
	PhoneID *uuid.UUID
	Status  *enums.CommentStatus
}

// Author is the public slice of the commenting user.
type Author struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatarUrl"`
}

// CommentDTO is a single comment without replies.
type CommentDTO struct {
	ID          uuid.UUID           `json:"id"`
	PhoneID     uuid.UUID           `json:"phoneId"`
	ParentID    *uuid.UUID          `json:"parentId"`
	Content     string              `json:"content"`
	Status      enums.CommentStatus `json:"status"`
	LikeCount   int64               `json:"likeCount"`
	ReportCount int64               `json:"reportCount"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
	Author      *Author             `json:"author,omitempty"`
}

// Node is a comment with its nested replies.
type Node struct {
	CommentDTO
	Replies []Node `json:"replies"`
}

// NewCommentDTO maps a comment row.
func NewCommentDTO(c models.Comment) CommentDTO {
	dto := CommentDTO{
		ID:          c.ID,
		PhoneID:     c.PhoneID,
		ParentID:    c.ParentID,
		Content:     c.Content,
		Status:      c.Status,
		LikeCount:   c.LikeCount,
		ReportCount: c.ReportCount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.User != nil {
		dto.Author = &Author{ID: c.User.ID, Name: c.User.Name, AvatarURL: c.User.AvatarURL}
	}
	return dto
}
