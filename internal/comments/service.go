// Package comments serves threaded phone discussions and their moderation.
package comments

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/angelmondragon/phonedex-backend/pkg/db"
	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
	"github.com/angelmondragon/phonedex-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/phonedex-backend/pkg/errors"
	"github.com/angelmondragon/phonedex-backend/pkg/types"
)

// Service exposes comment operations.
type Service interface {
	Thread(ctx context.Context, phoneID uuid.UUID) ([]Node, error)
	Create(ctx context.Context, userID, phoneID uuid.UUID, input CreateCommentInput) (CommentDTO, error)
	List(ctx context.Context, q ListQuery) ([]CommentDTO, types.Pagination, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.CommentStatus) (CommentDTO, error)
}

// ServiceParams wires the comment service.
type ServiceParams struct {
	Repository        *Repository
	RequireModeration bool
}

type service struct {
	repo     *Repository
	moderate bool
}

// NewService validates dependencies and builds the comment service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repository == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment repository is required")
	}
	return &service{repo: params.Repository, moderate: params.RequireModeration}, nil
}

func (s *service) requirePhone(ctx context.Context, phoneID uuid.UUID) error {
	ok, err := s.repo.PublicPhoneExists(ctx, phoneID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load phone")
	}
	if !ok {
		return pkgerrors.NotFound("phone")
	}
	return nil
}

func (s *service) Thread(ctx context.Context, phoneID uuid.UUID) ([]Node, error) {
	if err := s.requirePhone(ctx, phoneID); err != nil {
		return nil, err
	}
	rows, err := s.repo.Published(ctx, phoneID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list comments")
	}
	return BuildTree(rows), nil
}

func (s *service) Create(ctx context.Context, userID, phoneID uuid.UUID, input CreateCommentInput) (CommentDTO, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return CommentDTO{}, pkgerrors.InvalidField("content", "content is required", "is required")
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return CommentDTO{}, pkgerrors.InvalidField("content", "content is too long", "max=2000")
	}
	if err := s.requirePhone(ctx, phoneID); err != nil {
		return CommentDTO{}, err
	}
	if input.ParentID != nil {
		if err := s.checkParent(ctx, phoneID, *input.ParentID); err != nil {
			return CommentDTO{}, err
		}
	}

	status := enums.CommentStatusPublished
	if s.moderate {
		status = enums.CommentStatusPending
	}
	comment := &models.Comment{
		PhoneID:  phoneID,
		UserID:   userID,
		ParentID: input.ParentID,
		Content:  content,
		Status:   status,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return CommentDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: insert comment")
	}
	return s.get(ctx, comment.ID)
}

func (s *service) checkParent(ctx context.Context, phoneID, parentID uuid.UUID) error {
	parent, err := s.repo.FindByID(ctx, parentID)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.NotFound("parent comment")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load parent comment")
	}
	if parent.PhoneID != phoneID {
		return pkgerrors.InvalidField("parentId", "parent comment belongs to another phone", "must reference a comment on the same phone")
	}
	if parent.Status != enums.CommentStatusPublished {
		return pkgerrors.NotFound("parent comment")
	}
	return nil
}

func (s *service) get(ctx context.Context, id uuid.UUID) (CommentDTO, error) {
	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return CommentDTO{}, pkgerrors.NotFound("comment")
		}
		return CommentDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load comment")
	}
	return NewCommentDTO(*comment), nil
}

func (s *service) List(ctx context.Context, q ListQuery) ([]CommentDTO, types.Pagination, error) {
	if q.Status != nil && !q.Status.IsValid() {
		return nil, types.Pagination{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}
	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, types.Pagination{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list comments")
	}
	out := make([]CommentDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewCommentDTO(row))
	}
	return out, q.Page.Meta(total), nil
}

func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status enums.CommentStatus) (CommentDTO, error) {
	if !status.IsValid() {
		return CommentDTO{}, pkgerrors.InvalidField("status", "invalid status", "must be one of pending, published, hidden")
	}
	ok, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		return CommentDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: update comment status")
	}
	if !ok {
		return CommentDTO{}, pkgerrors.NotFound("comment")
	}
	return s.get(ctx, id)
}
