// Package users implements dashboard user management and the caller lookup
// behind the X-User-Id header.
package users

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/phonedex-backend/internal/reviews"
	"github.com/angelmondragon/phonedex-backend/pkg/db"
	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
	"github.com/angelmondragon/phonedex-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/phonedex-backend/pkg/errors"
	"github.com/angelmondragon/phonedex-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// PasswordHasher encodes plaintext passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// Service exposes dashboard user operations.
type Service interface {
	List(ctx context.Context, q ListQuery) ([]UserDTO, types.Pagination, error)
	Get(ctx context.Context, id uuid.UUID) (UserDTO, error)
	Create(ctx context.Context, input CreateUserInput) (UserDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (UserDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Active(ctx context.Context, id uuid.UUID) (UserDTO, error)
}

// ServiceParams wires the user service.
type ServiceParams struct {
	Repository *Repository
	Hasher     PasswordHasher
	Reviews    *reviews.Repository
	TxRunner   txRunner
}

type service struct {
	repo    *Repository
	hasher  PasswordHasher
	reviews *reviews.Repository
	tx      txRunner
}

// NewService validates dependencies and builds the user service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repository == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repository is required")
	}
	if params.Hasher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password hasher is required")
	}
	if params.Reviews == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review repository is required")
	}
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	return &service{repo: params.Repository, hasher: params.Hasher, reviews: params.Reviews, tx: params.TxRunner}, nil
}

func (s *service) List(ctx context.Context, q ListQuery) ([]UserDTO, types.Pagination, error) {
	if q.Role != nil && !q.Role.IsValid() {
		return nil, types.Pagination{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, types.Pagination{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list users")
	}
	out := make([]UserDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, q.Page.Meta(total), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound("user")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load user")
	}
	return user, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return UserDTO{}, err
	}
	return FromModel(*user), nil
}

// Active resolves a caller id to an existing, active user.
func (s *service) Active(ctx context.Context, id uuid.UUID) (UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return UserDTO{}, err
	}
	if !user.IsActive {
		return UserDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "user is inactive")
	}
	return FromModel(*user), nil
}

func (s *service) ensureEmailFree(ctx context.Context, email string, exclude uuid.UUID) error {
	taken, err := s.repo.EmailTaken(ctx, email, exclude)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: check email")
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	}
	return nil
}

func conflictOr(err error, msg string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
}

func validRole(role enums.UserRole) error {
	if !role.IsValid() {
		return pkgerrors.InvalidField("role", "invalid role", "must be one of user, editor, admin")
	}
	return nil
}

func (s *service) Create(ctx context.Context, input CreateUserInput) (UserDTO, error) {
	email := normalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)
	if email == "" || name == "" {
		return UserDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "email and name are required")
	}
	if len(input.Password) < 8 {
		return UserDTO{}, pkgerrors.InvalidField("password", "password must be at least 8 characters", "min=8")
	}
	role := input.Role
	if role == "" {
		role = enums.UserRoleUser
	}
	if err := validRole(role); err != nil {
		return UserDTO{}, err
	}
	if err := s.ensureEmailFree(ctx, email, uuid.Nil); err != nil {
		return UserDTO{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		AvatarURL:    trimmed(input.AvatarURL),
		IsActive:     input.IsActive == nil || *input.IsActive,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return UserDTO{}, conflictOr(err, "db: insert user")
	}
	return FromModel(*user), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return UserDTO{}, err
	}

	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if email == "" {
			return UserDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "email cannot be blank")
		}
		if err := s.ensureEmailFree(ctx, email, user.ID); err != nil {
			return UserDTO{}, err
		}
		user.Email = email
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return UserDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
		}
		user.Name = name
	}
	if input.Password != nil {
		if len(*input.Password) < 8 {
			return UserDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
		}
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		user.PasswordHash = hash
	}
	if input.Role != nil {
		if err := validRole(*input.Role); err != nil {
			return UserDTO{}, err
		}
		user.Role = *input.Role
	}
	if input.AvatarURL != nil {
		user.AvatarURL = trimmed(input.AvatarURL)
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return UserDTO{}, conflictOr(err, "db: update user")
	}
	return FromModel(*user), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		phoneIDs, err := repo.ReviewedPhoneIDs(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list user reviews")
		}
		if err := repo.PurgeActivity(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: purge user activity")
		}
		deleted, err := repo.Delete(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: delete user")
		}
		if !deleted {
			return pkgerrors.NotFound("user")
		}
		reviewRepo := s.reviews.WithTx(tx)
		for _, phoneID := range phoneIDs {
			if err := reviewRepo.RecomputePhoneRating(ctx, phoneID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: recompute phone rating")
			}
		}
		return nil
	})
}
