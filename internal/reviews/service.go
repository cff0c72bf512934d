// Package reviews implements phone reviews: the public listing, submission and
// voting flows plus dashboard management. Every write recomputes the phone's
// review_count and average_rating inside the same transaction.
package reviews

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/angelmondragon/phonedex-backend/pkg/db"
	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
	"github.com/angelmondragon/phonedex-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/phonedex-backend/pkg/errors"
	"github.com/angelmondragon/phonedex-backend/pkg/filter"
	"github.com/angelmondragon/phonedex-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes review operations.
type Service interface {
	List(ctx context.Context, q ListQuery) ([]ReviewDTO, types.Pagination, error)
	Get(ctx context.Context, id uuid.UUID) (ReviewDTO, error)
	Create(ctx context.Context, input CreateReviewInput) (ReviewDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateReviewInput) (ReviewDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListForPhone(ctx context.Context, phoneID uuid.UUID, q PhoneQuery) ([]ReviewDTO, types.Pagination, error)
	Submit(ctx context.Context, userID, phoneID uuid.UUID, input ReviewInput) (ReviewDTO, error)
	Vote(ctx context.Context, id uuid.UUID, helpful bool) (ReviewDTO, error)
}

// ServiceParams wires the review service.
type ServiceParams struct {
	Repository *Repository
	TxRunner   txRunner
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService validates dependencies and builds the review service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repository == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review repository is required")
	}
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	return &service{repo: params.Repository, tx: params.TxRunner}, nil
}

func (s *service) List(ctx context.Context, q ListQuery) ([]ReviewDTO, types.Pagination, error) {
	if q.Rating != nil && !validRating(*q.Rating) {
		return nil, types.Pagination{}, ratingError("rating")
	}
	where := filter.All(
		filter.EqOpt("phone_id", q.PhoneID),
		filter.EqOpt("user_id", q.UserID),
		filter.EqOpt("rating", q.Rating),
	)
	rows, total, err := s.repo.List(ctx, where, sortKeys.Resolve(q.SortBy, q.SortOrder), q.Page)
	if err != nil {
		return nil, types.Pagination{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list reviews")
	}
	return toDTOs(rows), q.Page.Meta(total), nil
}

func (s *service) ListForPhone(ctx context.Context, phoneID uuid.UUID, q PhoneQuery) ([]ReviewDTO, types.Pagination, error) {
	if err := requirePublicPhone(ctx, s.repo, phoneID); err != nil {
		return nil, types.Pagination{}, err
	}
	rows, total, err := s.repo.List(ctx, filter.Eq("phone_id", phoneID), sortKeys.Resolve(q.Sort, "desc"), q.Page)
	if err != nil {
		return nil, types.Pagination{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list phone reviews")
	}
	return toDTOs(rows), q.Page.Meta(total), nil
}

func toDTOs(rows []models.Review) []ReviewDTO {
	out := make([]ReviewDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewReviewDTO(row))
	}
	return out
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (ReviewDTO, error) {
	review, err := load(ctx, s.repo, id)
	if err != nil {
		return ReviewDTO{}, err
	}
	return NewReviewDTO(*review), nil
}

func load(ctx context.Context, repo *Repository, id uuid.UUID) (*models.Review, error) {
	review, err := repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound("review")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load review")
	}
	return review, nil
}

func validRating(v int) bool {
	return v >= MinRating && v <= MaxRating
}

func ratingError(field string) error {
	return pkgerrors.InvalidField(field, fmt.Sprintf("%s must be between %d and %d", field, MinRating, MaxRating), "must be between 1 and 5")
}

func checkSubRatings(values map[string]*int) error {
	for field, v := range values {
		if v != nil && !validRating(*v) {
			return ratingError(field)
		}
	}
	return nil
}

func validateInput(input ReviewInput) error {
	if !validRating(input.Rating) {
		return ratingError("rating")
	}
	return checkSubRatings(map[string]*int{
		"designRating":      input.DesignRating,
		"performanceRating": input.PerformanceRating,
		"cameraRating":      input.CameraRating,
		"batteryRating":     input.BatteryRating,
		"valueRating":       input.ValueRating,
	})
}

func requirePhone(ctx context.Context, repo *Repository, id uuid.UUID) (*models.Phone, error) {
	phone, err := repo.FindPhone(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound("phone")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load phone")
	}
	return phone, nil
}

func requirePublicPhone(ctx context.Context, repo *Repository, id uuid.UUID) error {
	phone, err := requirePhone(ctx, repo, id)
	if err != nil {
		return err
	}
	if phone.Status == enums.PhoneStatusDraft {
		return pkgerrors.NotFound("phone")
	}
	return nil
}

func requireUser(ctx context.Context, repo *Repository, id uuid.UUID) error {
	if _, err := repo.FindUser(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.NotFound("user")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load user")
	}
	return nil
}

func (s *service) Create(ctx context.Context, input CreateReviewInput) (ReviewDTO, error) {
	return s.create(ctx, input.UserID, input.PhoneID, input.ReviewInput, input.IsVerified, false)
}

func (s *service) Submit(ctx context.Context, userID, phoneID uuid.UUID, input ReviewInput) (ReviewDTO, error) {
	return s.create(ctx, userID, phoneID, input, false, true)
}

func (s *service) create(ctx context.Context, userID, phoneID uuid.UUID, input ReviewInput, verified, public bool) (ReviewDTO, error) {
	if err := validateInput(input); err != nil {
		return ReviewDTO{}, err
	}

	var out ReviewDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if public {
			if err := requirePublicPhone(ctx, repo, phoneID); err != nil {
				return err
			}
		} else if _, err := requirePhone(ctx, repo, phoneID); err != nil {
			return err
		}
		if err := requireUser(ctx, repo, userID); err != nil {
			return err
		}
		exists, err := repo.Exists(ctx, userID, phoneID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: check review")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeConflict, "user has already reviewed this phone")
		}

		review := &models.Review{
			UserID:            userID,
			PhoneID:           phoneID,
			Rating:            input.Rating,
			Title:             trimmed(input.Title),
			Content:           trimmed(input.Content),
			DesignRating:      input.DesignRating,
			PerformanceRating: input.PerformanceRating,
			CameraRating:      input.CameraRating,
			BatteryRating:     input.BatteryRating,
			ValueRating:       input.ValueRating,
			Pros:              pq.StringArray(cleanList(input.Pros)),
			Cons:              pq.StringArray(cleanList(input.Cons)),
			IsVerified:        verified,
		}
		if err := repo.Create(ctx, review); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "user has already reviewed this phone")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: insert review")
		}
		if err := repo.RecomputePhoneRating(ctx, phoneID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: recompute phone rating")
		}

		stored, err := load(ctx, repo, review.ID)
		if err != nil {
			return err
		}
		out = NewReviewDTO(*stored)
		return nil
	})
	if err != nil {
		return ReviewDTO{}, err
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateReviewInput) (ReviewDTO, error) {
	if input.Rating != nil && !validRating(*input.Rating) {
		return ReviewDTO{}, ratingError("rating")
	}
	if err := checkSubRatings(map[string]*int{
		"designRating":      input.DesignRating,
		"performanceRating": input.PerformanceRating,
		"cameraRating":      input.CameraRating,
		"batteryRating":     input.BatteryRating,
		"valueRating":       input.ValueRating,
	}); err != nil {
		return ReviewDTO{}, err
	}

	var out ReviewDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		review, err := load(ctx, repo, id)
		if err != nil {
			return err
		}
		applyUpdate(review, input)
		if err := repo.Save(ctx, review); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: update review")
		}
		if input.Rating != nil {
			if err := repo.RecomputePhoneRating(ctx, review.PhoneID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: recompute phone rating")
			}
		}
		out = NewReviewDTO(*review)
		return nil
	})
	if err != nil {
		return ReviewDTO{}, err
	}
	return out, nil
}

func applyUpdate(review *models.Review, input UpdateReviewInput) {
	if input.Rating != nil {
		review.Rating = *input.Rating
	}
	if input.Title != nil {
		review.Title = trimmed(input.Title)
	}
	if input.Content != nil {
		review.Content = trimmed(input.Content)
	}
	if input.DesignRating != nil {
		review.DesignRating = input.DesignRating
	}
	if input.PerformanceRating != nil {
		review.PerformanceRating = input.PerformanceRating
	}
	if input.CameraRating != nil {
		review.CameraRating = input.CameraRating
	}
	if input.BatteryRating != nil {
		review.BatteryRating = input.BatteryRating
	}
	if input.ValueRating != nil {
		review.ValueRating = input.ValueRating
	}
	if input.Pros != nil {
		review.Pros = pq.StringArray(cleanList(*input.Pros))
	}
	if input.Cons != nil {
		review.Cons = pq.StringArray(cleanList(*input.Cons))
	}
	if input.IsVerified != nil {
		review.IsVerified = *input.IsVerified
	}
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		review, err := load(ctx, repo, id)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: delete review")
		}
		if err := repo.RecomputePhoneRating(ctx, review.PhoneID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: recompute phone rating")
		}
		return nil
	})
}

func (s *service) Vote(ctx context.Context, id uuid.UUID, helpful bool) (ReviewDTO, error) {
	ok, err := s.repo.Vote(ctx, id, helpful)
	if err != nil {
		return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: record review vote")
	}
	if !ok {
		return ReviewDTO{}, pkgerrors.NotFound("review")
	}
	return s.Get(ctx, id)
}
