// Package compare builds side-by-side phone comparisons.
package compare

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/phonedex-backend/pkg/errors"
)

const (
	MinPhones = 2
	MaxPhones = 5
)

type loader interface {
	Load(ctx context.Context, ids []uuid.UUID) (Snapshot, error)
}

// Service compares 2 to 5 phones.
type Service interface {
	Compare(ctx context.Context, rawIDs string) (Result, Metadata, error)
}

type service struct {
	repo loader
	now  func() time.Time
}

// NewService builds the comparison service.
func NewService(repo loader) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "compare repository is required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// ParseIDs splits a comma-separated id list, dropping blanks and repeated ids
// while keeping first-seen order. Parseable ids are rewritten to their
// canonical hyphenated form so every spelling of one phone collapses.
func ParseIDs(raw string) []string {
	parts := strings.Split(raw, ",")
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		id := strings.ToLower(strings.TrimSpace(part))
		if id == "" {
			continue
		}
		if parsed, err := uuid.Parse(id); err == nil {
			id = parsed.String()
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *service) Compare(ctx context.Context, rawIDs string) (Result, Metadata, error) {
	requested := ParseIDs(rawIDs)
	if len(requested) < MinPhones || len(requested) > MaxPhones {
		return Result{}, Metadata{}, pkgerrors.New(
			pkgerrors.CodeValidation,
			fmt.Sprintf("comparison requires between %d and %d phones", MinPhones, MaxPhones),
		).WithDetails(map[string]any{"requested": len(requested)})
	}

	ids := make([]uuid.UUID, 0, len(requested))
	for _, raw := range requested {
		if id, err := uuid.Parse(raw); err == nil {
			ids = append(ids, id)
		}
	}

	snap := Snapshot{}
	if len(ids) > 0 {
		var err error
		snap, err = s.repo.Load(ctx, ids)
		if err != nil {
			return Result{}, Metadata{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load comparison")
		}
	}

	found := make(map[string]struct{}, len(snap.Phones))
	for _, p := range snap.Phones {
		found[p.ID.String()] = struct{}{}
	}
	missing := make([]string, 0)
	for _, raw := range requested {
		if _, ok := found[raw]; !ok {
			missing = append(missing, raw)
		}
	}
	if len(missing) > 0 {
		return Result{}, Metadata{}, pkgerrors.New(pkgerrors.CodeNotFound, "one or more phones not found").
			WithDetails(map[string]any{"missingIds": missing})
	}

	result := Build(snap, s.now().UTC())
	return result, Metadata{
		RequestedIDs:  requested,
		ComparedCount: len(result.Phones),
		CategoryCount: len(result.Specifications),
	}, nil
}
