package search

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/phonedex-backend/internal/catalog"
	"github.com/angelmondragon/phonedex-backend/internal/repo"
	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
	"github.com/angelmondragon/phonedex-backend/pkg/filter"
)

// Repository runs substring searches and facet aggregations.
type Repository struct {
	repo.Base
}

// NewRepository binds the search repository to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// NameHit is a lightweight suggestion row.
type NameHit struct {
	ID    string
	Name  string
	Slug  string
	Brand string
}

// PhoneMatch matches phone text columns, the brand name, or any specification
// key, value or display name.
func PhoneMatch(term string) filter.Predicate {
	direct := filter.ContainsFold(term, "phones.name", "phones.description", "phones.model", "phones.series", "brands.name")
	if direct.IsZero() {
		return direct
	}
	specClause, specArgs := filter.ContainsFold(term, "s.key", "s.value", "s.display_name").SQL()
	specs := filter.Raw("EXISTS (SELECT 1 FROM specifications s WHERE s.phone_id = phones.id AND "+specClause+")", specArgs...)
	return filter.Any(direct, specs)
}

// BrandMatch matches brand name or description.
func BrandMatch(term string) filter.Predicate {
	return filter.ContainsFold(term, "brands.name", "brands.description")
}

// prefixFirst orders rows whose column starts with term ahead of the rest,
// then alphabetically. It is one expression because gorm drops an expression
// ORDER BY when further columns are merged into it.
func prefixFirst(column, term string) clause.OrderBy {
	return clause.OrderBy{Expression: clause.Expr{
		SQL:  "CASE WHEN LOWER(" + column + `) LIKE ? ESCAPE '\' THEN 0 ELSE 1 END, ` + column + " ASC",
		Vars: []any{filter.PrefixPattern(strings.TrimSpace(term))},
	}}
}

// SearchPhones returns public phones matching term, prefix matches first.
func (r *Repository) SearchPhones(ctx context.Context, term string, limit int) ([]models.Phone, error) {
	var rows []models.Phone
	err := PhoneMatch(term).Apply(r.DB(ctx).Scopes(catalog.PublicPhones)).
		Preload("Brand").
		Order(prefixFirst("phones.name", term)).
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// SearchBrands returns active brands matching term, prefix matches first.
func (r *Repository) SearchBrands(ctx context.Context, term string, limit int) ([]models.Brand, error) {
	var rows []models.Brand
	err := BrandMatch(term).Apply(r.DB(ctx).Model(&models.Brand{}).Where("brands.is_active = ?", true)).
		Order(prefixFirst("brands.name", term)).
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// SuggestPhones returns public phone names containing term.
func (r *Repository) SuggestPhones(ctx context.Context, term string, limit int) ([]NameHit, error) {
	var rows []NameHit
	err := filter.ContainsFold(term, "phones.name").Apply(r.DB(ctx).Scopes(catalog.PublicPhones)).
		Select("phones.id AS id, phones.name AS name, phones.slug AS slug, brands.name AS brand").
		Order(prefixFirst("phones.name", term)).
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// SuggestBrands returns active brand names containing term.
func (r *Repository) SuggestBrands(ctx context.Context, term string, limit int) ([]NameHit, error) {
	var rows []NameHit
	err := filter.ContainsFold(term, "brands.name").Apply(r.DB(ctx).Model(&models.Brand{}).Where("brands.is_active = ?", true)).
		Select("brands.id AS id, brands.name AS name, brands.slug AS slug").
		Order(prefixFirst("brands.name", term)).
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
