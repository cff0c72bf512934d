package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/angelmondragon/phonedex-backend/internal/catalog"
	"github.com/angelmondragon/phonedex-backend/pkg/filter"
)

const (
	specFacetLimit  = 50
	colorFacetLimit = 20
)

// PriceBand is a fixed price bucket; Max is exclusive and nil on the top band.
type PriceBand struct {
	Label string   `json:"label"`
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
	Count int64    `json:"count"`
}

var priceBands = []struct {
	label string
	min, max *decimal.Decimal
}{
	{"Under $200", nil, dec(200)},
	{"$200 - $400", dec(200), dec(400)},
	{"$400 - $600", dec(400), dec(600)},
	{"$600 - $800", dec(600), dec(800)},
	{"$800 - $1000", dec(800), dec(1000)},
	{"$1000+", dec(1000), nil},
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// BrandFacet is a brand with its phone count.
type BrandFacet struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int64  `json:"count"`
}

// ValueCount is a generic grouped count.
type ValueCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// SpecKeyFacet is one specification key and how many phones declare it.
type SpecKeyFacet struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
	Count       int64  `json:"count"`
}

// SpecFacetGroup groups key facets by category.
type SpecFacetGroup struct {
	Category string         `json:"category"`
	Keys     []SpecKeyFacet `json:"keys"`
}

// RatingFacet is the observed average rating span.
type RatingFacet struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Facets is the sidebar option set.
type Facets struct {
	Brands         []BrandFacet     `json:"brands"`
	PriceRanges    []PriceBand      `json:"priceRanges"`
	Rating         RatingFacet      `json:"rating"`
	Years          []int            `json:"years"`
	Series         []ValueCount     `json:"series"`
	Specifications []SpecFacetGroup `json:"specifications"`
	Colors         []ValueCount     `json:"colors"`
	Statuses       []ValueCount     `json:"statuses"`
}

// facetBase limits every aggregation to live public phones, optionally
// narrowed to a series substring.
func facetBase(category string) filter.Predicate {
	return filter.All(
		filter.IsNull("phones.deleted_at"),
		filter.Raw(catalog.NotDraft),
		filter.ContainsFold(category, "phones.series"),
	)
}

func (r *Repository) phonesTable(ctx context.Context, base filter.Predicate) *gorm.DB {
	return base.Apply(r.DB(ctx).Table("phones").Joins(catalog.JoinLiveBrands))
}

func (r *Repository) childTable(ctx context.Context, table string, base filter.Predicate) *gorm.DB {
	return base.Apply(r.DB(ctx).
		Table(table).
		Joins("JOIN phones ON phones.id = " + table + ".phone_id").
		Joins(catalog.JoinLiveBrands))
}

// Facets runs every aggregation concurrently. Any failure fails the whole set.
func (r *Repository) Facets(ctx context.Context, category string) (Facets, error) {
	base := facetBase(category)
	var out Facets
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		out.Brands, err = r.brandFacets(gctx, base)
		return err
	})
	g.Go(func() (err error) {
		out.PriceRanges, err = r.priceFacets(gctx, base)
		return err
	})
	g.Go(func() (err error) {
		out.Rating, err = r.ratingFacet(gctx, base)
		return err
	})
	g.Go(func() (err error) {
		out.Years, err = r.yearFacets(gctx, base)
		return err
	})
	g.Go(func() (err error) {
		out.Series, err = r.seriesFacets(gctx, base)
		return err
	})
	g.Go(func() (err error) {
		out.Specifications, err = r.specFacets(gctx, base)
		return err
	})
	g.Go(func() (err error) {
		out.Colors, err = r.colorFacets(gctx, base)
		return err
	})
	g.Go(func() (err error) {
		out.Statuses, err = r.statusFacets(gctx, base)
		return err
	})

	if err := g.Wait(); err != nil {
		return Facets{}, err
	}
	return out, nil
}

func (r *Repository) brandFacets(ctx context.Context, base filter.Predicate) ([]BrandFacet, error) {
	rows := []BrandFacet{}
	err := r.phonesTable(ctx, base).
		Select("brands.id AS id, brands.name AS name, brands.slug AS slug, COUNT(*) AS count").
		Group("brands.id, brands.name, brands.slug").
		Order("count DESC").
		Order("brands.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *Repository) priceFacets(ctx context.Context, base filter.Predicate) ([]PriceBand, error) {
	var prices []decimal.Decimal
	err := r.phonesTable(ctx, base).
		Where("COALESCE(phones.current_price, phones.launch_price) IS NOT NULL").
		Pluck("COALESCE(phones.current_price, phones.launch_price)", &prices).Error
	if err != nil {
		return nil, err
	}
	return BucketPrices(prices), nil
}

// BucketPrices counts prices into the fixed bands, dropping empty ones.
func BucketPrices(prices []decimal.Decimal) []PriceBand {
	counts := make([]int64, len(priceBands))
	for _, price := range prices {
		for i, band := range priceBands {
			if band.min != nil && price.LessThan(*band.min) {
				continue
			}
			if band.max != nil && !price.LessThan(*band.max) {
				continue
			}
			counts[i]++
			break
		}
	}
	out := make([]PriceBand, 0, len(priceBands))
	for i, band := range priceBands {
		if counts[i] == 0 {
			continue
		}
		out = append(out, PriceBand{
			Label: band.label,
			Min:   catalog.PriceValue(band.min),
			Max:   catalog.PriceValue(band.max),
			Count: counts[i],
		})
	}
	return out
}

func (r *Repository) ratingFacet(ctx context.Context, base filter.Predicate) (RatingFacet, error) {
	var row struct {
		Min *float64
		Max *float64
	}
	err := r.phonesTable(ctx, base).
		Select("MIN(phones.average_rating) AS min, MAX(phones.average_rating) AS max").
		Scan(&row).Error
	if err != nil {
		return RatingFacet{}, err
	}
	var out RatingFacet
	if row.Min != nil {
		out.Min = *row.Min
	}
	if row.Max != nil {
		out.Max = *row.Max
	}
	return out, nil
}

func (r *Repository) yearFacets(ctx context.Context, base filter.Predicate) ([]int, error) {
	var dates []time.Time
	err := r.phonesTable(ctx, base).
		Where("phones.release_date IS NOT NULL").
		Pluck("phones.release_date", &dates).Error
	if err != nil {
		return nil, err
	}
	return DistinctYears(dates), nil
}

// DistinctYears returns the release years present, newest first.
func DistinctYears(dates []time.Time) []int {
	seen := map[int]struct{}{}
	years := make([]int, 0)
	for _, d := range dates {
		y := d.Year()
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

func (r *Repository) seriesFacets(ctx context.Context, base filter.Predicate) ([]ValueCount, error) {
	rows := []ValueCount{}
	err := r.phonesTable(ctx, base).
		Select("phones.series AS value, COUNT(*) AS count").
		Where("phones.series IS NOT NULL AND phones.series <> ''").
		Group("phones.series").
		Order("count DESC").
		Order("value ASC").
		Scan(&rows).Error
	return rows, err
}

type specFacetRow struct {
	Category    string
	Key         string
	DisplayName string
	Count       int64
}

func (r *Repository) specFacets(ctx context.Context, base filter.Predicate) ([]SpecFacetGroup, error) {
	var rows []specFacetRow
	err := r.childTable(ctx, "specifications", base).
		Select("UPPER(specifications.category) AS category, specifications.key AS key, MAX(specifications.display_name) AS display_name, COUNT(DISTINCT specifications.phone_id) AS count").
		Group("UPPER(specifications.category), specifications.key").
		Order("count DESC").
		Order("key ASC").
		Limit(specFacetLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return groupSpecFacets(rows), nil
}

// groupSpecFacets buckets frequency-ordered rows by category. Categories are
// sorted by name; keys keep their frequency order.
func groupSpecFacets(rows []specFacetRow) []SpecFacetGroup {
	index := map[string]int{}
	out := make([]SpecFacetGroup, 0)
	for _, row := range rows {
		category := strings.ToUpper(strings.TrimSpace(row.Category))
		i, ok := index[category]
		if !ok {
			i = len(out)
			index[category] = i
			out = append(out, SpecFacetGroup{Category: category})
		}
		out[i].Keys = append(out[i].Keys, SpecKeyFacet{Key: row.Key, DisplayName: row.DisplayName, Count: row.Count})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

func (r *Repository) colorFacets(ctx context.Context, base filter.Predicate) ([]ValueCount, error) {
	rows := []ValueCount{}
	err := r.childTable(ctx, "phone_colors", base).
		Select("phone_colors.name AS value, COUNT(*) AS count").
		Group("phone_colors.name").
		Order("count DESC").
		Order("value ASC").
		Limit(colorFacetLimit).
		Scan(&rows).Error
	return rows, err
}

func (r *Repository) statusFacets(ctx context.Context, base filter.Predicate) ([]ValueCount, error) {
	rows := []ValueCount{}
	err := r.phonesTable(ctx, base).
		Select("phones.status AS value, COUNT(*) AS count").
		Group("phones.status").
		Order("value ASC").
		Scan(&rows).Error
	return rows, err
}
