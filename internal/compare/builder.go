package compare

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/phonedex-backend/internal/catalog"
	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
)

// Build assembles the comparison from loaded rows. It performs no I/O.
func Build(snap Snapshot, comparedAt time.Time) Result {
	phones := append([]models.Phone(nil), snap.Phones...)
	sortPhones(phones)

	out := Result{
		Phones:         make([]Phone, 0, len(phones)),
		Specifications: buildSpecifications(phones),
		ComparedAt:     comparedAt,
	}
	for _, p := range phones {
		out.Phones = append(out.Phones, buildPhone(p, snap.Ratings[p.ID], snap.Images[p.ID]))
	}
	out.Highlights = buildHighlights(phones, out.Phones)
	out.Summary = buildSummary(phones, out.Phones)
	return out
}

func sortPhones(phones []models.Phone) {
	sort.SliceStable(phones, func(i, j int) bool {
		a, b := strings.ToLower(phones[i].Name), strings.ToLower(phones[j].Name)
		if a != b {
			return a < b
		}
		if phones[i].Name != phones[j].Name {
			return phones[i].Name < phones[j].Name
		}
		return phones[i].ID.String() < phones[j].ID.String()
	})
}

func buildPhone(p models.Phone, agg RatingAggregate, images []models.GalleryImage) Phone {
	out := Phone{
		ID:           p.ID,
		Name:         p.Name,
		Slug:         p.Slug,
		Model:        p.Model,
		Series:       p.Series,
		Status:       p.Status,
		Brand:        catalog.NewBrandRef(p.Brand),
		LaunchPrice:  catalog.PriceValue(p.LaunchPrice),
		CurrentPrice: catalog.PriceValue(p.EffectivePrice()),
		Currency:     p.Currency,
		ReleaseDate:  p.ReleaseDate,
		ThumbnailURL: p.ThumbnailURL,
		ViewCount:    p.ViewCount,
		LikeCount:    p.LikeCount,
		Colors:       make([]catalog.ColorDTO, 0, len(p.Colors)),
		Variants:     make([]catalog.VariantDTO, 0, len(p.Variants)),
		Images:       make([]catalog.ImageDTO, 0, len(images)),
		Ratings:      buildRatings(agg),
	}
	for _, c := range p.Colors {
		out.Colors = append(out.Colors, catalog.NewColorDTO(c))
	}
	for _, v := range p.Variants {
		out.Variants = append(out.Variants, catalog.NewVariantDTO(v))
	}
	for _, img := range images {
		out.Images = append(out.Images, catalog.NewImageDTO(img))
	}
	return out
}

func buildRatings(agg RatingAggregate) Ratings {
	return Ratings{
		Overall:      round1(agg.Overall),
		Design:       round1(agg.Design),
		Performance:  round1(agg.Performance),
		Camera:       round1(agg.Camera),
		Battery:      round1(agg.Battery),
		Value:        round1(agg.Value),
		TotalReviews: agg.Total,
	}
}

func round1(v *float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return 0
	}
	return math.Round(*v*10) / 10
}

type specKey struct {
	category string
	key      string
}

func buildSpecifications(phones []models.Phone) []SpecCategory {
	rows := map[specKey]*SpecRow{}
	byCategory := map[string][]string{}

	for _, p := range phones {
		for _, s := range p.Specifications {
			k := specKey{category: normalizeCategory(s.Category), key: s.Key}
			row, ok := rows[k]
			if !ok {
				row = &SpecRow{
					Key:         s.Key,
					DisplayName: s.DisplayName,
					Unit:        s.Unit,
					Values:      make(map[string]string, len(phones)),
				}
				rows[k] = row
				byCategory[k.category] = append(byCategory[k.category], s.Key)
			}
			if s.IsHighlight {
				row.IsHighlight = true
			}
			if _, seen := row.Values[p.ID.String()]; !seen {
				row.Values[p.ID.String()] = s.Value
			}
		}
	}

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	out := make([]SpecCategory, 0, len(categories))
	for _, c := range categories {
		keys := byCategory[c]
		sort.Strings(keys)
		block := SpecCategory{Category: c, Highlights: []string{}, Rows: make([]SpecRow, 0, len(keys))}
		for _, key := range keys {
			row := rows[specKey{category: c, key: key}]
			for _, p := range phones {
				if _, ok := row.Values[p.ID.String()]; !ok {
					row.Values[p.ID.String()] = Missing
				}
			}
			if row.IsHighlight {
				block.Highlights = append(block.Highlights, key)
			}
			block.Rows = append(block.Rows, *row)
		}
		out = append(out, block)
	}
	return out
}

func normalizeCategory(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}

func buildHighlights(phones []models.Phone, built []Phone) Highlights {
	var h Highlights
	for i, p := range phones {
		r := built[i].Ratings
		if r.TotalReviews > 0 && (h.HighestRating == nil || r.Overall > *h.HighestRating) {
			h.HighestRating = float64Ptr(r.Overall)
		}
		if p.ReleaseDate != nil && (h.NewestRelease == nil || p.ReleaseDate.After(*h.NewestRelease)) {
			d := *p.ReleaseDate
			h.NewestRelease = &d
		}
		if h.MostViewed == nil || p.ViewCount > *h.MostViewed {
			v := p.ViewCount
			h.MostViewed = &v
		}
	}
	if min, max, ok := priceBounds(phones); ok {
		h.LowestPrice = float64Ptr(min.InexactFloat64())
		h.HighestPrice = float64Ptr(max.InexactFloat64())
	}
	return h
}

func buildSummary(phones []models.Phone, built []Phone) Summary {
	s := Summary{TotalPhones: len(phones), Brands: distinctBrands(phones)}
	if min, max, ok := priceBounds(phones); ok {
		s.PriceRange = PriceRange{
			Min:        float64Ptr(min.InexactFloat64()),
			Max:        float64Ptr(max.InexactFloat64()),
			Difference: float64Ptr(max.Sub(min).InexactFloat64()),
		}
	}
	for i, p := range built {
		if i == 0 || p.Ratings.Overall < s.RatingRange.Min {
			s.RatingRange.Min = p.Ratings.Overall
		}
		if i == 0 || p.Ratings.Overall > s.RatingRange.Max {
			s.RatingRange.Max = p.Ratings.Overall
		}
	}
	return s
}

func priceBounds(phones []models.Phone) (decimal.Decimal, decimal.Decimal, bool) {
	var min, max decimal.Decimal
	found := false
	for _, p := range phones {
		price := p.EffectivePrice()
		if price == nil {
			continue
		}
		if !found || price.LessThan(min) {
			min = *price
		}
		if !found || price.GreaterThan(max) {
			max = *price
		}
		found = true
	}
	return min, max, found
}

func distinctBrands(phones []models.Phone) []string {
	seen := map[uuid.UUID]string{}
	for _, p := range phones {
		if p.Brand != nil {
			seen[p.Brand.ID] = p.Brand.Name
		}
	}
	names := make([]string, 0, len(seen))
	for _, name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func float64Ptr(v float64) *float64 {
	return &v
}
