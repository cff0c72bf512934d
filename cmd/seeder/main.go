// Command seeder fills a development database with a fake phone catalog,
// users and reviews.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/phonedex-backend/internal/brands"
	"github.com/angelmondragon/phonedex-backend/internal/phones"
	"github.com/angelmondragon/phonedex-backend/internal/reviews"
	"github.com/angelmondragon/phonedex-backend/internal/users"
	"github.com/angelmondragon/phonedex-backend/pkg/config"
	"github.com/angelmondragon/phonedex-backend/pkg/db"
	"github.com/angelmondragon/phonedex-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/phonedex-backend/pkg/errors"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
	"github.com/angelmondragon/phonedex-backend/pkg/migrate"
	"github.com/angelmondragon/phonedex-backend/pkg/security"
)

const seedPassword = "phonedex-demo-1"

var brandNames = []string{"Aurora", "Nimbus", "Vertex", "Kestrel", "Lumen", "Orbit", "Quanta", "Zephyr"}

var seriesNames = []string{"Pro", "Lite", "Max", "Mini", "Edge", "Fold"}

var storageOptions = []string{"64GB", "128GB", "256GB", "512GB", "1TB"}

type seeder struct {
	logg    *logger.Logger
	brands  brands.Service
	phones  phones.Service
	users   users.Service
	reviews reviews.Service
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "seeder"})
	_ = godotenv.Load()

	brandCount := flag.Int("brands", 5, "number of brands to create")
	phonesPerBrand := flag.Int("phones", 6, "phones per brand")
	userCount := flag.Int("users", 20, "number of users to create")
	reviewsPerPhone := flag.Int("reviews", 4, "max reviews per phone")
	seed := flag.Int64("seed", 0, "gofakeit seed; 0 picks a random one")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	if cfg.App.IsProd() {
		fmt.Fprintln(os.Stderr, "refusing to seed a prod environment")
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seeder",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})
	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	gofakeit.Seed(*seed)

	s, err := newSeeder(cfg, logg, dbClient)
	if err != nil {
		logg.Error(ctx, "failed to build services", err)
		os.Exit(1)
	}

	userIDs, err := s.seedUsers(ctx, *userCount)
	if err != nil {
		logg.Error(ctx, "seeding users failed", err)
		os.Exit(1)
	}

	phoneIDs := make([]uuid.UUID, 0, *brandCount**phonesPerBrand)
	for i := 0; i < *brandCount && i < len(brandNames); i++ {
		brandID, err := s.seedBrand(ctx, brandNames[i])
		if err != nil {
			logg.Error(ctx, "seeding brand failed", err)
			os.Exit(1)
		}
		for j := 0; j < *phonesPerBrand; j++ {
			phoneID, err := s.seedPhone(ctx, brandID, brandNames[i], j)
			if err != nil {
				logg.Error(ctx, "seeding phone failed", err)
				os.Exit(1)
			}
			phoneIDs = append(phoneIDs, phoneID)
		}
	}

	reviewCount, err := s.seedReviews(ctx, phoneIDs, userIDs, *reviewsPerPhone)
	if err != nil {
		logg.Error(ctx, "seeding reviews failed", err)
		os.Exit(1)
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"users":   len(userIDs),
		"phones":  len(phoneIDs),
		"reviews": reviewCount,
	}), "seed complete")
}

func newSeeder(cfg *config.Config, logg *logger.Logger, dbClient *db.Client) (*seeder, error) {
	conn := dbClient.DB()
	brandRepo := brands.NewRepository(conn)
	reviewRepo := reviews.NewRepository(conn)

	brandService, err := brands.NewService(brandRepo)
	if err != nil {
		return nil, err
	}
	phoneService, err := phones.NewService(phones.ServiceParams{
		Repository: phones.NewRepository(conn),
		Brands:     brandRepo,
		TxRunner:   dbClient,
	})
	if err != nil {
		return nil, err
	}
	userService, err := users.NewService(users.ServiceParams{
		Repository: users.NewRepository(conn),
		Hasher:     security.NewHasher(cfg.Password),
		Reviews:    reviewRepo,
		TxRunner:   dbClient,
	})
	if err != nil {
		return nil, err
	}
	reviewService, err := reviews.NewService(reviews.ServiceParams{Repository: reviewRepo, TxRunner: dbClient})
	if err != nil {
		return nil, err
	}
	return &seeder{logg: logg, brands: brandService, phones: phoneService, users: userService, reviews: reviewService}, nil
}

func (s *seeder) seedUsers(ctx context.Context, n int) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, n+1)
	admin, err := s.users.Create(ctx, users.CreateUserInput{
		Email:    "admin@phonedex.local",
		Name:     "PhoneDex Admin",
		Password: seedPassword,
		Role:     enums.UserRoleAdmin,
	})
	switch {
	case err == nil:
		ids = append(ids, admin.ID)
	case pkgerrors.IsCode(err, pkgerrors.CodeConflict):
		s.logg.Warn(ctx, "admin user already exists")
	default:
		return nil, err
	}

	for i := 0; i < n; i++ {
		user, err := s.users.Create(ctx, users.CreateUserInput{
			Email:    strings.ToLower(fmt.Sprintf("%s.%d@example.com", gofakeit.Username(), i)),
			Name:     gofakeit.Name(),
			Password: seedPassword,
			Role:     enums.UserRoleUser,
		})
		if err != nil {
			return nil, fmt.Errorf("user %d: %w", i, err)
		}
		ids = append(ids, user.ID)
	}
	return ids, nil
}

func (s *seeder) seedBrand(ctx context.Context, name string) (uuid.UUID, error) {
	founded := gofakeit.Number(1950, 2015)
	website := fmt.Sprintf("https://www.%s.example.com", strings.ToLower(name))
	brand, err := s.brands.Create(ctx, brands.CreateBrandInput{
		Name:        name,
		Description: ptr(gofakeit.Sentence(14)),
		Website:     &website,
		Country:     ptr(gofakeit.Country()),
		FoundedYear: &founded,
		IsVerified:  gofakeit.Bool(),
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("brand %s: %w", name, err)
	}
	return brand.ID, nil
}

func (s *seeder) seedPhone(ctx context.Context, brandID uuid.UUID, brand string, n int) (uuid.UUID, error) {
	series := seriesNames[n%len(seriesNames)]
	name := fmt.Sprintf("%s %s %d", brand, series, 10+n)
	launch := decimal.NewFromInt(int64(gofakeit.Number(199, 1499))).Add(decimal.RequireFromString("0.99"))
	current := launch.Mul(decimal.NewFromFloat(gofakeit.Float64Range(0.7, 1))).Round(2)
	release := time.Now().UTC().AddDate(0, -gofakeit.Number(0, 36), 0).Truncate(24 * time.Hour)

	status := enums.PhoneStatusActive
	switch {
	case n%7 == 6:
		status = enums.PhoneStatusUpcoming
	case n%11 == 10:
		status = enums.PhoneStatusDiscontinued
	}

	phone, err := s.phones.Create(ctx, phones.CreatePhoneInput{
		BrandID:      brandID,
		Name:         name,
		Model:        ptr(strings.ToUpper(gofakeit.LetterN(2)) + gofakeit.DigitN(3)),
		Series:       &series,
		Description:  ptr(gofakeit.Paragraph(1, 3, 12, " ")),
		Status:       status,
		LaunchPrice:  &launch,
		CurrentPrice: &current,
		Currency:     "USD",
		ReleaseDate:  &release,
		ThumbnailURL:   ptr(fmt.Sprintf("https://img.phonedex.example.com/%d/%d.png", n, gofakeit.Number(1000, 9999))),
		Specifications: fakeSpecs(),
		Colors: []phones.ColorInput{
			{Name: gofakeit.Color(), HexCode: ptr(gofakeit.HexColor())},
			{Name: gofakeit.Color(), HexCode: ptr(gofakeit.HexColor())},
		},
		Variants: fakeVariants(current),
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("phone %s: %w", name, err)
	}
	return phone.ID, nil
}

func fakeSpecs() []phones.SpecificationInput {
	return []phones.SpecificationInput{
		{Category: "DISPLAY", Key: "size", DisplayName: "Screen size", Value: fmt.Sprintf("%.1f", gofakeit.Float64Range(5.4, 6.9)), Unit: ptr("inches"), IsHighlight: true, Priority: 1},
		{Category: "DISPLAY", Key: "refresh_rate", DisplayName: "Refresh rate", Value: fmt.Sprint(gofakeit.RandomInt([]int{60, 90, 120, 144})), Unit: ptr("Hz"), Priority: 2},
		{Category: "PERFORMANCE", Key: "chipset", DisplayName: "Chipset", Value: gofakeit.RandomString([]string{"Snapdragon 8 Gen 3", "Dimensity 9300", "Tensor G4", "Exynos 2400"}), IsHighlight: true, Priority: 1},
		{Category: "CAMERA", Key: "main", DisplayName: "Main camera", Value: fmt.Sprint(gofakeit.RandomInt([]int{12, 48, 50, 108, 200})), Unit: ptr("MP"), IsHighlight: true, Priority: 1},
		{Category: "BATTERY", Key: "capacity", DisplayName: "Battery", Value: fmt.Sprint(gofakeit.Number(3000, 6000)), Unit: ptr("mAh"), IsHighlight: true, Priority: 1},
	}
}

func fakeVariants(base decimal.Decimal) []phones.VariantInput {
	start := gofakeit.Number(0, 2)
	out := make([]phones.VariantInput, 0, 3)
	for i := start; i < start+3 && i < len(storageOptions); i++ {
		price := base.Add(decimal.NewFromInt(int64(100 * (i - start))))
		out = append(out, phones.VariantInput{
			Storage: storageOptions[i],
			RAM:     ptr(fmt.Sprintf("%dGB", 8+4*(i-start))),
			Price:   &price,
		})
	}
	return out
}

func (s *seeder) seedReviews(ctx context.Context, phoneIDs, userIDs []uuid.UUID, perPhone int) (int, error) {
	if len(userIDs) == 0 || perPhone <= 0 {
		return 0, nil
	}
	created := 0
	for _, phoneID := range phoneIDs {
		n := gofakeit.Number(0, perPhone)
		offset := gofakeit.Number(0, len(userIDs)-1)
		for i := 0; i < n && i < len(userIDs); i++ {
			userID := userIDs[(offset+i)%len(userIDs)]
			rating := gofakeit.Number(1, 5)
			camera := gofakeit.Number(1, 5)
			battery := gofakeit.Number(1, 5)
			_, err := s.reviews.Submit(ctx, userID, phoneID, reviews.ReviewInput{
				Rating:        rating,
				Title:         ptr(gofakeit.Sentence(5)),
				Content:       ptr(gofakeit.Paragraph(1, 3, 14, " ")),
				CameraRating:  &camera,
				BatteryRating: &battery,
				Pros:          []string{gofakeit.Word(), gofakeit.Word()},
				Cons:          []string{gofakeit.Word()},
			})
			// reruns hit the one-review-per-user rule
			if pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
				continue
			}
			if err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}

func ptr[T any](v T) *T {
	return &v
}
