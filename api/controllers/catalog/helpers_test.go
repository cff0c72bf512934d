package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/phonedex-backend/internal/analytics"
	"github.com/angelmondragon/phonedex-backend/internal/catalog"
	"github.com/angelmondragon/phonedex-backend/internal/compare"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
	"github.com/angelmondragon/phonedex-backend/pkg/types"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type stubCatalogService struct {
	lastQuery catalog.ListQuery
	lastKey   string
	lastVisit analytics.Visit
	lastSlug  string

	phones []catalog.PhoneSummary
	page   types.Pagination
	detail catalog.PhoneDetail
	brands []catalog.BrandDTO
	brand  catalog.BrandDetail
	err    error
}

func (s *stubCatalogService) ListPhones(ctx context.Context, q catalog.ListQuery) ([]catalog.PhoneSummary, types.Pagination, error) {
	s.lastQuery = q
	return s.phones, s.page, s.err
}

func (s *stubCatalogService) GetPhone(ctx context.Context, idOrSlug string, visit analytics.Visit) (catalog.PhoneDetail, error) {
	s.lastKey = idOrSlug
	s.lastVisit = visit
	return s.detail, s.err
}

func (s *stubCatalogService) ListBrands(ctx context.Context) ([]catalog.BrandDTO, error) {
	return s.brands, s.err
}

func (s *stubCatalogService) GetBrand(ctx context.Context, slug string) (catalog.BrandDetail, error) {
	s.lastSlug = slug
	return s.brand, s.err
}

type stubCompareService struct {
	raw    string
	result compare.Result
	meta   compare.Metadata
	err    error
}

func (s *stubCompareService) Compare(ctx context.Context, rawIDs string) (compare.Result, compare.Metadata, error) {
	s.raw = rawIDs
	return s.result, s.meta, s.err
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}
