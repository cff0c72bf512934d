package search

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/phonedex-backend/internal/search"
	pkgerrors "github.com/angelmondragon/phonedex-backend/pkg/errors"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
)

type stubSearchService struct {
	query    string
	limit    int
	scope    search.Scope
	ip       string
	category string
	err      error
}

func (s *stubSearchService) Search(ctx context.Context, query string, limit int, scope search.Scope, ipAddress string) (search.Results, error) {
	s.query, s.limit, s.scope, s.ip = query, limit, scope, ipAddress
	if s.err != nil {
		return search.Results{}, s.err
	}
	return search.Results{}, nil
}

func (s *stubSearchService) Suggest(ctx context.Context, query string, limit int) (search.Suggestions, error) {
	s.query, s.limit = query, limit
	return search.Suggestions{Query: query}, s.err
}

func (s *stubSearchService) Facets(ctx context.Context, category string) (search.Facets, error) {
	s.category = category
	return search.Facets{}, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestSearchPassesParameters(t *testing.T) {
	stub := &stubSearchService{}
	req := httptest.NewRequest(http.MethodGet, "/search?q=%20pixel%20&limit=10&category=phones", nil)
	req.RemoteAddr = "8.8.8.8:80"
	rec := httptest.NewRecorder()

	Search(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.query != "pixel" || stub.limit != 10 || stub.scope != search.ScopePhones || stub.ip != "8.8.8.8" {
		t.Fatalf("unexpected call %+v", stub)
	}
}

func TestSearchDefaultsLimitAndScope(t *testing.T) {
	stub := &stubSearchService{}
	rec := httptest.NewRecorder()

	Search(stub, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?q=ga", nil))

	if stub.limit != search.DefaultLimit || stub.scope != search.ScopeAll {
		t.Fatalf("unexpected defaults limit=%d scope=%s", stub.limit, stub.scope)
	}
}

func TestSearchRejectsUnknownCategory(t *testing.T) {
	stub := &stubSearchService{}
	rec := httptest.NewRecorder()

	Search(stub, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?q=pixel&category=tablets", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if stub.query != "" {
		t.Fatal("service should not be called")
	}
}

func TestSearchShortQueryIsValidationError(t *testing.T) {
	stub := &stubSearchService{err: pkgerrors.New(pkgerrors.CodeValidation, "query must be at least 2 characters")}
	rec := httptest.NewRecorder()

	Search(stub, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search?q=a", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSuggestionsAllowEmptyQuery(t *testing.T) {
	stub := &stubSearchService{}
	rec := httptest.NewRecorder()

	Suggestions(stub, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search/suggestions", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.limit != search.DefaultSuggestionLimit {
		t.Fatalf("unexpected limit %d", stub.limit)
	}
}

func TestFiltersPassesCategory(t *testing.T) {
	stub := &stubSearchService{}
	rec := httptest.NewRecorder()

	Filters(stub, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search/filters?category=Galaxy", nil))

	if rec.Code != http.StatusOK || stub.category != "Galaxy" {
		t.Fatalf("unexpected status %d category %q", rec.Code, stub.category)
	}
}
