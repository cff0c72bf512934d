package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/angelmondragon/phonedex-backend/api/responses"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
	"github.com/angelmondragon/phonedex-backend/pkg/metrics"
)

func TestLogging_RecordsRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	r := chi.NewRouter()
	r.Use(Logging(logg, metrics.NewHTTPMetrics(reg)))
	r.Get("/phones/{idOrSlug}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/phones/pixel-9", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rec.Code)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var found bool
	for _, fam := range families {
		if fam.GetName() != "http_requests_total" {
			continue
		}
		for _, m := range fam.GetMetric() {
			if labelValue(m, "route") == "/phones/{idOrSlug}" && labelValue(m, "status") == "418" {
				found = m.GetCounter().GetValue() == 1
			}
		}
	}
	if !found {
		t.Fatal("expected request counter for route pattern")
	}
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func TestRequestID_EchoesOrMints(t *testing.T) {
	handler := RequestID(nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("expected echoed id, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, strings.Repeat("x", maxRequestIDLen+1))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got == "" || len(got) > maxRequestIDLen {
		t.Fatalf("expected minted id, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "bad id\twith spaces")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); strings.ContainsAny(got, " \t") {
		t.Fatalf("expected minted id for unprintable input, got %q", got)
	}
}

func TestLogging_UnmatchedRouteLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	handler := Logging(nil, metrics.NewHTTPMetrics(reg))(okHandler())
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, fam := range families {
		if fam.GetName() != "http_requests_total" {
			continue
		}
		for _, m := range fam.GetMetric() {
			if labelValue(m, "route") == "unmatched" && labelValue(m, "status") == "200" {
				return
			}
		}
	}
	t.Fatal("expected unmatched route label")
}

func TestRecoverer_WritesInternalError(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "boom") {
		t.Fatalf("panic text leaked: %s", rec.Body.String())
	}
}

func TestErrorDetail_MarksContext(t *testing.T) {
	handler := ErrorDetail(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), nil, w, io.ErrUnexpectedEOF)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(rec.Body.String(), io.ErrUnexpectedEOF.Error()) {
		t.Fatalf("expected raw error text, got %s", rec.Body.String())
	}
}

func TestTimeout_SetsDeadline(t *testing.T) {
	var deadline time.Time
	var ok bool
	handler := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, ok = r.Context().Deadline()
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background()))

	if !ok || time.Until(deadline) > time.Second {
		t.Fatalf("expected deadline within 1s, got %v (set=%v)", deadline, ok)
	}
}
