package comments

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/phonedex-backend/api/middleware"
	"github.com/angelmondragon/phonedex-backend/internal/comments"
	pkgerrors "github.com/angelmondragon/phonedex-backend/pkg/errors"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
)

type stubCommentService struct {
	comments.Service

	nodes   []comments.Node
	userID  uuid.UUID
	phoneID uuid.UUID
	input   comments.CreateCommentInput
	err     error
}

func (s *stubCommentService) Thread(ctx context.Context, phoneID uuid.UUID) ([]comments.Node, error) {
	s.phoneID = phoneID
	return s.nodes, s.err
}

func (s *stubCommentService) Create(ctx context.Context, userID, phoneID uuid.UUID, input comments.CreateCommentInput) (comments.CommentDTO, error) {
	s.userID, s.phoneID, s.input = userID, phoneID, input
	return comments.CommentDTO{Content: input.Content}, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func phoneRequest(method, body string, phoneID string) *http.Request {
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "/phones/"+phoneID+"/comments", reader)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", phoneID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestThreadCountsReplies(t *testing.T) {
	stub := &stubCommentService{nodes: []comments.Node{
		{Replies: []comments.Node{{}, {Replies: []comments.Node{{}}}}},
		{},
	}}
	rec := httptest.NewRecorder()

	Thread(stub, testLogger()).ServeHTTP(rec, phoneRequest(http.MethodGet, "", uuid.NewString()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Data struct {
			Comments []json.RawMessage `json:"comments"`
			Total    int               `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data.Comments) != 2 || body.Data.Total != 5 {
		t.Fatalf("unexpected thread roots=%d total=%d", len(body.Data.Comments), body.Data.Total)
	}
}

func TestThreadUnknownPhone(t *testing.T) {
	stub := &stubCommentService{err: pkgerrors.NotFound("phone")}
	rec := httptest.NewRecorder()

	Thread(stub, testLogger()).ServeHTTP(rec, phoneRequest(http.MethodGet, "", uuid.NewString()))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCreateComment(t *testing.T) {
	userID := uuid.New()
	phoneID := uuid.New()
	parentID := uuid.New()
	stub := &stubCommentService{}
	req := phoneRequest(http.MethodPost, `{"content":"Great camera","parentId":"`+parentID.String()+`"}`, phoneID.String())
	req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	rec := httptest.NewRecorder()

	Create(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.userID != userID || stub.phoneID != phoneID {
		t.Fatalf("unexpected ids user=%s phone=%s", stub.userID, stub.phoneID)
	}
	if stub.input.ParentID == nil || *stub.input.ParentID != parentID {
		t.Fatalf("unexpected parent %v", stub.input.ParentID)
	}
}

func TestCreateCommentRejects(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		caller bool
		want   int
	}{
		{name: "no caller", body: `{"content":"hi"}`, caller: false, want: http.StatusUnauthorized},
		{name: "empty content", body: `{"content":""}`, caller: true, want: http.StatusBadRequest},
		{name: "too long", body: `{"content":"` + strings.Repeat("a", comments.MaxContentLength+1) + `"}`, caller: true, want: http.StatusBadRequest},
		{name: "no body", body: "", caller: true, want: http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubCommentService{}
			req := phoneRequest(http.MethodPost, tc.body, uuid.NewString())
			if tc.caller {
				req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))
			}
			rec := httptest.NewRecorder()

			Create(stub, testLogger()).ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
			if stub.userID != uuid.Nil {
				t.Fatal("service should not be called")
			}
		})
	}
}
