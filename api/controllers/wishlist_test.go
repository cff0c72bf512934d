package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/phonedex-backend/api/middleware"
	"github.com/angelmondragon/phonedex-backend/internal/wishlist"
	"github.com/angelmondragon/phonedex-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/phonedex-backend/pkg/errors"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
	"github.com/angelmondragon/phonedex-backend/pkg/pagination"
	"github.com/angelmondragon/phonedex-backend/pkg/types"
)

type stubWishlistService struct {
	userID  uuid.UUID
	phoneID uuid.UUID
	page    pagination.Params
	add     wishlist.AddItemInput
	update  wishlist.UpdateItemInput
	err     error
}

func (s *stubWishlistService) GetWishlist(ctx context.Context, userID uuid.UUID, page pagination.Params) ([]wishlist.WishlistItemDTO, types.Pagination, error) {
	s.userID, s.page = userID, page
	return []wishlist.WishlistItemDTO{}, page.Meta(0), s.err
}

func (s *stubWishlistService) AddItem(ctx context.Context, userID uuid.UUID, input wishlist.AddItemInput) (wishlist.WishlistItemDTO, error) {
	s.userID, s.add = userID, input
	return wishlist.WishlistItemDTO{}, s.err
}

func (s *stubWishlistService) UpdateItem(ctx context.Context, userID, phoneID uuid.UUID, input wishlist.UpdateItemInput) (wishlist.WishlistItemDTO, error) {
	s.userID, s.phoneID, s.update = userID, phoneID, input
	return wishlist.WishlistItemDTO{}, s.err
}

func (s *stubWishlistService) RemoveItem(ctx context.Context, userID, phoneID uuid.UUID) error {
	s.userID, s.phoneID = userID, phoneID
	return s.err
}

func wishlistRequest(method, target, body string, userID uuid.UUID, phoneID string) *http.Request {
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	ctx := req.Context()
	if phoneID != "" {
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("phoneId", phoneID)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	}
	if userID != uuid.Nil {
		ctx = middleware.WithUserID(ctx, userID)
	}
	return req.WithContext(ctx)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestWishlistListRequiresCaller(t *testing.T) {
	stub := &stubWishlistService{}
	rec := httptest.NewRecorder()

	WishlistList(stub, testLogger()).ServeHTTP(rec, wishlistRequest(http.MethodGet, "/wishlist", "", uuid.Nil, ""))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestWishlistListPaginates(t *testing.T) {
	userID := uuid.New()
	stub := &stubWishlistService{}
	rec := httptest.NewRecorder()

	WishlistList(stub, testLogger()).ServeHTTP(rec, wishlistRequest(http.MethodGet, "/wishlist?page=3&limit=4", "", userID, ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.userID != userID || stub.page.Page != 3 || stub.page.Limit != 4 {
		t.Fatalf("unexpected call %+v", stub)
	}
}

func TestWishlistAddItem(t *testing.T) {
	userID := uuid.New()
	phoneID := uuid.New()
	stub := &stubWishlistService{}
	body := `{"phoneId":"` + phoneID.String() + `","notes":"gift","priority":"high"}`
	rec := httptest.NewRecorder()

	WishlistAddItem(stub, testLogger()).ServeHTTP(rec, wishlistRequest(http.MethodPost, "/wishlist", body, userID, ""))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.add.PhoneID != phoneID || stub.add.Priority != enums.WishlistPriorityHigh {
		t.Fatalf("unexpected input %+v", stub.add)
	}
}

func TestWishlistAddItemDuplicate(t *testing.T) {
	stub := &stubWishlistService{err: pkgerrors.New(pkgerrors.CodeConflict, "phone already in wishlist")}
	body := `{"phoneId":"` + uuid.NewString() + `"}`
	rec := httptest.NewRecorder()

	WishlistAddItem(stub, testLogger()).ServeHTTP(rec, wishlistRequest(http.MethodPost, "/wishlist", body, uuid.New(), ""))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestWishlistUpdateItem(t *testing.T) {
	phoneID := uuid.New()
	stub := &stubWishlistService{}
	rec := httptest.NewRecorder()

	WishlistUpdateItem(stub, testLogger()).ServeHTTP(rec, wishlistRequest(http.MethodPatch, "/wishlist/"+phoneID.String(), `{"priority":"low"}`, uuid.New(), phoneID.String()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.phoneID != phoneID || stub.update.Priority == nil || *stub.update.Priority != enums.WishlistPriorityLow {
		t.Fatalf("unexpected update %+v", stub.update)
	}
}

func TestWishlistRemoveItem(t *testing.T) {
	t.Run("invalid phone id", func(t *testing.T) {
		stub := &stubWishlistService{}
		rec := httptest.NewRecorder()
		WishlistRemoveItem(stub, testLogger()).ServeHTTP(rec, wishlistRequest(http.MethodDelete, "/wishlist/x", "", uuid.New(), "x"))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("absent item", func(t *testing.T) {
		stub := &stubWishlistService{err: pkgerrors.NotFound("wishlist item")}
		rec := httptest.NewRecorder()
		phoneID := uuid.NewString()
		WishlistRemoveItem(stub, testLogger()).ServeHTTP(rec, wishlistRequest(http.MethodDelete, "/wishlist/"+phoneID, "", uuid.New(), phoneID))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("removed", func(t *testing.T) {
		stub := &stubWishlistService{}
		rec := httptest.NewRecorder()
		phoneID := uuid.New()
		WishlistRemoveItem(stub, testLogger()).ServeHTTP(rec, wishlistRequest(http.MethodDelete, "/wishlist/"+phoneID.String(), "", uuid.New(), phoneID.String()))
		if rec.Code != http.StatusOK || stub.phoneID != phoneID {
			t.Fatalf("unexpected status %d phone %s", rec.Code, stub.phoneID)
		}
	})
}
