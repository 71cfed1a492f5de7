package httpserver

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"license-storefront/internal/backend"
	"license-storefront/internal/domain"
	cartsvc "license-storefront/internal/service/cart"
	"github.com/gin-gonic/gin"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stubSessionSvc struct {
	identity    *domain.Identity
	currentErr  error
	session     *backend.Session
	loginErr    error
	logoutCalls int
	registerErr error
	lastToken   string
}

func (s *stubSessionSvc) Current(_ context.Context, token, _ string) (*domain.Identity, error) {
	s.lastToken = token
	if s.currentErr != nil {
		return nil, s.currentErr
	}
	return s.identity, nil
}

func (s *stubSessionSvc) Login(_ context.Context, _, _ string) (*backend.Session, error) {
	return s.session, s.loginErr
}

func (s *stubSessionSvc) Logout(_ context.Context, _ string) error {
	s.logoutCalls++
	return nil
}

func (s *stubSessionSvc) Register(_ context.Context, _ backend.RegisterInput) error {
	return s.registerErr
}

type stubCartSvc struct {
	order *domain.CartOrder
	err   error
}

func (s *stubCartSvc) Get(_ context.Context, _ *domain.Identity) (*domain.CartOrder, error) {
	return s.order, s.err
}

func (s *stubCartSvc) AddItem(_ context.Context, _ *domain.Identity, _ cartsvc.NewItemDraft) (*domain.CartOrder, error) {
	return s.order, s.err
}

func (s *stubCartSvc) RemoveItem(_ context.Context, _ *domain.Identity, _ string) (*domain.CartOrder, error) {
	return s.order, s.err
}

func (s *stubCartSvc) Checkout(_ context.Context, _ *domain.Identity) (*domain.CartOrder, error) {
	return s.order, s.err
}

type stubCatalogSvc struct {
	products []domain.Product
	product  *domain.Product
	err      error
}

func (s *stubCatalogSvc) List(_ context.Context) ([]domain.Product, error) {
	return s.products, s.err
}

func (s *stubCatalogSvc) Get(_ context.Context, _ string) (*domain.Product, error) {
	return s.product, s.err
}

func testRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if deps.SessionSvc == nil {
		deps.SessionSvc = &stubSessionSvc{currentErr: domain.ErrUnauthenticated}
	}
	if deps.CartSvc == nil {
		deps.CartSvc = &stubCartSvc{}
	}
	if deps.CatalogSvc == nil {
		deps.CatalogSvc = &stubCatalogSvc{}
	}
	router, err := buildRouter(logDiscard(), nil, deps, []string{"http://localhost:5173"})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func TestHealthz(t *testing.T) {
	router := testRouter(t, Deps{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadyzWithoutDB(t *testing.T) {
	router := testRouter(t, Deps{})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCORSPreflightAllowsCredentials(t *testing.T) {
	router := testRouter(t, Deps{})

	req := httptest.NewRequest(http.MethodOptions, "/api/production", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatalf("expected credentialed CORS, headers=%v", rec.Header())
	}
}
