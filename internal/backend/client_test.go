package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"license-storefront/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 2*time.Second, nil), srv
}

func TestLoginSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/login/access-token" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("username") != "alice@example.com" || r.PostForm.Get("password") != "secret" {
			t.Fatalf("unexpected form %v", r.PostForm)
		}
		http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "tok-1", HttpOnly: true})
		http.SetCookie(w, &http.Cookie{Name: "csrf_token", Value: "csrf-1"})
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Login successful","csrf_token":"csrf-1"}`))
	})

	sess, err := client.Login(context.Background(), "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.AccessToken != "tok-1" || sess.CSRFToken != "csrf-1" {
		t.Fatalf("unexpected session %+v", sess)
	}
	if len(sess.Cookies) != 2 {
		t.Fatalf("expected upstream cookies relayed, got %d", len(sess.Cookies))
	}
}

func TestLoginBadCredentials(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"wrong email or password"}`))
	})

	_, err := client.Login(context.Background(), "alice@example.com", "wrong")
	if !errors.Is(err, domain.ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
}

func TestLoginMissingTokenCookie(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Login successful","csrf_token":"csrf-1"}`))
	})

	_, err := client.Login(context.Background(), "alice@example.com", "secret")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestCurrentUser(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie("access_token")
		if err != nil || ck.Value != "tok-1" {
			t.Fatalf("missing access_token cookie: %v", err)
		}
		if r.Header.Get("X-CSRF-Token") != "csrf-1" {
			t.Fatalf("missing csrf header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"customer_id":"U1","customer_name":"Alice","email":"alice@example.com","activate":true}`))
	})

	id, err := client.CurrentUser(context.Background(), "tok-1", "csrf-1")
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if id.CustomerID != "U1" || id.CustomerName != "Alice" || !id.Activated {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestCurrentUserRejected(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.CurrentUser(context.Background(), "stale", "")
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestListProductsFlexiblePrice(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"license_id":"LIC123","license_name":"Product A","price":"1000","created_at":"2025-05-26T10:00:00"},
			{"license_id":"LIC456","license_name":"Product B","price":500}
		]`))
	})

	products, err := client.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].Price != 1000 || products[1].Price != 500 {
		t.Fatalf("price parsing: %d, %d", products[0].Price, products[1].Price)
	}
	if products[0].CreatedAt.IsZero() {
		t.Fatalf("zone-less timestamp should parse")
	}
}

func TestListProductsRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"non-numeric price", `[{"license_id":"LIC1","price":"free"}]`},
		{"missing license id", `[{"license_name":"Orphan","price":100}]`},
		{"truncated json", `[{"license_id":"LIC1"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tc.body))
			})
			if _, err := client.ListProducts(context.Background()); !errors.Is(err, domain.ErrUpstream) {
				t.Fatalf("expected ErrUpstream, got %v", err)
			}
		})
	}
}

func TestListProductsUpstreamDown(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	if _, err := client.ListProducts(context.Background()); !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestRegisterConflict(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"this email already exists"}`))
	})

	err := client.Register(context.Background(), RegisterInput{Email: "alice@example.com", Password: "secret1"})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRegisterSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"customer_name":"Alice","email":"alice@example.com"}`))
	})

	if err := client.Register(context.Background(), RegisterInput{
		CustomerName: "Alice",
		Email:        "alice@example.com",
		Password:     "secret1",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
}

func TestLogoutBestEffort(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	if err := client.Logout(context.Background(), "tok-1"); !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}
