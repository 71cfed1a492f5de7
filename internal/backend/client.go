package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"license-storefront/internal/domain"
)

const (
	accessTokenCookie = "access_token"
	csrfHeader        = "X-CSRF-Token"
)

// Client talks to the upstream backend API. All failures are classified into
// the domain error taxonomy so callers never see raw transport errors.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

// New builds a Client for the given base URL. Every request is bounded by
// the configured timeout.
func New(baseURL string, timeout time.Duration, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Session carries the credentials issued by a successful login: the opaque
// access token, the CSRF token the client must echo back, and the raw
// cookies to relay to the browser.
type Session struct {
	AccessToken string
	CSRFToken   string
	Cookies     []*http.Cookie
}

// RegisterInput mirrors the upstream registration payload.
type RegisterInput struct {
	CustomerName string `json:"customer_name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	PhoneNumber  string `json:"phone_number"`
	Address      string `json:"address"`
}

// Login submits credentials form-encoded and returns the issued session.
// A 400-class rejection maps to domain.ErrBadCredentials.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/login/access-token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Printf("backend: login error=%v", err)
		return nil, fmt.Errorf("%w: login: %v", domain.ErrUpstream, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusOK:
	case res.StatusCode >= 400 && res.StatusCode < 500:
		return nil, fmt.Errorf("%w: %s", domain.ErrBadCredentials, readDetail(res.Body))
	default:
		return nil, fmt.Errorf("%w: login status %d", domain.ErrUpstream, res.StatusCode)
	}

	var body struct {
		Message   string `json:"message"`
		CSRFToken string `json:"csrf_token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode login response: %v", domain.ErrUpstream, err)
	}

	session := &Session{CSRFToken: body.CSRFToken, Cookies: res.Cookies()}
	for _, ck := range session.Cookies {
		if ck.Name == accessTokenCookie {
			session.AccessToken = ck.Value
		}
	}
	if session.AccessToken == "" {
		return nil, fmt.Errorf("%w: login response missing %s cookie", domain.ErrUpstream, accessTokenCookie)
	}
	return session, nil
}

// CurrentUser resolves the identity bound to a session token. Any auth
// rejection maps to domain.ErrUnauthenticated.
func (c *Client) CurrentUser(ctx context.Context, token, csrf string) (*domain.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/users/me", nil)
	if err != nil {
		return nil, err
	}
	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: token})
	req.Header.Set(csrfHeader, csrf)

	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Printf("backend: current user error=%v", err)
		return nil, fmt.Errorf("%w: current user: %v", domain.ErrUpstream, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusOK:
	case res.StatusCode >= 400 && res.StatusCode < 500:
		return nil, domain.ErrUnauthenticated
	default:
		return nil, fmt.Errorf("%w: current user status %d", domain.ErrUpstream, res.StatusCode)
	}

	var wire wireUser
	if err := json.NewDecoder(res.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: decode user: %v", domain.ErrUpstream, err)
	}
	return wire.toIdentity()
}

// Logout asks the upstream to invalidate the session. Callers treat this as
// best effort; local state is cleared regardless of the outcome.
func (c *Client) Logout(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/logout/", nil)
	if err != nil {
		return err
	}
	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: token})

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: logout: %v", domain.ErrUpstream, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: logout status %d", domain.ErrUpstream, res.StatusCode)
	}
	return nil
}

// Register creates a new customer account. A duplicate email maps to
// domain.ErrAlreadyExists, other 400-class rejections to
// domain.ErrBadCredentials.
func (c *Client) Register(ctx context.Context, in RegisterInput) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/users/", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: register: %v", domain.ErrUpstream, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusOK || res.StatusCode == http.StatusCreated:
		return nil
	case res.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, readDetail(res.Body))
	case res.StatusCode > 400 && res.StatusCode < 500:
		return fmt.Errorf("%w: %s", domain.ErrBadCredentials, readDetail(res.Body))
	default:
		return fmt.Errorf("%w: register status %d", domain.ErrUpstream, res.StatusCode)
	}
}

// ListProducts fetches the full catalog. Malformed entries are rejected
// rather than propagated with zeroed fields.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/production", nil)
	if err != nil {
		return nil, err
	}

	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Printf("backend: list products error=%v", err)
		return nil, fmt.Errorf("%w: list products: %v", domain.ErrUpstream, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: list products status %d", domain.ErrUpstream, res.StatusCode)
	}

	var wire []wireProduct
	if err := json.NewDecoder(res.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: decode products: %v", domain.ErrUpstream, err)
	}

	products := make([]domain.Product, 0, len(wire))
	for i, wp := range wire {
		p, err := wp.toProduct()
		if err != nil {
			return nil, fmt.Errorf("%w: product %d: %v", domain.ErrUpstream, i, err)
		}
		products = append(products, p)
	}
	c.logger.Printf("backend: list products count=%d", len(products))
	return products, nil
}

func readDetail(r io.Reader) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil || body.Detail == "" {
		return "request rejected"
	}
	return body.Detail
}
