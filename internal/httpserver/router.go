package httpserver

import (
	"context"
	"log"
	"net/http"
	"time"

	"license-storefront/internal/backend"
	"license-storefront/internal/domain"
	cartsvc "license-storefront/internal/service/cart"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionService resolves identities and drives the auth flow.
type SessionService interface {
	Current(ctx context.Context, token, csrf string) (*domain.Identity, error)
	Login(ctx context.Context, email, password string) (*backend.Session, error)
	Logout(ctx context.Context, token string) error
	Register(ctx context.Context, in backend.RegisterInput) error
}

// CartService mutates the current identity's cart order.
type CartService interface {
	Get(ctx context.Context, identity *domain.Identity) (*domain.CartOrder, error)
	AddItem(ctx context.Context, identity *domain.Identity, draft cartsvc.NewItemDraft) (*domain.CartOrder, error)
	RemoveItem(ctx context.Context, identity *domain.Identity, itemID string) (*domain.CartOrder, error)
	Checkout(ctx context.Context, identity *domain.Identity) (*domain.CartOrder, error)
}

// CatalogService reads the product catalog.
type CatalogService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, licenseID string) (*domain.Product, error)
}

// Deps carries the services the router needs.
type Deps struct {
	SessionSvc SessionService
	CartSvc    CartService
	CatalogSvc CatalogService
}

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, allowedOrigins []string) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if err := corsCfg.Validate(); err != nil {
		return nil, err
	}
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")
	api.POST("/login/access-token", loginHandler(deps.SessionSvc))
	api.POST("/logout/", logoutHandler(deps.SessionSvc))
	api.POST("/users/", registerHandler(deps.SessionSvc))
	api.GET("/users/me", meHandler(deps.SessionSvc))
	api.GET("/production", listProductsHandler(deps.CatalogSvc))
	api.GET("/production/:licenseID", getProductHandler(deps.CatalogSvc))

	cart := api.Group("/cart")
	cart.Use(identityMiddleware(deps.SessionSvc))
	cart.GET("", viewCartHandler(deps.CartSvc))
	cart.POST("/add", addItemHandler(deps.CartSvc))
	cart.DELETE("/item/:itemID", removeItemHandler(deps.CartSvc))
	cart.POST("/checkout", checkoutHandler(deps.CartSvc))

	return router, nil
}

const identityCtxKey = "identity"

// identityMiddleware resolves the session identity once per request and
// rejects anonymous callers; handlers behind it can assume a logged-in
// customer.
func identityMiddleware(svc SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(accessTokenCookie)
		identity, err := svc.Current(c.Request.Context(), token, c.GetHeader(csrfHeader))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "login required"})
			return
		}
		c.Set(identityCtxKey, identity)
		c.Next()
	}
}

func identityFromContext(c *gin.Context) *domain.Identity {
	v, ok := c.Get(identityCtxKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*domain.Identity)
	return identity
}
