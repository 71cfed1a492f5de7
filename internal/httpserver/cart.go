package httpserver

import (
	"errors"
	"net/http"

	"license-storefront/internal/domain"
	cartsvc "license-storefront/internal/service/cart"
	"github.com/gin-gonic/gin"
)

func viewCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.Get(c.Request.Context(), identityFromContext(c))
		if err != nil {
			cartError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func addItemHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var draft cartsvc.NewItemDraft
		if err := c.ShouldBindJSON(&draft); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid item payload"})
			return
		}
		order, err := svc.AddItem(c.Request.Context(), identityFromContext(c), draft)
		if err != nil {
			cartError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func removeItemHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.RemoveItem(c.Request.Context(), identityFromContext(c), c.Param("itemID"))
		if err != nil {
			cartError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func checkoutHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.Checkout(c.Request.Context(), identityFromContext(c))
		if err != nil {
			cartError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func cartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "login required"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "cart not found"})
	case errors.Is(err, domain.ErrOrderClosed):
		c.JSON(http.StatusConflict, gin.H{"detail": "order already checked out"})
	case errors.Is(err, domain.ErrUpstream):
		c.JSON(http.StatusBadGateway, gin.H{"detail": "service temporarily unavailable"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	}
}
