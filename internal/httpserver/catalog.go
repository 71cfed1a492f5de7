package httpserver

import (
	"errors"
	"net/http"

	"license-storefront/internal/domain"
	"github.com/gin-gonic/gin"
)

func listProductsHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"detail": "catalog unavailable"})
			return
		}
		if products == nil {
			products = []domain.Product{}
		}
		c.JSON(http.StatusOK, products)
	}
}

func getProductHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := svc.Get(c.Request.Context(), c.Param("licenseID"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": "product not found"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"detail": "catalog unavailable"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
