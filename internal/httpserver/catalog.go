package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/backend"
	"storefront/internal/domain"
)

func (h *handlers) listProducts(c *gin.Context) {
	products, err := h.deps.Catalog.Products(c.Request.Context(), backend.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	})
	if err != nil {
		h.logger.Printf("list products: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"message": backend.UserMessage(err, "could not load products")})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *handlers) getProduct(c *gin.Context) {
	product, err := h.deps.Catalog.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
			return
		}
		h.logger.Printf("get product: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"message": backend.UserMessage(err, "could not load product")})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *handlers) listCategories(c *gin.Context) {
	categories, err := h.deps.Catalog.Categories(c.Request.Context())
	if err != nil {
		h.logger.Printf("list categories: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"message": backend.UserMessage(err, "could not load categories")})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *handlers) paymentPublicKey(c *gin.Context) {
	key, err := h.deps.Catalog.PublicKey(c.Request.Context())
	if err != nil {
		h.logger.Printf("payment public key: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"message": "could not load payment configuration"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"publicKey": key})
}
