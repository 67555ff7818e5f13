package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/backend"
	"storefront/internal/domain"
)

func (h *handlers) listFavorites(c *gin.Context) {
	identity := h.currentIdentity(c)
	products, err := h.deps.Favorites.Load(c.Request.Context(), identity.Token, identity.User.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			h.forceLogout(c)
			return
		}
		h.logger.Printf("list favorites: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"message": backend.UserMessage(err, "could not load favorites")})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *handlers) favoriteStatus(c *gin.Context) {
	identity := h.currentIdentity(c)
	favorite := h.deps.Favorites.IsFavorite(c.Request.Context(), identity.User.ID, c.Param("productId"))
	c.JSON(http.StatusOK, gin.H{"favorite": favorite})
}

func (h *handlers) addFavorite(c *gin.Context) {
	identity := h.currentIdentity(c)
	already, err := h.deps.Favorites.Add(c.Request.Context(), identity.Token, identity.User.ID, c.Param("productId"))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			h.forceLogout(c)
			return
		}
		h.logger.Printf("add favorite: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"message": backend.UserMessage(err, "could not save favorite")})
		return
	}
	if already {
		c.JSON(http.StatusOK, gin.H{"message": "already in your favorites"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "added to favorites"})
}

func (h *handlers) removeFavorite(c *gin.Context) {
	identity := h.currentIdentity(c)
	if err := h.deps.Favorites.Remove(c.Request.Context(), identity.Token, identity.User.ID, c.Param("productId")); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			h.forceLogout(c)
			return
		}
		h.logger.Printf("remove favorite: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"message": backend.UserMessage(err, "could not remove favorite")})
		return
	}
	c.Status(http.StatusNoContent)
}
