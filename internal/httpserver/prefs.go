package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const defaultTheme = "light"

// Theme preference is one storage slot per shopper, nothing more.

func (h *handlers) getTheme(c *gin.Context) {
	ns := h.currentIdentity(c).Namespace()
	theme := defaultTheme
	if raw, err := h.deps.Prefs.Get(c.Request.Context(), "prefs:"+ns); err == nil && len(raw) > 0 {
		theme = string(raw)
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

type themeRequest struct {
	Theme string `json:"theme" binding:"required,oneof=light dark"`
}

func (h *handlers) setTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "theme must be light or dark"})
		return
	}
	ns := h.currentIdentity(c).Namespace()
	if err := h.deps.Prefs.Set(c.Request.Context(), "prefs:"+ns, []byte(req.Theme)); err != nil {
		h.logger.Printf("theme persist: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not save preference"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": req.Theme})
}
