package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/backend"
	"storefront/internal/domain"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
		return
	}
	ctx := c.Request.Context()

	result, err := h.deps.Auth.Login(ctx, backend.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		h.logger.Printf("login: %v", err)
		if errors.Is(err, domain.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": backend.UserMessage(err, "invalid credentials")})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"message": backend.UserMessage(err, "could not log in")})
		return
	}

	sid, err := h.deps.Sessions.Create(ctx, result.Token, result.User)
	if err != nil {
		h.logger.Printf("session create: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not start session"})
		return
	}
	setCookie(c, sessionCookie, sid)
	c.JSON(http.StatusOK, gin.H{"user": result.User})
}

type registerRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (h *handlers) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
		return
	}
	ctx := c.Request.Context()

	result, err := h.deps.Auth.Register(ctx, backend.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.logger.Printf("register: %v", err)
		if errors.Is(err, domain.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"message": backend.UserMessage(err, "account already exists")})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"message": backend.UserMessage(err, "could not create account")})
		return
	}

	sid, err := h.deps.Sessions.Create(ctx, result.Token, result.User)
	if err != nil {
		h.logger.Printf("session create: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not start session"})
		return
	}
	setCookie(c, sessionCookie, sid)
	c.JSON(http.StatusCreated, gin.H{"user": result.User})
}

func (h *handlers) logout(c *gin.Context) {
	if sid := c.GetString(sessionKey); sid != "" {
		if err := h.deps.Sessions.Clear(c.Request.Context(), sid); err != nil {
			h.logger.Printf("logout session clear: %v", err)
		}
	}
	clearCookie(c, sessionCookie)
	c.Status(http.StatusNoContent)
}

// me refreshes the profile from the backend so a stale token is caught
// here instead of surfacing later in checkout. A backend outage falls
// back to the session snapshot.
func (h *handlers) me(c *gin.Context) {
	identity := h.currentIdentity(c)
	if !identity.Authenticated() {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not logged in"})
		return
	}
	user, err := h.deps.Auth.Profile(c.Request.Context(), identity.Token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			h.forceLogout(c)
			return
		}
		h.logger.Printf("profile refresh: %v", err)
		c.JSON(http.StatusOK, gin.H{"user": identity.User})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
