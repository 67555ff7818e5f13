package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/service/session"
)

const (
	sessionCookie = "storefront_session"
	guestCookie   = "storefront_guest"

	identityKey = "identity"
	sessionKey  = "sessionID"
)

type cartService interface {
	Get(ctx context.Context, ns string) *domain.Cart
	AddItem(ctx context.Context, ns string, product domain.Product) (*domain.Cart, error)
	RemoveItem(ctx context.Context, ns, productID string) *domain.Cart
	UpdateQuantity(ctx context.Context, ns, productID string, quantity int) (*domain.Cart, error)
	Clear(ctx context.Context, ns string)
	Subtotal(cart *domain.Cart) decimal.Decimal
	Totals(cart *domain.Cart, discount decimal.Decimal) domain.Totals
}

type couponService interface {
	Apply(ctx context.Context, ns, code string, subtotal decimal.Decimal) (*domain.Coupon, error)
	Applied(ctx context.Context, ns string) *domain.Coupon
	Remove(ctx context.Context, ns string) error
}

type handlers struct {
	deps   Deps
	logger interface{ Printf(string, ...interface{}) }
}

// identity resolves the request's shopper: a session-backed user when the
// session cookie checks out, otherwise a guest pinned to an anonymous id
// cookie. Each request carries exactly one identity; a login or logout
// changes the namespace and with it the cart that subsequent requests see.
func (h *handlers) identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if sid, err := c.Cookie(sessionCookie); err == nil && sid != "" {
			if sess, err := h.deps.Sessions.Load(ctx, sid); err == nil {
				user := sess.User
				c.Set(sessionKey, sid)
				c.Set(identityKey, domain.Identity{User: &user, Token: sess.Token})
				c.Next()
				return
			}
			// Stale cookie: drop it and fall through to guest.
			clearCookie(c, sessionCookie)
		}

		anon, err := c.Cookie(guestCookie)
		if err != nil || anon == "" {
			anon = session.NewAnonymousID()
			setCookie(c, guestCookie, anon)
		}
		c.Set(identityKey, domain.Identity{AnonymousID: anon})
		c.Next()
	}
}

// requireUser guards routes that only make sense for authenticated users.
func (h *handlers) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.currentIdentity(c).Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "login required"})
			return
		}
		c.Next()
	}
}

func (h *handlers) currentIdentity(c *gin.Context) domain.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(domain.Identity); ok {
			return id
		}
	}
	return domain.Identity{}
}

// forceLogout clears the session after the backend rejected its token.
func (h *handlers) forceLogout(c *gin.Context) {
	if sid := c.GetString(sessionKey); sid != "" {
		if err := h.deps.Sessions.Clear(c.Request.Context(), sid); err != nil {
			h.logger.Printf("session clear: %v", err)
		}
	}
	clearCookie(c, sessionCookie)
	c.JSON(http.StatusUnauthorized, gin.H{"message": "session expired, please log in again"})
}

func setCookie(c *gin.Context, name, value string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, 0, "/", "", false, true)
}

func clearCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", "", false, true)
}
