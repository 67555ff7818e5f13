package httpserver

import (
	"context"
	"errors"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"storefront/internal/backend"
	"storefront/internal/domain"
	"storefront/internal/service/checkout"
	"storefront/internal/service/session"
	"storefront/internal/storage"
)

type authAPI interface {
	Login(ctx context.Context, in backend.Credentials) (*backend.AuthResult, error)
	Register(ctx context.Context, in backend.RegisterInput) (*backend.AuthResult, error)
	Profile(ctx context.Context, token string) (*domain.User, error)
}

type catalogAPI interface {
	Products(ctx context.Context, filter backend.ProductFilter) ([]domain.Product, error)
	Product(ctx context.Context, id string) (*domain.Product, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	PublicKey(ctx context.Context) (string, error)
}

type favoritesService interface {
	Load(ctx context.Context, token, userID string) ([]domain.Product, error)
	Add(ctx context.Context, token, userID, productID string) (bool, error)
	Remove(ctx context.Context, token, userID, productID string) error
	IsFavorite(ctx context.Context, userID, productID string) bool
}

type checkoutService interface {
	Run(ctx context.Context, identity domain.Identity, in checkout.Input) (*checkout.Result, error)
}

// Deps carries everything the router needs, injected from main.
type Deps struct {
	Auth           authAPI
	Catalog        catalogAPI
	Sessions       *session.Service
	Carts          cartService
	Coupons        couponService
	Checkout       checkoutService
	Favorites      favoritesService
	Prefs          storage.Store
	AllowedOrigins []string
	Pinger         Pinger
}

// buildRouter wires routes for the storefront BFF.
func buildRouter(logger *log.Logger, deps Deps) (*gin.Engine, error) {
	if deps.Sessions == nil || deps.Carts == nil || deps.Coupons == nil {
		return nil, errors.New("httpserver: missing session, cart, or coupon dependency")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	if len(deps.AllowedOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = deps.AllowedOrigins
		corsCfg.AllowCredentials = true
		corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
		router.Use(cors.New(corsCfg))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Pinger))

	h := &handlers{deps: deps, logger: logger}

	api := router.Group("/", h.identity())

	api.POST("/auth/login", h.login)
	api.POST("/auth/register", h.register)
	api.POST("/auth/logout", h.logout)
	api.GET("/me", h.me)

	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)
	api.GET("/categories", h.listCategories)
	api.GET("/payments/public-key", h.paymentPublicKey)

	api.GET("/cart", h.getCart)
	api.POST("/cart/items", h.addCartItem)
	api.PATCH("/cart/items/:id", h.updateCartItem)
	api.DELETE("/cart/items/:id", h.removeCartItem)
	api.DELETE("/cart", h.clearCart)
	api.POST("/cart/coupon", h.applyCoupon)
	api.DELETE("/cart/coupon", h.removeCoupon)

	api.POST("/checkout", h.submitCheckout)

	authed := api.Group("/", h.requireUser())
	authed.GET("/favorites", h.listFavorites)
	authed.GET("/favorites/:productId", h.favoriteStatus)
	authed.POST("/favorites/:productId", h.addFavorite)
	authed.DELETE("/favorites/:productId", h.removeFavorite)

	api.GET("/preferences/theme", h.getTheme)
	api.PUT("/preferences/theme", h.setTheme)

	return router, nil
}
