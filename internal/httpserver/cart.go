package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/backend"
	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
	couponsvc "storefront/internal/service/coupon"
)

type cartResponse struct {
	Items  []domain.CartItem `json:"items"`
	Coupon *domain.Coupon    `json:"coupon,omitempty"`
	Totals domain.Totals     `json:"totals"`
}

func (h *handlers) cartResponse(c *gin.Context, ns string, cart *domain.Cart) cartResponse {
	ctx := c.Request.Context()
	applied := h.deps.Coupons.Applied(ctx, ns)
	discount := couponsvc.Discount(applied, h.deps.Carts.Subtotal(cart))
	items := cart.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return cartResponse{
		Items:  items,
		Coupon: applied,
		Totals: h.deps.Carts.Totals(cart, discount),
	}
}

func (h *handlers) getCart(c *gin.Context) {
	ns := h.currentIdentity(c).Namespace()
	cart := h.deps.Carts.Get(c.Request.Context(), ns)
	c.JSON(http.StatusOK, h.cartResponse(c, ns, cart))
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// addCartItem resolves the product against the catalog so the stored
// snapshot (price, stock) is authoritative, then adds it.
func (h *handlers) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "productId is required"})
		return
	}
	ctx := c.Request.Context()

	product, err := h.deps.Catalog.Product(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
			return
		}
		h.logger.Printf("add item product lookup: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"message": backend.UserMessage(err, "could not load product")})
		return
	}

	ns := h.currentIdentity(c).Namespace()
	cart, err := h.deps.Carts.AddItem(ctx, ns, *product)
	if err != nil {
		if errors.Is(err, cartsvc.ErrOutOfStock) {
			c.JSON(http.StatusConflict, gin.H{"message": "not enough stock for this product"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not update cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": product.Name + " added to cart",
		"cart":    h.cartResponse(c, ns, cart),
	})
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *handlers) updateCartItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "quantity is required"})
		return
	}
	ns := h.currentIdentity(c).Namespace()
	cart, err := h.deps.Carts.UpdateQuantity(c.Request.Context(), ns, c.Param("id"), req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "item is not in the cart"})
		case errors.Is(err, cartsvc.ErrOutOfStock):
			c.JSON(http.StatusConflict, gin.H{"message": "not enough stock for this product"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not update cart"})
		}
		return
	}
	c.JSON(http.StatusOK, h.cartResponse(c, ns, cart))
}

func (h *handlers) removeCartItem(c *gin.Context) {
	ns := h.currentIdentity(c).Namespace()
	cart := h.deps.Carts.RemoveItem(c.Request.Context(), ns, c.Param("id"))
	c.JSON(http.StatusOK, h.cartResponse(c, ns, cart))
}

func (h *handlers) clearCart(c *gin.Context) {
	ns := h.currentIdentity(c).Namespace()
	h.deps.Carts.Clear(c.Request.Context(), ns)
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}

type applyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *handlers) applyCoupon(c *gin.Context) {
	var req applyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "coupon code is required"})
		return
	}
	ctx := c.Request.Context()
	ns := h.currentIdentity(c).Namespace()
	cart := h.deps.Carts.Get(ctx, ns)

	applied, err := h.deps.Coupons.Apply(ctx, ns, req.Code, h.deps.Carts.Subtotal(cart))
	if err != nil {
		var minErr *couponsvc.MinOrderError
		switch {
		case errors.Is(err, couponsvc.ErrUnknownCode),
			errors.Is(err, couponsvc.ErrInactive),
			errors.Is(err, couponsvc.ErrExpired):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		case errors.As(err, &minErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": minErr.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not apply coupon"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"coupon": applied,
		"cart":   h.cartResponse(c, ns, cart),
	})
}

func (h *handlers) removeCoupon(c *gin.Context) {
	ns := h.currentIdentity(c).Namespace()
	if err := h.deps.Coupons.Remove(c.Request.Context(), ns); err != nil {
		h.logger.Printf("remove coupon: %v", err)
	}
	c.Status(http.StatusNoContent)
}
