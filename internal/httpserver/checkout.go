package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/payment"
	"storefront/internal/service/checkout"
)

type checkoutRequest struct {
	Shipping   domain.ShippingAddress `json:"shipping"`
	Card       payment.Card           `json:"card"`
	AttemptKey string                 `json:"attemptKey"`
}

// submitCheckout runs the whole flow synchronously; the response carries
// either the order result or the single failure message the shopper sees.
func (h *handlers) submitCheckout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid checkout payload"})
		return
	}

	identity := h.currentIdentity(c)
	result, err := h.deps.Checkout.Run(c.Request.Context(), identity, checkout.Input{
		Shipping:   req.Shipping,
		Card:       req.Card,
		AttemptKey: req.AttemptKey,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			h.forceLogout(c)
			return
		}
		var failure *checkout.Failure
		if errors.As(err, &failure) {
			c.JSON(statusForFailure(failure), gin.H{"message": failure.Message, "state": failure.State})
			return
		}
		h.logger.Printf("checkout: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "checkout failed, please try again"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func statusForFailure(f *checkout.Failure) int {
	switch f.State {
	case checkout.StateValidatingShipping:
		return http.StatusBadRequest
	case checkout.StateConfirmingCard:
		return http.StatusPaymentRequired
	default:
		return http.StatusBadGateway
	}
}
