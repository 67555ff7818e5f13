package coupon

import (
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// defaultCatalog is the storefront's static discount catalog. Rules live
// in code, not behind the commerce API; validation is purely local.
func defaultCatalog() []domain.Coupon {
	cap50 := decimal.NewFromInt(50)
	cap100 := decimal.NewFromInt(100)
	return []domain.Coupon{
		{
			Code:        "DESCUENTO10",
			Kind:        domain.CouponPercentage,
			Value:       decimal.NewFromInt(10),
			MinOrder:    decimal.Zero,
			MaxDiscount: &cap50,
			ExpiresAt:   time.Date(2027, 12, 31, 23, 59, 59, 0, time.UTC),
			Active:      true,
			Description: "10% off, capped at 50",
		},
		{
			Code:        "BIENVENIDO",
			Kind:        domain.CouponFixed,
			Value:       decimal.NewFromInt(20),
			MinOrder:    decimal.NewFromInt(50),
			ExpiresAt:   time.Date(2027, 12, 31, 23, 59, 59, 0, time.UTC),
			Active:      true,
			Description: "20 off your first order over 50",
		},
		{
			Code:        "MEGAREBAJA",
			Kind:        domain.CouponPercentage,
			Value:       decimal.NewFromInt(25),
			MinOrder:    decimal.NewFromInt(200),
			MaxDiscount: &cap100,
			ExpiresAt:   time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC),
			Active:      true,
			Description: "25% off orders over 200 (expired)",
		},
		{
			Code:        "VIPSECRETO",
			Kind:        domain.CouponPercentage,
			Value:       decimal.NewFromInt(50),
			MinOrder:    decimal.Zero,
			ExpiresAt:   time.Date(2027, 12, 31, 23, 59, 59, 0, time.UTC),
			Active:      false,
			Description: "staff-only, currently disabled",
		},
	}
}
