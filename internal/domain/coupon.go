package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CouponKind enumerates the supported discount strategies.
type CouponKind string

const (
	CouponPercentage CouponKind = "percentage"
	CouponFixed      CouponKind = "fixed"
)

type Coupon struct {
	Code        string           `json:"code"`
	Kind        CouponKind       `json:"kind"`
	Value       decimal.Decimal  `json:"value"`
	MinOrder    decimal.Decimal  `json:"minOrder"`
	MaxDiscount *decimal.Decimal `json:"maxDiscount,omitempty"`
	ExpiresAt   time.Time        `json:"expiresAt"`
	Active      bool             `json:"active"`
	Description string           `json:"description,omitempty"`
}
