package coupon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/storage"
)

var (
	// ErrUnknownCode is returned when the code is not in the catalog.
	ErrUnknownCode = errors.New("coupon code not found")
	// ErrInactive is returned for codes that exist but are switched off.
	ErrInactive = errors.New("coupon is not active")
	// ErrExpired is returned when the coupon's expiry date has passed.
	ErrExpired = errors.New("coupon has expired")
)

// MinOrderError rejects an apply whose subtotal is below the coupon's
// minimum order amount.
type MinOrderError struct {
	Min decimal.Decimal
}

func (e *MinOrderError) Error() string {
	return fmt.Sprintf("order subtotal is below the coupon minimum of %s", e.Min.StringFixed(2))
}

// Service validates and applies discount codes from a fixed catalog. At
// most one coupon is applied per shopper; applying a new one silently
// replaces the previous. The discount is never snapshotted: it is
// recomputed from the current subtotal every time it is asked for.
type Service struct {
	store   storage.Store
	catalog []domain.Coupon
	logger  *log.Logger
	now     func() time.Time
}

func New(store storage.Store, logger *log.Logger) *Service {
	return &Service{
		store:   store,
		catalog: defaultCatalog(),
		logger:  logger,
		now:     time.Now,
	}
}

// Apply looks the code up case-insensitively and stores it as the
// shopper's applied coupon if the subtotal qualifies.
func (s *Service) Apply(ctx context.Context, ns, code string, subtotal decimal.Decimal) (*domain.Coupon, error) {
	needle := strings.ToUpper(strings.TrimSpace(code))
	var found *domain.Coupon
	for i := range s.catalog {
		if strings.ToUpper(s.catalog[i].Code) == needle {
			found = &s.catalog[i]
			break
		}
	}
	if found == nil {
		return nil, ErrUnknownCode
	}
	if !found.Active {
		return nil, ErrInactive
	}
	if s.now().After(found.ExpiresAt) {
		return nil, ErrExpired
	}
	if subtotal.LessThan(found.MinOrder) {
		return nil, &MinOrderError{Min: found.MinOrder}
	}

	payload, err := json.Marshal(found)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, key(ns), payload); err != nil {
		s.logger.Printf("coupon persist %s: %v", ns, err)
	}
	return found, nil
}

// Applied returns the shopper's applied coupon, or nil. Storage failures
// degrade to "no coupon".
func (s *Service) Applied(ctx context.Context, ns string) *domain.Coupon {
	raw, err := s.store.Get(ctx, key(ns))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Printf("coupon load %s: %v", ns, err)
		}
		return nil
	}
	var c domain.Coupon
	if err := json.Unmarshal(raw, &c); err != nil {
		s.logger.Printf("coupon decode %s: %v", ns, err)
		return nil
	}
	return &c
}

// Remove clears the applied coupon.
func (s *Service) Remove(ctx context.Context, ns string) error {
	return s.store.Delete(ctx, key(ns))
}

// Discount computes the coupon's discount for the given subtotal.
// Percentage coupons are clamped to the max-discount cap when one is set;
// every discount is clamped to the subtotal.
func Discount(c *domain.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	var amount decimal.Decimal
	switch c.Kind {
	case domain.CouponPercentage:
		amount = subtotal.Mul(c.Value).Div(decimal.NewFromInt(100))
		if c.MaxDiscount != nil && amount.GreaterThan(*c.MaxDiscount) {
			amount = *c.MaxDiscount
		}
	case domain.CouponFixed:
		amount = c.Value
	default:
		return decimal.Zero
	}
	if amount.GreaterThan(subtotal) {
		return subtotal
	}
	return amount
}

func key(ns string) string {
	return "coupon:" + ns
}
