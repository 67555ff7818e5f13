package coupon

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/storage"
)

func newTestService() *Service {
	return New(storage.NewMemory(), log.New(io.Discard, "", 0))
}

func TestApplyIsCaseInsensitive(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	applied, err := svc.Apply(ctx, "guest:a", "descuento10", decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, "DESCUENTO10", applied.Code)
}

func TestApplyRejectsUnknownCode(t *testing.T) {
	svc := newTestService()
	_, err := svc.Apply(context.Background(), "guest:a", "NOPE", decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrUnknownCode)
}

func TestApplyRejectsInactiveCoupon(t *testing.T) {
	svc := newTestService()
	_, err := svc.Apply(context.Background(), "guest:a", "VIPSECRETO", decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrInactive)
}

func TestApplyRejectsExpiredCoupon(t *testing.T) {
	svc := newTestService()
	svc.now = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }
	_, err := svc.Apply(context.Background(), "guest:a", "MEGAREBAJA", decimal.NewFromInt(500))
	assert.ErrorIs(t, err, ErrExpired)
}

func TestApplyRejectsBelowMinimumOrder(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	// BIENVENIDO: fixed 20 with minimum order 50; a 30 subtotal fails and
	// leaves no coupon applied.
	_, err := svc.Apply(ctx, "guest:a", "BIENVENIDO", decimal.NewFromInt(30))
	var minErr *MinOrderError
	require.ErrorAs(t, err, &minErr)
	assert.True(t, minErr.Min.Equal(decimal.NewFromInt(50)))
	assert.Nil(t, svc.Applied(ctx, "guest:a"))
	assert.True(t, Discount(svc.Applied(ctx, "guest:a"), decimal.NewFromInt(30)).IsZero())
}

func TestApplyReplacesPreviousCoupon(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Apply(ctx, "guest:a", "DESCUENTO10", decimal.NewFromInt(100))
	require.NoError(t, err)
	_, err = svc.Apply(ctx, "guest:a", "BIENVENIDO", decimal.NewFromInt(100))
	require.NoError(t, err)

	applied := svc.Applied(ctx, "guest:a")
	require.NotNil(t, applied)
	assert.Equal(t, "BIENVENIDO", applied.Code)
}

func TestRemoveClearsAppliedCoupon(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Apply(ctx, "guest:a", "DESCUENTO10", decimal.NewFromInt(100))
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, "guest:a"))
	assert.Nil(t, svc.Applied(ctx, "guest:a"))
}

func TestDiscountPercentageIsCapped(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	// 10% of 1000 is 100, but DESCUENTO10 caps at 50.
	applied, err := svc.Apply(ctx, "guest:a", "DESCUENTO10", decimal.NewFromInt(1000))
	require.NoError(t, err)
	discount := Discount(applied, decimal.NewFromInt(1000))
	assert.True(t, discount.Equal(decimal.NewFromInt(50)), "got %s", discount)
}

func TestDiscountNeverExceedsSubtotal(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	applied, err := svc.Apply(ctx, "guest:a", "BIENVENIDO", decimal.NewFromInt(50))
	require.NoError(t, err)

	// Recomputed on demand: the subtotal may have shrunk since apply.
	discount := Discount(applied, decimal.NewFromInt(15))
	assert.True(t, discount.Equal(decimal.NewFromInt(15)), "got %s", discount)
}

func TestDiscountRecomputedFromCurrentSubtotal(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	applied, err := svc.Apply(ctx, "guest:a", "DESCUENTO10", decimal.NewFromInt(100))
	require.NoError(t, err)

	assert.True(t, Discount(applied, decimal.NewFromInt(100)).Equal(decimal.NewFromInt(10)))
	assert.True(t, Discount(applied, decimal.NewFromInt(200)).Equal(decimal.NewFromInt(20)))
}

func TestDiscountNilCouponIsZero(t *testing.T) {
	assert.True(t, Discount(nil, decimal.NewFromInt(100)).IsZero())
}

func TestDiscountUnknownKindIsZero(t *testing.T) {
	c := &domain.Coupon{Code: "X", Kind: "bogus", Value: decimal.NewFromInt(10)}
	assert.True(t, Discount(c, decimal.NewFromInt(100)).IsZero())
}
