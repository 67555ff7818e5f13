package cart

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/storage"
)

func newTestService() *Service {
	return New(storage.NewMemory(), 16, log.New(io.Discard, "", 0))
}

func product(id string, price float64, stock int) domain.Product {
	return domain.Product{
		ID:    id,
		Name:  "product " + id,
		Price: decimal.NewFromFloat(price),
		Stock: stock,
	}
}

func TestAddItemAccumulatesQuantity(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p := product("p1", 10, 10)
	for i := 0; i < 4; i++ {
		if _, err := svc.AddItem(ctx, "guest:a", p); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	cart := svc.Get(ctx, "guest:a")
	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", cart.Items[0].Quantity)
	}
}

func TestAddItemIgnoresSuppliedQuantityAfterFirstInsert(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "guest:a", product("p1", 10, 10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart := svc.Get(ctx, "guest:a")
	if cart.Items[0].Quantity != 1 {
		t.Fatalf("expected first insert quantity 1, got %d", cart.Items[0].Quantity)
	}
}

func TestRemoveThenAddResetsQuantity(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	p := product("p1", 10, 10)

	for i := 0; i < 3; i++ {
		if _, err := svc.AddItem(ctx, "guest:a", p); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	svc.RemoveItem(ctx, "guest:a", "p1")
	if _, err := svc.AddItem(ctx, "guest:a", p); err != nil {
		t.Fatalf("re-add: %v", err)
	}

	cart := svc.Get(ctx, "guest:a")
	if cart.Items[0].Quantity != 1 {
		t.Fatalf("expected quantity reset to 1, got %d", cart.Items[0].Quantity)
	}
}

func TestUpdateQuantityZeroEqualsRemove(t *testing.T) {
	ctx := context.Background()
	p := product("p1", 10, 10)

	removed := newTestService()
	if _, err := removed.AddItem(ctx, "guest:a", p); err != nil {
		t.Fatalf("add: %v", err)
	}
	removed.RemoveItem(ctx, "guest:a", "p1")

	zeroed := newTestService()
	if _, err := zeroed.AddItem(ctx, "guest:a", p); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := zeroed.UpdateQuantity(ctx, "guest:a", "p1", 0); err != nil {
		t.Fatalf("update to zero: %v", err)
	}

	a := removed.Get(ctx, "guest:a")
	b := zeroed.Get(ctx, "guest:a")
	if len(a.Items) != 0 || len(b.Items) != 0 {
		t.Fatalf("expected both carts empty, got %d and %d lines", len(a.Items), len(b.Items))
	}
}

func TestUpdateQuantityOverwritesInPlace(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "guest:a", product("p1", 10, 10)); err != nil {
		t.Fatalf("add: %v", err)
	}
	cart, err := svc.UpdateQuantity(ctx, "guest:a", "p1", 7)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if cart.Items[0].Quantity != 7 {
		t.Fatalf("expected quantity 7, got %d", cart.Items[0].Quantity)
	}
}

func TestStockLimits(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	p := product("p1", 10, 2)

	if _, err := svc.AddItem(ctx, "guest:a", p); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddItem(ctx, "guest:a", p); err != nil {
		t.Fatalf("add second: %v", err)
	}
	if _, err := svc.AddItem(ctx, "guest:a", p); !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}
	if _, err := svc.UpdateQuantity(ctx, "guest:a", "p1", 5); !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock on update, got %v", err)
	}
	if _, err := svc.AddItem(ctx, "guest:b", product("p2", 5, 0)); !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock for zero-stock insert, got %v", err)
	}
}

func TestTotalsWorkedExample(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p1 := product("p1", 10, 10)
	if _, err := svc.AddItem(ctx, "guest:a", p1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddItem(ctx, "guest:a", p1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddItem(ctx, "guest:a", product("p2", 5, 10)); err != nil {
		t.Fatalf("add: %v", err)
	}

	cart := svc.Get(ctx, "guest:a")
	totals := svc.Totals(cart, decimal.Zero)

	if !totals.Subtotal.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected subtotal 25, got %s", totals.Subtotal)
	}
	if !totals.Tax.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("expected tax 4, got %s", totals.Tax)
	}
	if !totals.Total.Equal(decimal.NewFromInt(29)) {
		t.Fatalf("expected total 29, got %s", totals.Total)
	}
}

func TestTotalIsSubtotalTimesTaxFactor(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	prices := []float64{0.1, 3.33, 19.99, 250}
	for i, price := range prices {
		if _, err := svc.AddItem(ctx, "guest:a", product(string(rune('a'+i)), price, 10)); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	cart := svc.Get(ctx, "guest:a")
	totals := svc.Totals(cart, decimal.Zero)
	factor := decimal.NewFromFloat(1.16)
	if !totals.Total.Equal(totals.Subtotal.Mul(factor)) {
		t.Fatalf("expected total = subtotal*1.16, got subtotal=%s total=%s", totals.Subtotal, totals.Total)
	}
}

func TestNamespaceSwitchReplacesCart(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "guest:anon-1", product("p1", 10, 10)); err != nil {
		t.Fatalf("add guest: %v", err)
	}
	if _, err := svc.AddItem(ctx, "user:u1", product("p2", 5, 10)); err != nil {
		t.Fatalf("add user: %v", err)
	}

	// Logging in switches the namespace; the user's cart comes back as-is,
	// without the guest line.
	userCart := svc.Get(ctx, "user:u1")
	if len(userCart.Items) != 1 || userCart.Items[0].ProductID != "p2" {
		t.Fatalf("expected only the user's own line, got %+v", userCart.Items)
	}

	guestCart := svc.Get(ctx, "guest:anon-1")
	if len(guestCart.Items) != 1 || guestCart.Items[0].ProductID != "p1" {
		t.Fatalf("guest cart should be untouched, got %+v", guestCart.Items)
	}
}

func TestGetSwallowsStorageFailures(t *testing.T) {
	svc := New(&failingStore{}, 16, log.New(io.Discard, "", 0))
	cart := svc.Get(context.Background(), "guest:a")
	if cart == nil || len(cart.Items) != 0 {
		t.Fatalf("expected empty cart fallback, got %+v", cart)
	}
}

type failingStore struct{}

func (f *failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("storage down")
}

func (f *failingStore) Set(context.Context, string, []byte) error {
	return errors.New("storage down")
}

func (f *failingStore) Delete(context.Context, string) error {
	return errors.New("storage down")
}
