package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/storage"
)

var (
	// ErrOutOfStock is returned when a mutation would push a line's
	// quantity past the product's stock.
	ErrOutOfStock = errors.New("not enough stock")
)

// Service owns the per-shopper cart snapshots. Carts are keyed by the
// identity's namespace; switching identity switches the namespace, which
// replaces the cart wholesale. A guest cart is never merged into the
// authenticated one on login.
type Service struct {
	store   storage.Store
	taxRate decimal.Decimal
	logger  *log.Logger
}

// New builds a Service. taxRatePercent is the flat tax applied on the full
// subtotal (the storefront charges 16% by default).
func New(store storage.Store, taxRatePercent int, logger *log.Logger) *Service {
	return &Service{
		store:   store,
		taxRate: decimal.NewFromInt(int64(taxRatePercent)).Div(decimal.NewFromInt(100)),
		logger:  logger,
	}
}

// Get loads the cart for the namespace. Storage failures degrade to an
// empty cart; the shopper can always keep browsing.
func (s *Service) Get(ctx context.Context, ns string) *domain.Cart {
	raw, err := s.store.Get(ctx, key(ns))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Printf("cart load %s: %v", ns, err)
		}
		return &domain.Cart{}
	}
	var cart domain.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		s.logger.Printf("cart decode %s: %v", ns, err)
		return &domain.Cart{}
	}
	return &cart
}

// AddItem inserts the product with quantity 1, or increments an existing
// line by 1. Any quantity supplied with the product is ignored past the
// first insert. The cart is persisted after the mutation.
func (s *Service) AddItem(ctx context.Context, ns string, product domain.Product) (*domain.Cart, error) {
	cart := s.Get(ctx, ns)
	if idx := cart.Find(product.ID); idx >= 0 {
		if cart.Items[idx].Quantity+1 > cart.Items[idx].Stock {
			return cart, ErrOutOfStock
		}
		cart.Items[idx].Quantity++
	} else {
		if product.Stock < 1 {
			return cart, ErrOutOfStock
		}
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.Image,
			Stock:     product.Stock,
			Quantity:  1,
		})
	}
	s.persist(ctx, ns, cart)
	return cart, nil
}

// RemoveItem deletes the line for productID, preserving the order of the
// remaining lines.
func (s *Service) RemoveItem(ctx context.Context, ns, productID string) *domain.Cart {
	cart := s.Get(ctx, ns)
	idx := cart.Find(productID)
	if idx < 0 {
		return cart
	}
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	s.persist(ctx, ns, cart)
	return cart
}

// UpdateQuantity overwrites the line's quantity. A quantity of zero or
// less is equivalent to removing the line.
func (s *Service) UpdateQuantity(ctx context.Context, ns, productID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, ns, productID), nil
	}
	cart := s.Get(ctx, ns)
	idx := cart.Find(productID)
	if idx < 0 {
		return cart, domain.ErrNotFound
	}
	if quantity > cart.Items[idx].Stock {
		return cart, ErrOutOfStock
	}
	cart.Items[idx].Quantity = quantity
	s.persist(ctx, ns, cart)
	return cart, nil
}

// Clear empties the cart and persists the empty snapshot.
func (s *Service) Clear(ctx context.Context, ns string) {
	s.persist(ctx, ns, &domain.Cart{})
}

// Subtotal is sum(price × quantity) over the cart's lines.
func (s *Service) Subtotal(cart *domain.Cart) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range cart.Items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal
}

// Totals derives the price breakdown. Tax applies to the full subtotal;
// the discount is subtracted from the taxed total.
func (s *Service) Totals(cart *domain.Cart, discount decimal.Decimal) domain.Totals {
	subtotal := s.Subtotal(cart)
	tax := subtotal.Mul(s.taxRate)
	return domain.Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    subtotal.Sub(discount).Add(tax),
	}
}

func (s *Service) persist(ctx context.Context, ns string, cart *domain.Cart) {
	payload, err := json.Marshal(cart)
	if err != nil {
		s.logger.Printf("cart encode %s: %v", ns, err)
		return
	}
	if err := s.store.Set(ctx, key(ns), payload); err != nil {
		s.logger.Printf("cart persist %s: %v", ns, err)
	}
}

func key(ns string) string {
	return "cart:" + ns
}
