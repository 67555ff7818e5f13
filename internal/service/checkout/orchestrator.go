package checkout

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/backend"
	"storefront/internal/domain"
	"storefront/internal/payment"
	cartsvc "storefront/internal/service/cart"
	couponsvc "storefront/internal/service/coupon"
)

// State names the step a checkout attempt is in when it produces a result
// or fails. The flow is strictly linear.
type State string

const (
	StateValidatingShipping    State = "validating_shipping"
	StateCreatingOrder         State = "creating_order"
	StateCreatingPaymentIntent State = "creating_payment_intent"
	StateConfirmingCard        State = "confirming_card"
	StateConfirmingServerSide  State = "confirming_server_side"
	StatePollingStatus         State = "polling_status"
	StateDone                  State = "done"
	// StatePending means the charge was captured but the order was not
	// seen as paid before polling gave up. Not a failure.
	StatePending State = "pending"
)

// Failure is a user-facing checkout error: one display message and the
// state it happened in. The cart is left untouched. The underlying error
// stays reachable through Unwrap so a rejected token still reads as
// domain.ErrUnauthorized at the HTTP layer.
type Failure struct {
	State   State
	Message string
	Err     error
}

func (f *Failure) Error() string {
	return string(f.State) + ": " + f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

type Input struct {
	Shipping domain.ShippingAddress
	Card     payment.Card
	// AttemptKey deduplicates order creation when the same attempt is
	// resubmitted after a partial failure. Minted here when absent.
	AttemptKey string
}

type Result struct {
	OrderID string `json:"orderId"`
	State   State  `json:"state"`
	Paid    bool   `json:"paid"`
}

type backendAPI interface {
	CreateOrder(ctx context.Context, token, idempotencyKey string, in backend.CreateOrderInput) (string, error)
	CreateIntent(ctx context.Context, token string, in backend.CreateIntentInput) (*domain.PaymentIntent, error)
	ConfirmPayment(ctx context.Context, token string, in backend.ConfirmPaymentInput) error
	MyOrders(ctx context.Context, token string) ([]domain.Order, error)
}

// Orchestrator runs the checkout flow: validate shipping, create the
// remote order, create a payment intent, confirm the card with the
// provider, confirm server-side, clear the cart, then poll the order list
// until the payment flag flips or the attempt budget runs out.
type Orchestrator struct {
	backend        backendAPI
	provider       payment.Provider
	carts          *cartsvc.Service
	coupons        *couponsvc.Service
	billingCountry string
	currency       string
	pollInterval   time.Duration
	pollMax        int
	logger         *log.Logger
}

type Options struct {
	BillingCountry  string
	Currency        string
	PollInterval    time.Duration
	PollMaxAttempts int
}

func New(api backendAPI, provider payment.Provider, carts *cartsvc.Service, coupons *couponsvc.Service, opts Options, logger *log.Logger) *Orchestrator {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 3 * time.Second
	}
	if opts.PollMaxAttempts <= 0 {
		opts.PollMaxAttempts = 40
	}
	if opts.BillingCountry == "" {
		opts.BillingCountry = "MX"
	}
	if opts.Currency == "" {
		opts.Currency = "MXN"
	}
	return &Orchestrator{
		backend:        api,
		provider:       provider,
		carts:          carts,
		coupons:        coupons,
		billingCountry: opts.BillingCountry,
		currency:       opts.Currency,
		pollInterval:   opts.PollInterval,
		pollMax:        opts.PollMaxAttempts,
		logger:         logger,
	}
}

// Run executes one checkout attempt for the identity. On failure the cart
// and coupon are left as they were and the returned *Failure carries the
// single message shown to the shopper. There is no automatic retry at any
// step; a resubmit re-runs the whole flow.
func (o *Orchestrator) Run(ctx context.Context, identity domain.Identity, in Input) (*Result, error) {
	if err := validateShipping(in.Shipping); err != nil {
		return nil, err
	}

	ns := identity.Namespace()
	cart := o.carts.Get(ctx, ns)
	if len(cart.Items) == 0 {
		return nil, &Failure{State: StateValidatingShipping, Message: "your cart is empty"}
	}

	lines := make([]domain.OrderLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, domain.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	attemptKey := in.AttemptKey
	if attemptKey == "" {
		attemptKey = uuid.NewString()
	}

	orderID, err := o.backend.CreateOrder(ctx, identity.Token, attemptKey, backend.CreateOrderInput{
		Items:    lines,
		Shipping: in.Shipping,
	})
	if err != nil {
		o.logger.Printf("checkout create order: %v", err)
		return nil, &Failure{State: StateCreatingOrder, Message: backend.UserMessage(err, "could not create order"), Err: err}
	}

	applied := o.coupons.Applied(ctx, ns)
	totals := o.carts.Totals(cart, couponsvc.Discount(applied, o.carts.Subtotal(cart)))

	intent, err := o.backend.CreateIntent(ctx, identity.Token, backend.CreateIntentInput{
		Amount:   minorUnits(totals.Total),
		Currency: o.currency,
		Items:    lines,
		Contact:  o.contactFor(identity),
	})
	if err != nil {
		o.logger.Printf("checkout create intent: %v", err)
		return nil, &Failure{State: StateCreatingPaymentIntent, Message: backend.UserMessage(err, "could not start payment"), Err: err}
	}

	conf, err := o.provider.ConfirmCardPayment(ctx, intent.ClientSecret, in.Card, o.billingFor(identity, in.Shipping))
	if err != nil {
		o.logger.Printf("checkout confirm card: %v", err)
		return nil, &Failure{State: StateConfirmingCard, Message: providerMessage(err), Err: err}
	}
	if conf.Status != payment.StatusSucceeded {
		return nil, &Failure{State: StateConfirmingCard, Message: "payment was not completed, please try again"}
	}

	// Best effort: the charge is already captured by the provider, so a
	// failed bookkeeping call must not block the shopper.
	if err := o.backend.ConfirmPayment(ctx, identity.Token, backend.ConfirmPaymentInput{
		PaymentIntentID: intent.ID,
		PaymentMethodID: conf.PaymentMethodID,
		OrderID:         orderID,
	}); err != nil {
		o.logger.Printf("checkout server-side confirm (proceeding): %v", err)
	}

	o.carts.Clear(ctx, ns)
	if err := o.coupons.Remove(ctx, ns); err != nil {
		o.logger.Printf("checkout coupon clear: %v", err)
	}

	paid := o.pollUntilPaid(ctx, identity.Token, orderID)
	state := StateDone
	if !paid {
		state = StatePending
	}
	return &Result{OrderID: orderID, State: state, Paid: paid}, nil
}

// pollUntilPaid watches the order list for the paid flag. The loop is
// bounded by the attempt budget and by ctx.
func (o *Orchestrator) pollUntilPaid(ctx context.Context, token, orderID string) bool {
	ticker := time.NewTicker(o.pollInterval)
	defer ticker.Stop()

	for attempt := 0; attempt < o.pollMax; attempt++ {
		orders, err := o.backend.MyOrders(ctx, token)
		if err != nil {
			o.logger.Printf("checkout poll orders: %v", err)
		} else {
			for _, order := range orders {
				if order.ID == orderID && order.Paid {
					return true
				}
			}
		}
		if attempt == o.pollMax-1 {
			break
		}
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
	return false
}

func (o *Orchestrator) contactFor(identity domain.Identity) backend.PaymentContact {
	var contact backend.PaymentContact
	if identity.User != nil {
		contact.Name = strings.TrimSpace(identity.User.FirstName + " " + identity.User.LastName)
		contact.Email = identity.User.Email
	}
	return contact
}

func (o *Orchestrator) billingFor(identity domain.Identity, shipping domain.ShippingAddress) payment.BillingDetails {
	contact := o.contactFor(identity)
	return payment.BillingDetails{
		Name:       contact.Name,
		Email:      contact.Email,
		Line1:      shipping.Address,
		City:       shipping.City,
		State:      shipping.Province,
		PostalCode: shipping.PostalCode,
		Country:    o.billingCountry,
	}
}

func validateShipping(s domain.ShippingAddress) error {
	missing := strings.TrimSpace(s.Address) == "" ||
		strings.TrimSpace(s.City) == "" ||
		strings.TrimSpace(s.Province) == "" ||
		strings.TrimSpace(s.PostalCode) == ""
	if missing {
		return &Failure{State: StateValidatingShipping, Message: "please fill in all shipping fields"}
	}
	return nil
}

func providerMessage(err error) string {
	var provErr *payment.ProviderError
	if errors.As(err, &provErr) {
		if provErr.Declined() {
			return "your payment method was declined, please try a different card"
		}
		return provErr.Message
	}
	return "payment could not be processed"
}

// minorUnits converts a decimal amount to rounded integer cents for the
// payment provider.
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
