package checkout

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/shopfront/backend-shopfront/internal/catalog"
	"github.com/shopfront/backend-shopfront/internal/common"
	"github.com/shopfront/backend-shopfront/internal/events"
	"github.com/shopfront/backend-shopfront/internal/obs"
	"github.com/shopfront/backend-shopfront/internal/order"
	"github.com/shopfront/backend-shopfront/internal/pricing"
	"github.com/shopfront/backend-shopfront/internal/promo"
)

// Line is one cart entry submitted by the shopper.
type Line struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// CartInput is the shared payload for quoting and placing an order.
type CartInput struct {
	Items     []Line `json:"items"`
	PromoCode string `json:"promoCode"`
}

// Quote is the priced preview of a cart before an order exists.
type Quote struct {
	Items     []order.Item    `json:"items"`
	Summary   pricing.Summary `json:"summary"`
	PromoCode string          `json:"promoCode,omitempty"`
	Currency  string          `json:"currency"`
}

// ProductResolver resolves product ids to catalog records.
type ProductResolver interface {
	ResolveByIDs(ctx context.Context, ids []string) (map[string]catalog.Product, error)
}

// RuleSource loads the current promo rule set.
type RuleSource interface {
	Load(ctx context.Context) ([]promo.Rule, error)
}

// PlaceInput extends the cart payload with an optional address choice.
// When AddressID is empty the shopper's default address is used.
type PlaceInput struct {
	CartInput
	AddressID string `json:"addressId"`
}

// AddressSource supplies shipping addresses for a shopper. The ok result
// is false when no matching address exists.
type AddressSource interface {
	DefaultAddress(ctx context.Context, userID string) (order.ShippingAddress, bool, error)
	AddressByID(ctx context.Context, userID, addressID string) (order.ShippingAddress, bool, error)
}

// OrderStore persists assembled orders.
type OrderStore interface {
	Create(ctx context.Context, o order.Order) (order.Order, error)
}

// Sequencer reserves the next order number.
type Sequencer interface {
	Next(ctx context.Context) (string, error)
}

// EmailSource looks up the shopper's email for confirmation events.
type EmailSource interface {
	EmailFor(ctx context.Context, userID string) (string, error)
}

// Service assembles orders: it resolves the cart against the catalog,
// evaluates the promo code, prices the result, and only then reserves an
// order number and persists the pending order.
type Service struct {
	Catalog   ProductResolver
	Rules     RuleSource
	Addresses AddressSource
	Orders    OrderStore
	Seq       Sequencer
	Events    *events.Bus
	Emails    EmailSource

	FlatShippingRate pricing.Money
	Currency         string
}

func (s *Service) currency() string {
	if s.Currency == "" {
		return "USD"
	}
	return s.Currency
}

// price resolves and prices the cart. It is the shared validation path
// for Quote and Place; nothing here has side effects.
func (s *Service) price(ctx context.Context, in CartInput) ([]order.Item, pricing.Summary, string, error) {
	lines := normalizeLines(in.Items)
	if len(lines) == 0 {
		obs.CheckoutRejectedTotal.WithLabelValues("empty_cart").Inc()
		return nil, pricing.Summary{}, "", common.NewAppError(
			"EMPTY_CART", "cart has no items", http.StatusBadRequest, nil)
	}

	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	products, err := s.Catalog.ResolveByIDs(ctx, ids)
	if err != nil {
		return nil, pricing.Summary{}, "", err
	}
	// All-or-nothing: a single unknown or inactive product rejects the
	// whole cart, so the shopper never pays a partially priced order.
	var missing []string
	for _, l := range lines {
		if _, ok := products[l.ProductID]; !ok {
			missing = append(missing, l.ProductID)
		}
	}
	if len(missing) > 0 {
		obs.CheckoutRejectedTotal.WithLabelValues("unresolved_product").Inc()
		return nil, pricing.Summary{}, "", common.NewAppError(
			"UNRESOLVED_PRODUCT", "one or more products could not be resolved",
			http.StatusUnprocessableEntity, nil).WithDetails(map[string]any{"productIds": missing})
	}

	items := make([]order.Item, 0, len(lines))
	pricingItems := make([]pricing.Item, 0, len(lines))
	for _, l := range lines {
		p := products[l.ProductID]
		items = append(items, order.Item{
			ProductID: p.ID,
			Title:     p.Title,
			Qty:       l.Qty,
			UnitPrice: p.Price,
		})
		pricingItems = append(pricingItems, pricing.Item{Qty: l.Qty, UnitPrice: p.Price})
	}
	subtotal := pricing.Subtotal(pricingItems)
	baseline := pricing.ShippingFee(subtotal, s.FlatShippingRate)

	rules, err := s.Rules.Load(ctx)
	if err != nil {
		return nil, pricing.Summary{}, "", err
	}
	app, err := promo.Apply(subtotal, baseline, in.PromoCode, rules)
	if err != nil {
		return nil, pricing.Summary{}, "", mapPromoError(err)
	}
	if app.Code != "" {
		obs.PromoAppliedTotal.WithLabelValues("success").Inc()
	}
	shipping := baseline
	if app.ShippingOverride != nil {
		shipping = *app.ShippingOverride
	}
	summary := pricing.Compute(pricingItems, app.Discount, shipping)
	return items, summary, app.Code, nil
}

// Quote prices a cart without touching the order number sequence.
func (s *Service) Quote(ctx context.Context, in CartInput) (Quote, error) {
	items, summary, code, err := s.price(ctx, in)
	if err != nil {
		return Quote{}, err
	}
	return Quote{Items: items, Summary: summary, PromoCode: code, Currency: s.currency()}, nil
}

// Place assembles and persists a pending order for the user. The order
// number is reserved only after every validation gate has passed, so a
// rejected checkout never consumes a number.
func (s *Service) Place(ctx context.Context, userID string, in PlaceInput) (order.Order, error) {
	items, summary, code, err := s.price(ctx, in.CartInput)
	if err != nil {
		return order.Order{}, err
	}

	var (
		addr order.ShippingAddress
		ok   bool
	)
	if in.AddressID != "" {
		addr, ok, err = s.Addresses.AddressByID(ctx, userID, in.AddressID)
	} else {
		addr, ok, err = s.Addresses.DefaultAddress(ctx, userID)
	}
	if err != nil {
		return order.Order{}, err
	}
	if !ok {
		obs.CheckoutRejectedTotal.WithLabelValues("no_address").Inc()
		return order.Order{}, common.NewAppError(
			"NO_ADDRESS", "a shipping address is required", http.StatusBadRequest, nil)
	}

	number, err := s.Seq.Next(ctx)
	if err != nil {
		return order.Order{}, err
	}
	created, err := s.Orders.Create(ctx, order.Order{
		Number:     number,
		UserID:     userID,
		Status:     order.StatusPending,
		Items:      items,
		Subtotal:   summary.Subtotal,
		Discount:   summary.Discount,
		Shipping:   summary.Shipping,
		Total:      summary.Total,
		Currency:   s.currency(),
		PromoCode:  code,
		ShippingTo: addr,
	})
	if err != nil {
		return order.Order{}, err
	}

	obs.OrdersPlacedTotal.Inc()
	obs.OrderValueCents.Observe(float64(created.Total))
	if s.Events != nil {
		payload := map[string]any{
			"orderId": created.ID,
			"number":  created.Number,
			"total":   created.Total,
			"userId":  created.UserID,
		}
		if s.Emails != nil {
			if email, err := s.Emails.EmailFor(ctx, userID); err == nil && email != "" {
				payload["email"] = email
			}
		}
		// Best effort: the order stands even if a notifier fails.
		_, _ = s.Events.Emit(ctx, events.TopicOrderCreated, created.ID, payload)
	}
	return created, nil
}

// normalizeLines drops blank product ids and clamps quantities to at
// least one.
func normalizeLines(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		l.ProductID = strings.TrimSpace(l.ProductID)
		if l.ProductID == "" {
			continue
		}
		if l.Qty < 1 {
			l.Qty = 1
		}
		out = append(out, l)
	}
	return out
}

func mapPromoError(err error) error {
	var minErr *promo.MinSubtotalError
	if errors.As(err, &minErr) {
		obs.PromoAppliedTotal.WithLabelValues("min_subtotal").Inc()
		return common.NewAppError(
			"MIN_SUBTOTAL_NOT_MET", minErr.Error(), http.StatusUnprocessableEntity, err).
			WithDetails(map[string]any{
				"code":        minErr.Code,
				"minSubtotal": minErr.Required,
			})
	}
	if errors.Is(err, promo.ErrInvalidCode) {
		obs.PromoAppliedTotal.WithLabelValues("invalid").Inc()
		return common.NewAppError(
			"INVALID_PROMO_CODE", "promo code is not valid", http.StatusUnprocessableEntity, err)
	}
	return err
}
