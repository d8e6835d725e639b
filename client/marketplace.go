package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// MarketplaceClient wraps the /marketplace endpoints: deals offered by
// reverse distributors, the cart, and placed orders.
//
// Cart mutations each carry a fresh idempotency key so the backend can
// detect replays, but concurrent mutations are neither coalesced nor
// sequenced client-side: the last response to resolve wins.
type MarketplaceClient struct {
	client *Client
}

// Deal is a marketplace offer for a product the pharmacy can return.
type Deal struct {
	ID                     string
	NDC                    string
	Description            string
	Category               string
	CreditRate             float64
	MinQuantity            int
	ReverseDistributorID   string
	ReverseDistributorName string
	ExpiresAt              string
}

type wireDeal struct {
	ID                     string  `json:"id"`
	NDC                    string  `json:"ndc"`
	Description            string  `json:"description"`
	Category               string  `json:"category"`
	CreditRate             float64 `json:"credit_rate"`
	MinQuantity            int     `json:"min_quantity"`
	ReverseDistributorID   string  `json:"reverse_distributor_id"`
	ReverseDistributorName string  `json:"reverse_distributor_name"`
	ExpiresAt              string  `json:"expires_at"`
}

func (w wireDeal) toDeal() Deal {
	return Deal{
		ID:                     w.ID,
		NDC:                    w.NDC,
		Description:            w.Description,
		Category:               orDefault(w.Category, "general"),
		CreditRate:             w.CreditRate,
		MinQuantity:            w.MinQuantity,
		ReverseDistributorID:   w.ReverseDistributorID,
		ReverseDistributorName: orDefault(w.ReverseDistributorName, "Unknown Distributor"),
		ExpiresAt:              w.ExpiresAt,
	}
}

// DealPage is a page of deals plus the server-side total.
type DealPage struct {
	Deals []Deal
	Total int
}

// DealListOptions filter the deal list. Zero values are omitted.
type DealListOptions struct {
	Search   string
	Category string
	Page     int
	Limit    int
}

func (o DealListOptions) values() url.Values {
	q := url.Values{}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	if o.Category != "" {
		q.Set("category", o.Category)
	}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	return q
}

// CartItem is one line in the cart.
type CartItem struct {
	ID          string
	DealID      string
	NDC         string
	Description string
	Quantity    int
	CreditRate  float64
	Subtotal    float64
}

type wireCartItem struct {
	ID          string  `json:"id"`
	DealID      string  `json:"deal_id"`
	NDC         string  `json:"ndc"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	CreditRate  float64 `json:"credit_rate"`
	Subtotal    float64 `json:"subtotal"`
}

// Cart is the current cart contents.
type Cart struct {
	Items           []CartItem
	EstimatedCredit float64
}

type wireCart struct {
	Items           []wireCartItem `json:"items"`
	EstimatedCredit float64        `json:"estimated_credit"`
}

func (w wireCart) toCart() Cart {
	items := make([]CartItem, 0, len(w.Items))
	for _, it := range w.Items {
		items = append(items, CartItem{
			ID:          it.ID,
			DealID:      it.DealID,
			NDC:         it.NDC,
			Description: it.Description,
			Quantity:    it.Quantity,
			CreditRate:  it.CreditRate,
			Subtotal:    it.Subtotal,
		})
	}
	return Cart{Items: items, EstimatedCredit: w.EstimatedCredit}
}

// Order is a placed marketplace order.
type Order struct {
	ID          string
	Status      string
	ItemCount   int
	TotalCredit float64
	PlacedAt    string
	CompletedAt string
}

type wireOrder struct {
	ID          string  `json:"id"`
	Status      string  `json:"status"`
	ItemCount   int     `json:"item_count"`
	TotalCredit float64 `json:"total_credit"`
	PlacedAt    string  `json:"placed_at"`
	CompletedAt string  `json:"completed_at"`
}

func (w wireOrder) toOrder() Order {
	return Order{
		ID:          w.ID,
		Status:      orDefault(w.Status, "pending"),
		ItemCount:   w.ItemCount,
		TotalCredit: w.TotalCredit,
		PlacedAt:    w.PlacedAt,
		CompletedAt: w.CompletedAt,
	}
}

// OrderPage is a page of orders plus the server-side total.
type OrderPage struct {
	Orders []Order
	Total  int
}

// OrderListOptions filter the order list. Zero values are omitted.
type OrderListOptions struct {
	Status string
	Page   int
	Limit  int
}

func (o OrderListOptions) values() url.Values {
	q := url.Values{}
	if o.Status != "" {
		q.Set("status", o.Status)
	}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	return q
}

// CheckoutSession points the caller at the external payment flow.
type CheckoutSession struct {
	OrderID     string
	CheckoutURL string
}

type wireCheckoutSession struct {
	OrderID     string `json:"order_id"`
	CheckoutURL string `json:"checkout_url"`
}

// Deals returns a page of marketplace deals.
func (m *MarketplaceClient) Deals(ctx context.Context, opts DealListOptions) (*DealPage, error) {
	env, err := m.client.get(ctx, "/marketplace", opts.values())
	if err != nil {
		return nil, err
	}

	wires, err := decodeData[[]wireDeal](env, "marketplace.deals", "Failed to load marketplace deals")
	if err != nil {
		return nil, err
	}

	deals := make([]Deal, 0, len(wires))
	for _, w := range wires {
		deals = append(deals, w.toDeal())
	}
	return &DealPage{Deals: deals, Total: env.Total}, nil
}

// Cart returns the current cart.
func (m *MarketplaceClient) Cart(ctx context.Context) (*Cart, error) {
	env, err := m.client.get(ctx, "/marketplace/cart", nil)
	if err != nil {
		return nil, err
	}
	return m.decodeCart(env, "marketplace.cart", "Failed to load cart")
}

// AddToCart adds a deal to the cart and returns the updated cart.
func (m *MarketplaceClient) AddToCart(ctx context.Context, dealID string, quantity int) (*Cart, error) {
	env, err := m.client.do(ctx, request{
		method:  http.MethodPost,
		path:    "/marketplace/cart",
		body:    map[string]any{"deal_id": dealID, "quantity": quantity},
		headers: idempotencyHeader(),
	})
	if err != nil {
		return nil, err
	}
	return m.decodeCart(env, "marketplace.addToCart", "Failed to add item to cart")
}

// UpdateCartItem changes a cart line's quantity and returns the updated cart.
func (m *MarketplaceClient) UpdateCartItem(ctx context.Context, itemID string, quantity int) (*Cart, error) {
	env, err := m.client.do(ctx, request{
		method:  http.MethodPatch,
		path:    "/marketplace/cart/" + url.PathEscape(itemID),
		body:    map[string]int{"quantity": quantity},
		headers: idempotencyHeader(),
	})
	if err != nil {
		return nil, err
	}
	return m.decodeCart(env, "marketplace.updateCartItem", "Failed to update cart item")
}

// RemoveCartItem removes a cart line and returns the updated cart.
func (m *MarketplaceClient) RemoveCartItem(ctx context.Context, itemID string) (*Cart, error) {
	env, err := m.client.do(ctx, request{
		method:  http.MethodDelete,
		path:    "/marketplace/cart/" + url.PathEscape(itemID),
		headers: idempotencyHeader(),
	})
	if err != nil {
		return nil, err
	}
	return m.decodeCart(env, "marketplace.removeCartItem", "Failed to remove cart item")
}

// ClearCart empties the cart.
func (m *MarketplaceClient) ClearCart(ctx context.Context) error {
	env, err := m.client.do(ctx, request{
		method:  http.MethodDelete,
		path:    "/marketplace/cart",
		headers: idempotencyHeader(),
	})
	if err != nil {
		return err
	}
	return checkEnvelope(env, "marketplace.clearCart", "Failed to clear cart")
}

// Checkout turns the cart into an order and returns the payment redirect.
func (m *MarketplaceClient) Checkout(ctx context.Context) (*CheckoutSession, error) {
	env, err := m.client.post(ctx, "/marketplace/orders", nil)
	if err != nil {
		return nil, err
	}

	w, err := decodeData[wireCheckoutSession](env, "marketplace.checkout", "Failed to start checkout")
	if err != nil {
		return nil, err
	}
	return &CheckoutSession{OrderID: w.OrderID, CheckoutURL: w.CheckoutURL}, nil
}

// Orders returns a page of placed orders.
func (m *MarketplaceClient) Orders(ctx context.Context, opts OrderListOptions) (*OrderPage, error) {
	env, err := m.client.get(ctx, "/marketplace/orders", opts.values())
	if err != nil {
		return nil, err
	}

	wires, err := decodeData[[]wireOrder](env, "marketplace.orders", "Failed to load orders")
	if err != nil {
		return nil, err
	}

	orders := make([]Order, 0, len(wires))
	for _, w := range wires {
		orders = append(orders, w.toOrder())
	}
	return &OrderPage{Orders: orders, Total: env.Total}, nil
}

// Order returns a single order by id.
func (m *MarketplaceClient) Order(ctx context.Context, id string) (*Order, error) {
	env, err := m.client.get(ctx, "/marketplace/orders/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	w, err := decodeData[wireOrder](env, "marketplace.order", "Failed to load order")
	if err != nil {
		return nil, err
	}
	order := w.toOrder()
	return &order, nil
}

func (m *MarketplaceClient) decodeCart(env *Envelope, op, fallback string) (*Cart, error) {
	w, err := decodeData[wireCart](env, op, fallback)
	if err != nil {
		return nil, err
	}
	cart := w.toCart()
	return &cart, nil
}
