package client

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func cartEnvelope(items ...map[string]any) map[string]any {
	var credit float64
	for _, it := range items {
		if v, ok := it["subtotal"].(float64); ok {
			credit += v
		}
	}
	return map[string]any{
		"status": "success",
		"data":   map[string]any{"items": items, "estimated_credit": credit},
	}
}

func TestAddToCart_SendsIdempotencyKey(t *testing.T) {
	var keys []string
	var gotBody string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get("X-Idempotency-Key"))
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		writeEnvelope(t, w, http.StatusOK, cartEnvelope(
			map[string]any{"id": "ci-1", "deal_id": "deal-1", "quantity": 3.0, "subtotal": 45.0},
		))
	}))

	cart, err := c.Marketplace().AddToCart(context.Background(), "deal-1", 3)
	require.NoError(t, err)

	assert.Equal(t, "deal-1", gjson.Get(gotBody, "deal_id").String())
	assert.Equal(t, int64(3), gjson.Get(gotBody, "quantity").Int())
	require.Len(t, keys, 1)
	assert.NotEmpty(t, keys[0])

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 45.0, cart.EstimatedCredit)

	// A second mutation must carry a different key; mutations are never
	// deduplicated client-side.
	_, err = c.Marketplace().AddToCart(context.Background(), "deal-1", 3)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.NotEqual(t, keys[0], keys[1])
}

func TestUpdateAndRemoveCartItem(t *testing.T) {
	var methods, paths []string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		paths = append(paths, r.URL.Path)
		writeEnvelope(t, w, http.StatusOK, cartEnvelope())
	}))

	_, err := c.Marketplace().UpdateCartItem(context.Background(), "ci-1", 5)
	require.NoError(t, err)
	_, err = c.Marketplace().RemoveCartItem(context.Background(), "ci-1")
	require.NoError(t, err)
	require.NoError(t, c.Marketplace().ClearCart(context.Background()))

	assert.Equal(t, []string{http.MethodPatch, http.MethodDelete, http.MethodDelete}, methods)
	assert.Equal(t, []string{"/marketplace/cart/ci-1", "/marketplace/cart/ci-1", "/marketplace/cart"}, paths)
}

func TestDeals_MapsAndDefaults(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/marketplace", r.URL.Path)
		writeEnvelope(t, w, http.StatusOK, map[string]any{
			"status": "success",
			"data": []map[string]any{{
				"id":          "deal-1",
				"ndc":         "00002-3227-30",
				"description": "Amoxicillin 500mg",
				"credit_rate": 0.45,
			}},
			"total": 1,
		})
	}))

	page, err := c.Marketplace().Deals(context.Background(), DealListOptions{Search: "amox"})
	require.NoError(t, err)

	require.Len(t, page.Deals, 1)
	deal := page.Deals[0]
	assert.Equal(t, "00002-3227-30", deal.NDC)
	assert.Equal(t, "general", deal.Category)
	assert.Equal(t, "Unknown Distributor", deal.ReverseDistributorName)
}

func TestOrders_StatusDefaultsToPending(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusOK, map[string]any{
			"status": "success",
			"data": []map[string]any{
				{"id": "ord-1", "item_count": 2, "total_credit": 120.5},
				{"id": "ord-2", "status": "completed"},
			},
			"total": 2,
		})
	}))

	page, err := c.Marketplace().Orders(context.Background(), OrderListOptions{})
	require.NoError(t, err)

	require.Len(t, page.Orders, 2)
	assert.Equal(t, "pending", page.Orders[0].Status)
	assert.Equal(t, "completed", page.Orders[1].Status)
}

func TestCheckout_ReturnsSession(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/marketplace/orders", r.URL.Path)
		writeEnvelope(t, w, http.StatusOK, map[string]any{
			"status": "success",
			"data": map[string]string{
				"order_id":     "ord-3",
				"checkout_url": "https://pay.example.com/s/abc",
			},
		})
	}))

	session, err := c.Marketplace().Checkout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ord-3", session.OrderID)
	assert.Equal(t, "https://pay.example.com/s/abc", session.CheckoutURL)
}
