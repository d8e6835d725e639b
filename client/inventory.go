package client

import (
	"context"
	"net/url"
	"strconv"
)

// InventoryClient wraps the /inventory endpoints: the pharmacy's returnable
// stock as extracted from documents or entered by hand.
type InventoryClient struct {
	client *Client
}

// InventoryItem is the client-side shape of one stock line. NDC is an opaque
// product identifier passed through unvalidated.
type InventoryItem struct {
	ID             string
	NDC            string
	Description    string
	Manufacturer   string
	Quantity       int
	LotNumber      string
	ExpirationDate string
	EstimatedValue float64
	Status         string
	SourceDocument string
}

type wireInventoryItem struct {
	ID             string  `json:"id"`
	NDC            string  `json:"ndc"`
	Description    string  `json:"description"`
	Manufacturer   string  `json:"manufacturer"`
	Quantity       int     `json:"quantity"`
	LotNumber      string  `json:"lot_number"`
	ExpirationDate string  `json:"expiration_date"`
	EstimatedValue float64 `json:"estimated_value"`
	Status         string  `json:"status"`
	SourceDocument string  `json:"source_document"`
}

func (w wireInventoryItem) toItem() InventoryItem {
	return InventoryItem{
		ID:             w.ID,
		NDC:            w.NDC,
		Description:    w.Description,
		Manufacturer:   orDefault(w.Manufacturer, "Unknown Manufacturer"),
		Quantity:       w.Quantity,
		LotNumber:      w.LotNumber,
		ExpirationDate: w.ExpirationDate,
		EstimatedValue: w.EstimatedValue,
		Status:         orDefault(w.Status, "active"),
		SourceDocument: w.SourceDocument,
	}
}

// InventoryPage is a page of items plus the server-side total.
type InventoryPage struct {
	Items []InventoryItem
	Total int
}

// InventoryMetrics is the /inventory/metrics rollup.
type InventoryMetrics struct {
	TotalItems     int
	EstimatedValue float64
	ExpiringSoon   int
	Expired        int
}

type wireInventoryMetrics struct {
	TotalItems     int     `json:"total_items"`
	EstimatedValue float64 `json:"estimated_value"`
	ExpiringSoon   int     `json:"expiring_soon"`
	Expired        int     `json:"expired"`
}

// InventoryListOptions filter the inventory list. Zero values are omitted.
type InventoryListOptions struct {
	Search             string
	Status             string
	ExpiringWithinDays int
	Page               int
	Limit              int
}

func (o InventoryListOptions) values() url.Values {
	q := url.Values{}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	if o.Status != "" {
		q.Set("status", o.Status)
	}
	if o.ExpiringWithinDays > 0 {
		q.Set("expiring_within_days", strconv.Itoa(o.ExpiringWithinDays))
	}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	return q
}

// List returns a page of inventory items.
func (i *InventoryClient) List(ctx context.Context, opts InventoryListOptions) (*InventoryPage, error) {
	env, err := i.client.get(ctx, "/inventory", opts.values())
	if err != nil {
		return nil, err
	}

	wires, err := decodeData[[]wireInventoryItem](env, "inventory.list", "Failed to load inventory")
	if err != nil {
		return nil, err
	}

	items := make([]InventoryItem, 0, len(wires))
	for _, w := range wires {
		items = append(items, w.toItem())
	}
	return &InventoryPage{Items: items, Total: env.Total}, nil
}

// Metrics returns the inventory rollup.
func (i *InventoryClient) Metrics(ctx context.Context) (*InventoryMetrics, error) {
	env, err := i.client.get(ctx, "/inventory/metrics", nil)
	if err != nil {
		return nil, err
	}

	w, err := decodeData[wireInventoryMetrics](env, "inventory.metrics", "Failed to load inventory metrics")
	if err != nil {
		return nil, err
	}
	return &InventoryMetrics{
		TotalItems:     w.TotalItems,
		EstimatedValue: w.EstimatedValue,
		ExpiringSoon:   w.ExpiringSoon,
		Expired:        w.Expired,
	}, nil
}

// InventoryItemPatch updates a subset of an item's fields. Nil fields are
// left untouched server-side.
type InventoryItemPatch struct {
	Quantity       *int     `json:"quantity,omitempty"`
	LotNumber      *string  `json:"lot_number,omitempty"`
	ExpirationDate *string  `json:"expiration_date,omitempty"`
	EstimatedValue *float64 `json:"estimated_value,omitempty"`
	Status         *string  `json:"status,omitempty"`
}

// Update patches an inventory item and returns the updated record.
func (i *InventoryClient) Update(ctx context.Context, id string, patch InventoryItemPatch) (*InventoryItem, error) {
	env, err := i.client.patch(ctx, "/inventory/"+url.PathEscape(id), patch)
	if err != nil {
		return nil, err
	}

	w, err := decodeData[wireInventoryItem](env, "inventory.update", "Failed to update inventory item")
	if err != nil {
		return nil, err
	}
	item := w.toItem()
	return &item, nil
}

// Delete removes an inventory item by id.
func (i *InventoryClient) Delete(ctx context.Context, id string) error {
	env, err := i.client.delete(ctx, "/inventory/"+url.PathEscape(id))
	if err != nil {
		return err
	}
	return checkEnvelope(env, "inventory.delete", "Failed to delete inventory item")
}
