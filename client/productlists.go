package client

import (
	"context"
	"net/url"
)

// ProductListsClient wraps the /product-lists endpoints: named lists of
// products the pharmacy returns regularly, convertible into a cart.
type ProductListsClient struct {
	client *Client
}

// ProductListItem is one line in a product list.
type ProductListItem struct {
	ID          string
	NDC         string
	Description string
	Quantity    int
}

type wireProductListItem struct {
	ID          string `json:"id"`
	NDC         string `json:"ndc"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

// ProductList is a named, reusable list of products.
type ProductList struct {
	ID        string
	Name      string
	Items     []ProductListItem
	UpdatedAt string
}

type wireProductList struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Items     []wireProductListItem `json:"items"`
	UpdatedAt string                `json:"updated_at"`
}

func (w wireProductList) toList() ProductList {
	items := make([]ProductListItem, 0, len(w.Items))
	for _, it := range w.Items {
		items = append(items, ProductListItem{
			ID:          it.ID,
			NDC:         it.NDC,
			Description: it.Description,
			Quantity:    it.Quantity,
		})
	}
	return ProductList{
		ID:        w.ID,
		Name:      orDefault(w.Name, "Untitled List"),
		Items:     items,
		UpdatedAt: w.UpdatedAt,
	}
}

// List returns all product lists.
func (p *ProductListsClient) List(ctx context.Context) ([]ProductList, error) {
	env, err := p.client.get(ctx, "/product-lists", nil)
	if err != nil {
		return nil, err
	}

	wires, err := decodeData[[]wireProductList](env, "productLists.list", "Failed to load product lists")
	if err != nil {
		return nil, err
	}

	lists := make([]ProductList, 0, len(wires))
	for _, w := range wires {
		lists = append(lists, w.toList())
	}
	return lists, nil
}

// Create creates an empty named list.
func (p *ProductListsClient) Create(ctx context.Context, name string) (*ProductList, error) {
	env, err := p.client.post(ctx, "/product-lists", map[string]string{"name": name})
	if err != nil {
		return nil, err
	}
	return p.decodeList(env, "productLists.create", "Failed to create product list")
}

// Get returns a list by id.
func (p *ProductListsClient) Get(ctx context.Context, id string) (*ProductList, error) {
	env, err := p.client.get(ctx, "/product-lists/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return p.decodeList(env, "productLists.get", "Failed to load product list")
}

// Rename changes a list's name.
func (p *ProductListsClient) Rename(ctx context.Context, id, name string) (*ProductList, error) {
	env, err := p.client.patch(ctx, "/product-lists/"+url.PathEscape(id), map[string]string{"name": name})
	if err != nil {
		return nil, err
	}
	return p.decodeList(env, "productLists.rename", "Failed to rename product list")
}

// Delete removes a list by id.
func (p *ProductListsClient) Delete(ctx context.Context, id string) error {
	env, err := p.client.delete(ctx, "/product-lists/"+url.PathEscape(id))
	if err != nil {
		return err
	}
	return checkEnvelope(env, "productLists.delete", "Failed to delete product list")
}

// AddListItemRequest adds a product to a list.
type AddListItemRequest struct {
	NDC         string `json:"ndc"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
}

// AddItem appends a product to a list and returns the updated list.
func (p *ProductListsClient) AddItem(ctx context.Context, listID string, req AddListItemRequest) (*ProductList, error) {
	env, err := p.client.post(ctx, "/product-lists/"+url.PathEscape(listID)+"/items", req)
	if err != nil {
		return nil, err
	}
	return p.decodeList(env, "productLists.addItem", "Failed to add item to product list")
}

// RemoveItem removes a line from a list and returns the updated list.
func (p *ProductListsClient) RemoveItem(ctx context.Context, listID, itemID string) (*ProductList, error) {
	env, err := p.client.delete(ctx, "/product-lists/"+url.PathEscape(listID)+"/items/"+url.PathEscape(itemID))
	if err != nil {
		return nil, err
	}
	return p.decodeList(env, "productLists.removeItem", "Failed to remove item from product list")
}

// ConvertToCart pushes the list's items into the marketplace cart.
func (p *ProductListsClient) ConvertToCart(ctx context.Context, listID string) (*Cart, error) {
	env, err := p.client.post(ctx, "/product-lists/"+url.PathEscape(listID)+"/convert", nil)
	if err != nil {
		return nil, err
	}

	w, err := decodeData[wireCart](env, "productLists.convertToCart", "Failed to convert list to cart")
	if err != nil {
		return nil, err
	}
	cart := w.toCart()
	return &cart, nil
}

func (p *ProductListsClient) decodeList(env *Envelope, op, fallback string) (*ProductList, error) {
	w, err := decodeData[wireProductList](env, op, fallback)
	if err != nil {
		return nil, err
	}
	list := w.toList()
	return &list, nil
}
