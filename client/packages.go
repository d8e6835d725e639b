package client

import (
	"context"
	"net/url"
	"strconv"
)

// PackagesClient wraps the /packages endpoints: return packages assembled
// from accepted suggestions, tracked through shipping and processing.
type PackagesClient struct {
	client *Client
}

// Package is a return shipment to a reverse distributor. Status moves
// through preparing, shipped, received, processed.
type Package struct {
	ID                     string
	Status                 string
	ItemCount              int
	EstimatedCredit        float64
	FinalCredit            float64
	ReverseDistributorID   string
	ReverseDistributorName string
	TrackingNumber         string
	CreatedAt              string
	ShippedAt              string
}

type wirePackage struct {
	ID                     string  `json:"id"`
	Status                 string  `json:"status"`
	ItemCount              int     `json:"item_count"`
	EstimatedCredit        float64 `json:"estimated_credit"`
	FinalCredit            float64 `json:"final_credit"`
	ReverseDistributorID   string  `json:"reverse_distributor_id"`
	ReverseDistributorName string  `json:"reverse_distributor_name"`
	TrackingNumber         string  `json:"tracking_number"`
	CreatedAt              string  `json:"created_at"`
	ShippedAt              string  `json:"shipped_at"`
}

func (w wirePackage) toPackage() Package {
	return Package{
		ID:                     w.ID,
		Status:                 orDefault(w.Status, "preparing"),
		ItemCount:              w.ItemCount,
		EstimatedCredit:        w.EstimatedCredit,
		FinalCredit:            w.FinalCredit,
		ReverseDistributorID:   w.ReverseDistributorID,
		ReverseDistributorName: orDefault(w.ReverseDistributorName, "Unknown Distributor"),
		TrackingNumber:         w.TrackingNumber,
		CreatedAt:              w.CreatedAt,
		ShippedAt:              w.ShippedAt,
	}
}

// PackagePage is a page of packages plus the server-side total.
type PackagePage struct {
	Packages []Package
	Total    int
}

// PackageListOptions filter the package list. Zero values are omitted.
type PackageListOptions struct {
	Status string
	Page   int
	Limit  int
}

func (o PackageListOptions) values() url.Values {
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

// ShippingLabel is the prepaid label for a package.
type ShippingLabel struct {
	PackageID      string
	LabelURL       string
	Carrier        string
	TrackingNumber string
}

type wireShippingLabel struct {
	PackageID      string `json:"package_id"`
	LabelURL       string `json:"label_url"`
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"tracking_number"`
}

// List returns a page of return packages.
func (p *PackagesClient) List(ctx context.Context, opts PackageListOptions) (*PackagePage, error) {
	env, err := p.client.get(ctx, "/packages", opts.values())
	if err != nil {
		return nil, err
	}

	wires, err := decodeData[[]wirePackage](env, "packages.list", "Failed to load packages")
	if err != nil {
		return nil, err
	}

	pkgs := make([]Package, 0, len(wires))
	for _, w := range wires {
		pkgs = append(pkgs, w.toPackage())
	}
	return &PackagePage{Packages: pkgs, Total: env.Total}, nil
}

// Get returns a single package by id.
func (p *PackagesClient) Get(ctx context.Context, id string) (*Package, error) {
	env, err := p.client.get(ctx, "/packages/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	w, err := decodeData[wirePackage](env, "packages.get", "Failed to load package")
	if err != nil {
		return nil, err
	}
	pkg := w.toPackage()
	return &pkg, nil
}

// ShippingLabel returns the prepaid shipping label for a package.
func (p *PackagesClient) ShippingLabel(ctx context.Context, id string) (*ShippingLabel, error) {
	env, err := p.client.get(ctx, "/packages/"+url.PathEscape(id)+"/label", nil)
	if err != nil {
		return nil, err
	}

	w, err := decodeData[wireShippingLabel](env, "packages.shippingLabel", "Failed to load shipping label")
	if err != nil {
		return nil, err
	}
	return &ShippingLabel{
		PackageID:      w.PackageID,
		LabelURL:       w.LabelURL,
		Carrier:        w.Carrier,
		TrackingNumber: w.TrackingNumber,
	}, nil
}
