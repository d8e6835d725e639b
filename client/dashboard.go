package client

import (
	"context"
	"net/url"
	"strconv"
)

// DashboardClient wraps the /dashboard endpoints.
type DashboardClient struct {
	client *Client
}

// DashboardSummary is the home-screen rollup of the pharmacy's return
// activity.
type DashboardSummary struct {
	PendingEarnings     float64
	PaidEarnings        float64
	CreditsInProcessing float64
	TotalItems          int
	ActivePackages      int
	ExpiringItems       int
}

type wireDashboardSummary struct {
	PendingEarnings     float64 `json:"pending_earnings"`
	PaidEarnings        float64 `json:"paid_earnings"`
	CreditsInProcessing float64 `json:"credits_in_processing"`
	TotalItems          int     `json:"total_items"`
	ActivePackages      int     `json:"active_packages"`
	ExpiringItems       int     `json:"expiring_items"`
}

func (w wireDashboardSummary) toSummary() DashboardSummary {
	return DashboardSummary{
		PendingEarnings:     w.PendingEarnings,
		PaidEarnings:        w.PaidEarnings,
		CreditsInProcessing: w.CreditsInProcessing,
		TotalItems:          w.TotalItems,
		ActivePackages:      w.ActivePackages,
		ExpiringItems:       w.ExpiringItems,
	}
}

// EarningsEntry is one settlement line in the earnings history.
type EarningsEntry struct {
	ID        string
	Period    string
	Amount    float64
	Status    string
	PackageID string
	PaidAt    string
}

type wireEarningsEntry struct {
	ID        string  `json:"id"`
	Period    string  `json:"period"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
	PackageID string  `json:"package_id"`
	PaidAt    string  `json:"paid_at"`
}

func (w wireEarningsEntry) toEntry() EarningsEntry {
	return EarningsEntry{
		ID:        w.ID,
		Period:    w.Period,
		Amount:    w.Amount,
		Status:    orDefault(w.Status, "pending"),
		PackageID: w.PackageID,
		PaidAt:    w.PaidAt,
	}
}

// EarningsHistory is a page of earnings entries plus the server-side total.
type EarningsHistory struct {
	Entries []EarningsEntry
	Total   int
}

// EarningsHistoryOptions filter the earnings history. Zero values are omitted.
type EarningsHistoryOptions struct {
	Period string // e.g. "2026-08" or "last_90_days"
	Page   int
	Limit  int
}

func (o EarningsHistoryOptions) values() url.Values {
	q := url.Values{}
	if o.Period != "" {
		q.Set("period", o.Period)
	}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	return q
}

// Summary returns the dashboard rollup.
func (d *DashboardClient) Summary(ctx context.Context) (*DashboardSummary, error) {
	env, err := d.client.get(ctx, "/dashboard/summary", nil)
	if err != nil {
		return nil, err
	}

	w, err := decodeData[wireDashboardSummary](env, "dashboard.summary", "Failed to load dashboard")
	if err != nil {
		return nil, err
	}
	summary := w.toSummary()
	return &summary, nil
}

// EarningsHistory returns past settlements.
func (d *DashboardClient) EarningsHistory(ctx context.Context, opts EarningsHistoryOptions) (*EarningsHistory, error) {
	env, err := d.client.get(ctx, "/dashboard/earnings/history", opts.values())
	if err != nil {
		return nil, err
	}

	wires, err := decodeData[[]wireEarningsEntry](env, "dashboard.earningsHistory", "Failed to load earnings history")
	if err != nil {
		return nil, err
	}

	entries := make([]EarningsEntry, 0, len(wires))
	for _, w := range wires {
		entries = append(entries, w.toEntry())
	}
	return &EarningsHistory{Entries: entries, Total: env.Total}, nil
}
