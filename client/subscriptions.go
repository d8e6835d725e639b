package client

import "context"

// SubscriptionsClient wraps the /subscriptions endpoints: the pharmacy's
// platform plan and billing.
type SubscriptionsClient struct {
	client *Client
}

// Subscription is the pharmacy's current plan.
type Subscription struct {
	ID                string
	PlanID            string
	PlanName          string
	Status            string
	RenewsAt          string
	CancelAtPeriodEnd bool
}

type wireSubscription struct {
	ID                string `json:"id"`
	PlanID            string `json:"plan_id"`
	PlanName          string `json:"plan_name"`
	Status            string `json:"status"`
	RenewsAt          string `json:"renews_at"`
	CancelAtPeriodEnd bool   `json:"cancel_at_period_end"`
}

func (w wireSubscription) toSubscription() Subscription {
	return Subscription{
		ID:                w.ID,
		PlanID:            w.PlanID,
		PlanName:          orDefault(w.PlanName, "Free"),
		Status:            orDefault(w.Status, "active"),
		RenewsAt:          w.RenewsAt,
		CancelAtPeriodEnd: w.CancelAtPeriodEnd,
	}
}

// Plan is one subscription tier.
type Plan struct {
	ID           string
	Name         string
	PriceMonthly float64
	Features     []string
}

type wirePlan struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	PriceMonthly float64  `json:"price_monthly"`
	Features     []string `json:"features"`
}

// Current returns the active subscription.
func (s *SubscriptionsClient) Current(ctx context.Context) (*Subscription, error) {
	env, err := s.client.get(ctx, "/subscriptions/current", nil)
	if err != nil {
		return nil, err
	}
	return s.decodeSubscription(env, "subscriptions.current", "Failed to load subscription")
}

// Plans returns the available tiers.
func (s *SubscriptionsClient) Plans(ctx context.Context) ([]Plan, error) {
	env, err := s.client.get(ctx, "/subscriptions/plans", nil)
	if err != nil {
		return nil, err
	}

	wires, err := decodeData[[]wirePlan](env, "subscriptions.plans", "Failed to load plans")
	if err != nil {
		return nil, err
	}

	plans := make([]Plan, 0, len(wires))
	for _, w := range wires {
		plans = append(plans, Plan{
			ID:           w.ID,
			Name:         w.Name,
			PriceMonthly: w.PriceMonthly,
			Features:     w.Features,
		})
	}
	return plans, nil
}

// CreateCheckout starts a plan change through the external payment flow.
func (s *SubscriptionsClient) CreateCheckout(ctx context.Context, planID string) (*CheckoutSession, error) {
	env, err := s.client.post(ctx, "/subscriptions/checkout", map[string]string{"plan_id": planID})
	if err != nil {
		return nil, err
	}

	w, err := decodeData[wireCheckoutSession](env, "subscriptions.createCheckout", "Failed to start subscription checkout")
	if err != nil {
		return nil, err
	}
	return &CheckoutSession{OrderID: w.OrderID, CheckoutURL: w.CheckoutURL}, nil
}

// Cancel cancels the subscription at period end and returns the updated
// record.
func (s *SubscriptionsClient) Cancel(ctx context.Context) (*Subscription, error) {
	env, err := s.client.post(ctx, "/subscriptions/cancel", nil)
	if err != nil {
		return nil, err
	}
	return s.decodeSubscription(env, "subscriptions.cancel", "Failed to cancel subscription")
}

// decodeSubscription is shared by Current and Cancel.
func (s *SubscriptionsClient) decodeSubscription(env *Envelope, op, fallback string) (*Subscription, error) {
	w, err := decodeData[wireSubscription](env, op, fallback)
	if err != nil {
		return nil, err
	}
	sub := w.toSubscription()
	return &sub, nil
}
