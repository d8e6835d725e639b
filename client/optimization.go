package client

import (
	"context"
	"net/url"
)

// OptimizationClient wraps the /optimization endpoints. Allocation and
// credit optimization run server-side; this client only drives the two-step
// suggestion wizard: create a suggestion, review it, then accept it into a
// return package (or decline it).
type OptimizationClient struct {
	client *Client
}

// Recommendation is a server-computed pointer at an inventory item worth
// returning now.
type Recommendation struct {
	ID                     string
	InventoryItemID        string
	NDC                    string
	Description            string
	EstimatedCredit        float64
	ReverseDistributorID   string
	ReverseDistributorName string
	Reason                 string
}

type wireRecommendation struct {
	ID                     string  `json:"id"`
	InventoryItemID        string  `json:"inventory_item_id"`
	NDC                    string  `json:"ndc"`
	Description            string  `json:"description"`
	EstimatedCredit        float64 `json:"estimated_credit"`
	ReverseDistributorID   string  `json:"reverse_distributor_id"`
	ReverseDistributorName string  `json:"reverse_distributor_name"`
	Reason                 string  `json:"reason"`
}

func (w wireRecommendation) toRecommendation() Recommendation {
	return Recommendation{
		ID:                     w.ID,
		InventoryItemID:        w.InventoryItemID,
		NDC:                    w.NDC,
		Description:            w.Description,
		EstimatedCredit:        w.EstimatedCredit,
		ReverseDistributorID:   w.ReverseDistributorID,
		ReverseDistributorName: orDefault(w.ReverseDistributorName, "Unknown Distributor"),
		Reason:                 w.Reason,
	}
}

// SuggestionItem is one allocated line inside a suggestion.
type SuggestionItem struct {
	InventoryItemID string
	NDC             string
	Description     string
	Quantity        int
	EstimatedCredit float64
}

type wireSuggestionItem struct {
	InventoryItemID string  `json:"inventory_item_id"`
	NDC             string  `json:"ndc"`
	Description     string  `json:"description"`
	Quantity        int     `json:"quantity"`
	EstimatedCredit float64 `json:"estimated_credit"`
}

// Suggestion is a server-computed allocation of inventory items to a reverse
// distributor, awaiting the pharmacy's accept/decline.
type Suggestion struct {
	ID                     string
	Status                 string
	Items                  []SuggestionItem
	EstimatedCredit        float64
	ReverseDistributorID   string
	ReverseDistributorName string
	CreatedAt              string
}

type wireSuggestion struct {
	ID                     string               `json:"id"`
	Status                 string               `json:"status"`
	Items                  []wireSuggestionItem `json:"items"`
	EstimatedCredit        float64              `json:"estimated_credit"`
	ReverseDistributorID   string               `json:"reverse_distributor_id"`
	ReverseDistributorName string               `json:"reverse_distributor_name"`
	CreatedAt              string               `json:"created_at"`
}

func (w wireSuggestion) toSuggestion() Suggestion {
	items := make([]SuggestionItem, 0, len(w.Items))
	for _, it := range w.Items {
		items = append(items, SuggestionItem{
			InventoryItemID: it.InventoryItemID,
			NDC:             it.NDC,
			Description:     it.Description,
			Quantity:        it.Quantity,
			EstimatedCredit: it.EstimatedCredit,
		})
	}
	return Suggestion{
		ID:                     w.ID,
		Status:                 orDefault(w.Status, "pending"),
		Items:                  items,
		EstimatedCredit:        w.EstimatedCredit,
		ReverseDistributorID:   w.ReverseDistributorID,
		ReverseDistributorName: orDefault(w.ReverseDistributorName, "Unknown Distributor"),
		CreatedAt:              w.CreatedAt,
	}
}

// Recommendations returns the current return recommendations.
func (o *OptimizationClient) Recommendations(ctx context.Context) ([]Recommendation, error) {
	env, err := o.client.get(ctx, "/optimization/recommendations", nil)
	if err != nil {
		return nil, err
	}

	wires, err := decodeData[[]wireRecommendation](env, "optimization.recommendations", "Failed to load recommendations")
	if err != nil {
		return nil, err
	}

	recs := make([]Recommendation, 0, len(wires))
	for _, w := range wires {
		recs = append(recs, w.toRecommendation())
	}
	return recs, nil
}

// CreateSuggestionRequest asks the server to allocate the given inventory
// items. An empty list lets the server pick across the whole inventory.
type CreateSuggestionRequest struct {
	InventoryItemIDs []string `json:"inventory_item_ids,omitempty"`
}

// CreateSuggestion starts the wizard: the server computes an allocation and
// returns it for review.
func (o *OptimizationClient) CreateSuggestion(ctx context.Context, req CreateSuggestionRequest) (*Suggestion, error) {
	env, err := o.client.post(ctx, "/optimization/suggestions", req)
	if err != nil {
		return nil, err
	}
	return o.decodeSuggestion(env, "optimization.createSuggestion", "Failed to create suggestion")
}

// Suggestion returns a suggestion by id.
func (o *OptimizationClient) Suggestion(ctx context.Context, id string) (*Suggestion, error) {
	env, err := o.client.get(ctx, "/optimization/suggestions/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return o.decodeSuggestion(env, "optimization.suggestion", "Failed to load suggestion")
}

// AcceptSuggestion completes the wizard: the server turns the suggestion
// into a return package and returns it.
func (o *OptimizationClient) AcceptSuggestion(ctx context.Context, id string) (*Package, error) {
	env, err := o.client.post(ctx, "/optimization/packages", map[string]string{"suggestion_id": id})
	if err != nil {
		return nil, err
	}

	w, err := decodeData[wirePackage](env, "optimization.acceptSuggestion", "Failed to accept suggestion")
	if err != nil {
		return nil, err
	}
	pkg := w.toPackage()
	return &pkg, nil
}

// DeclineSuggestion discards a suggestion.
func (o *OptimizationClient) DeclineSuggestion(ctx context.Context, id string) error {
	env, err := o.client.post(ctx, "/optimization/suggestions/"+url.PathEscape(id)+"/decline", nil)
	if err != nil {
		return err
	}
	return checkEnvelope(env, "optimization.declineSuggestion", "Failed to decline suggestion")
}

func (o *OptimizationClient) decodeSuggestion(env *Envelope, op, fallback string) (*Suggestion, error) {
	w, err := decodeData[wireSuggestion](env, op, fallback)
	if err != nil {
		return nil, err
	}
	s := w.toSuggestion()
	return &s, nil
}
