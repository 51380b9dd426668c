package domain

// CheckoutLine carries the product id and quantity of one cart line. Prices
// are deliberately absent from the request; the backend's catalog is
// authoritative for pricing.
type CheckoutLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CheckoutRequest is the order payload submitted to the backend. The
// idempotency key travels as a header, not in the body: retries of the same
// submission must present the same key so the backend replays the committed
// outcome instead of placing a second order.
type CheckoutRequest struct {
	Lines []CheckoutLine `json:"lines"`

	IdempotencyKey string `json:"-"`
}

// NewCheckoutRequest derives the order payload from a cart snapshot.
func NewCheckoutRequest(snapshot Snapshot) CheckoutRequest {
	lines := make([]CheckoutLine, len(snapshot.Lines))
	for i, line := range snapshot.Lines {
		lines[i] = CheckoutLine{ProductID: line.ProductID, Quantity: line.Quantity}
	}
	return CheckoutRequest{Lines: lines}
}

// RejectionReason explains why the backend refused a specific line. The set
// is open: a backend may introduce reasons this client does not know, and the
// cart treats them all the same way.
type RejectionReason string

const (
	ReasonOutOfStock   RejectionReason = "out_of_stock"
	ReasonPriceChanged RejectionReason = "price_changed"
	ReasonNotFound     RejectionReason = "not_found"
)

// RejectedLine names one cart line the backend refused and why.
type RejectedLine struct {
	ProductID string          `json:"product_id"`
	Reason    RejectionReason `json:"reason"`
}

// CheckoutResponse is the backend's structured answer to a checkout request:
// either an order id, or the set of refused lines.
type CheckoutResponse struct {
	OrderID  string         `json:"order_id"`
	Rejected []RejectedLine `json:"rejected"`
}

// Confirmation is the successful outcome of a submission.
type Confirmation struct {
	OrderID string
}
