package payment

import "context"

// PaymentStatus values reported by the provider for a checkout session
const (
	StatusPaid   = "paid"
	StatusUnpaid = "unpaid"
)

// CheckoutParams describes a checkout session to be created
type CheckoutParams struct {
	Amount      int64  // smallest currency unit
	Currency    string // ISO code, e.g. "usd"
	ProductName string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

// CheckoutSession is the provider-side session state this system consumes.
// Metadata carries the pending appointment payload between checkout and
// confirmation; the provider owns it, nothing is persisted locally.
type CheckoutSession struct {
	ID              string
	URL             string
	PaymentStatus   string
	PaymentIntentID string
	Metadata        map[string]string
}

// Provider is the outbound port to the external payment provider
type Provider interface {
	CreateCheckoutSession(ctx context.Context, params *CheckoutParams) (*CheckoutSession, error)
	RetrieveCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error)
}
