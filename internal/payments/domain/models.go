// Package domain defines the payment processor boundary. The rest of the
// service only sees these types; processor-specific shapes stay inside the
// gateway implementation.
package domain

import "time"

// CollectionMode mirrors how the processor collects payment.
type CollectionMode string

const (
	CollectSendInvoice         CollectionMode = "send_invoice"
	CollectChargeAutomatically CollectionMode = "charge_automatically"
)

// SourceKind is the closed set of payment source shapes we recognize. The
// processor's raw type string is resolved into this once, when the snapshot
// is parsed.
type SourceKind int

const (
	SourceAbsent SourceKind = iota
	SourceCard
	SourceGeneric
)

// PaymentSource is the customer's default payment source.
type PaymentSource struct {
	Kind      SourceKind
	CardLast4 string
}

// Subscription is the processor-side subscription snapshot.
type Subscription struct {
	ID               string
	PriceID          string
	Quantity         int64
	CollectionMode   CollectionMode
	CurrentPeriodEnd time.Time
}

// Customer is the processor-side customer snapshot. Balance is in the
// smallest currency unit; positive means the customer owes, negative is
// credit.
type Customer struct {
	ID            string
	Email         string
	Balance       int64
	DefaultSource PaymentSource
	Subscription  *Subscription
}

// CreateCustomerRequest creates a processor customer, optionally attaching a
// payment token as the default source.
type CreateCustomerRequest struct {
	Email        string
	Description  string
	PaymentToken string
}

// CreateSubscriptionRequest starts a subscription at a price and quantity.
type CreateSubscriptionRequest struct {
	CustomerID     string
	PriceID        string
	Quantity       int64
	CollectionMode CollectionMode
	DaysUntilDue   int64
}
