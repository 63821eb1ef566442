package domain

import (
	"context"
	"errors"
	"fmt"
)

// Gateway is the synchronous payment processor contract. Calls are blocking
// remote calls; once issued they are never cancelled, since an interrupted
// payment action leaves ambiguous state.
type Gateway interface {
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (Customer, error)
	GetCustomer(ctx context.Context, customerID string) (Customer, error)
	ReplaceDefaultSource(ctx context.Context, customerID, paymentToken string) error
	CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
	UpcomingInvoiceTotal(ctx context.Context, customerID string) (int64, error)
}

// ErrCardDeclined marks a card failure the user can act on (declined,
// expired, bad CVC). Anything else from the processor is an opaque
// ProcessorError.
var ErrCardDeclined = errors.New("card_declined")

// ProcessorError wraps an unexpected processor failure. The detail is for
// logs only and must never reach a client.
type ProcessorError struct {
	Op     string
	Detail string
	Err    error
}

func (e *ProcessorError) Error() string {
	return fmt.Sprintf("processor %s failed: %s", e.Op, e.Detail)
}

func (e *ProcessorError) Unwrap() error { return e.Err }
