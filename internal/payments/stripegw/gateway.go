// Package stripegw implements the payments gateway on Stripe.
package stripegw

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/seatwise/internal/config"
	"github.com/smallbiznis/seatwise/internal/payments/domain"
	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/invoice"
	"github.com/stripe/stripe-go/v76/subscription"
	"go.uber.org/zap"
)

type Gateway struct {
	log *zap.Logger
}

func New(cfg config.Config, log *zap.Logger) domain.Gateway {
	stripe.Key = cfg.StripeSecretKey
	return &Gateway{log: log.Named("payments.stripe")}
}

func (g *Gateway) CreateCustomer(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	params := &stripe.CustomerParams{
		Email:       stripe.String(req.Email),
		Description: stripe.String(req.Description),
	}
	params.Context = ctx
	if req.PaymentToken != "" {
		params.Source = stripe.String(req.PaymentToken)
	}

	cust, err := customer.New(params)
	if err != nil {
		return domain.Customer{}, g.classify("create_customer", err)
	}
	return parseCustomer(cust), nil
}

func (g *Gateway) GetCustomer(ctx context.Context, customerID string) (domain.Customer, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	params.AddExpand("default_source")
	params.AddExpand("subscriptions")

	cust, err := customer.Get(customerID, params)
	if err != nil {
		return domain.Customer{}, g.classify("get_customer", err)
	}
	return parseCustomer(cust), nil
}

func (g *Gateway) ReplaceDefaultSource(ctx context.Context, customerID, paymentToken string) error {
	params := &stripe.CustomerParams{
		Source: stripe.String(paymentToken),
	}
	params.Context = ctx

	if _, err := customer.Update(customerID, params); err != nil {
		return g.classify("replace_default_source", err)
	}
	return nil
}

func (g *Gateway) CreateSubscription(ctx context.Context, req domain.CreateSubscriptionRequest) (domain.Subscription, error) {
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(req.CustomerID),
		Items: []*stripe.SubscriptionItemsParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(req.Quantity),
			},
		},
		CollectionMethod: stripe.String(string(req.CollectionMode)),
	}
	params.Context = ctx
	if req.CollectionMode == domain.CollectSendInvoice {
		params.DaysUntilDue = stripe.Int64(req.DaysUntilDue)
	}

	sub, err := subscription.New(params)
	if err != nil {
		return domain.Subscription{}, g.classify("create_subscription", err)
	}

	parsed := parseSubscription(sub)
	if parsed == nil {
		return domain.Subscription{}, &domain.ProcessorError{Op: "create_subscription", Detail: "subscription response has no items"}
	}
	return *parsed, nil
}

func (g *Gateway) CancelSubscription(ctx context.Context, subscriptionID string) error {
	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx

	if _, err := subscription.Cancel(subscriptionID, params); err != nil {
		return g.classify("cancel_subscription", err)
	}
	return nil
}

func (g *Gateway) UpcomingInvoiceTotal(ctx context.Context, customerID string) (int64, error) {
	params := &stripe.InvoiceUpcomingParams{
		Customer: stripe.String(customerID),
	}
	params.Context = ctx

	inv, err := invoice.Upcoming(params)
	if err != nil {
		return 0, g.classify("upcoming_invoice", err)
	}
	return inv.Total, nil
}

// classify logs the raw failure and maps card errors to ErrCardDeclined;
// everything else becomes an opaque ProcessorError.
func (g *Gateway) classify(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		g.log.Warn("stripe call failed",
			zap.String("op", op),
			zap.String("type", string(stripeErr.Type)),
			zap.String("code", string(stripeErr.Code)),
		)
		if stripeErr.Type == stripe.ErrorTypeCard {
			return domain.ErrCardDeclined
		}
		return &domain.ProcessorError{Op: op, Detail: string(stripeErr.Code), Err: err}
	}

	g.log.Error("stripe call failed", zap.String("op", op), zap.Error(err))
	return &domain.ProcessorError{Op: op, Detail: "transport error", Err: err}
}

func parseCustomer(cust *stripe.Customer) domain.Customer {
	parsed := domain.Customer{
		ID:            cust.ID,
		Email:         cust.Email,
		Balance:       cust.Balance,
		DefaultSource: parseSource(cust.DefaultSource),
	}
	if cust.Subscriptions != nil {
		for _, sub := range cust.Subscriptions.Data {
			if sub.Status == stripe.SubscriptionStatusCanceled {
				continue
			}
			parsed.Subscription = parseSubscription(sub)
			break
		}
	}
	return parsed
}

func parseSubscription(sub *stripe.Subscription) *domain.Subscription {
	if sub == nil || sub.Items == nil || len(sub.Items.Data) == 0 {
		return nil
	}
	item := sub.Items.Data[0]

	mode := domain.CollectChargeAutomatically
	if sub.CollectionMethod == stripe.SubscriptionCollectionMethodSendInvoice {
		mode = domain.CollectSendInvoice
	}

	parsed := &domain.Subscription{
		ID:             sub.ID,
		Quantity:       item.Quantity,
		CollectionMode: mode,
	}
	if item.Price != nil {
		parsed.PriceID = item.Price.ID
	}
	if sub.CurrentPeriodEnd > 0 {
		parsed.CurrentPeriodEnd = timeFromUnix(sub.CurrentPeriodEnd)
	}
	return parsed
}

func timeFromUnix(ts int64) time.Time {
	return time.Unix(ts, 0).UTC()
}

func parseSource(source *stripe.PaymentSource) domain.PaymentSource {
	if source == nil {
		return domain.PaymentSource{Kind: domain.SourceAbsent}
	}
	if source.Type == stripe.PaymentSourceTypeCard && source.Card != nil {
		return domain.PaymentSource{Kind: domain.SourceCard, CardLast4: source.Card.Last4}
	}
	return domain.PaymentSource{Kind: domain.SourceGeneric}
}
