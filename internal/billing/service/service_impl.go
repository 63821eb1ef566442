package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/smallbiznis/seatwise/internal/billing/domain"
	"github.com/smallbiznis/seatwise/internal/clock"
	"github.com/smallbiznis/seatwise/internal/config"
	customerdomain "github.com/smallbiznis/seatwise/internal/customer/domain"
	"github.com/smallbiznis/seatwise/internal/metrics"
	paymentsdomain "github.com/smallbiznis/seatwise/internal/payments/domain"
	plandomain "github.com/smallbiznis/seatwise/internal/plan/domain"
	"github.com/smallbiznis/seatwise/internal/realmcontext"
	"github.com/smallbiznis/seatwise/internal/seatcount"
	"github.com/smallbiznis/seatwise/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	appCfg   config.Config
	cfg      *config.BillingConfigHolder
	signer   *seatcount.Signer
	recorder *metrics.Recorder

	customerRepo customerdomain.Repository
	planRepo     plandomain.Repository
	gateway      paymentsdomain.Gateway
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock

	AppCfg   config.Config
	Cfg      *config.BillingConfigHolder
	Signer   *seatcount.Signer
	Recorder *metrics.Recorder

	CustomerRepo customerdomain.Repository
	PlanRepo     plandomain.Repository
	Gateway      paymentsdomain.Gateway
}

func NewService(p ServiceParam) billingdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("billing.service"),
		genID: p.GenID,
		clock: p.Clock,

		appCfg:   p.AppCfg,
		cfg:      p.Cfg,
		signer:   p.Signer,
		recorder: p.Recorder,

		customerRepo: p.CustomerRepo,
		planRepo:     p.PlanRepo,
		gateway:      p.Gateway,
	}
}

// Quote implements domain.Service.
func (s *Service) Quote(ctx context.Context) (billingdomain.UpgradeQuote, error) {
	actor, ok := realmcontext.ActorFromContext(ctx)
	if !ok {
		return billingdomain.UpgradeQuote{}, billingdomain.ErrInvalidActor
	}

	customer, err := s.customerRepo.FindByRealmID(ctx, s.db, actor.RealmID)
	if err != nil {
		return billingdomain.UpgradeQuote{}, err
	}
	if customer != nil && customer.HasBillingRelationship {
		return billingdomain.UpgradeQuote{}, billingdomain.ErrAlreadySubscribed
	}

	issued, err := s.signer.Issue(ctx, actor.RealmID)
	if err != nil {
		return billingdomain.UpgradeQuote{}, err
	}

	percentOff := 0.0
	if customer != nil && customer.DefaultDiscount != nil {
		percentOff = *customer.DefaultDiscount
	}

	cfg := s.cfg.Get()
	minInvoiced := issued.Count
	if cfg.MinInvoicedLicenses > minInvoiced {
		minInvoiced = cfg.MinInvoicedLicenses
	}

	return billingdomain.UpgradeQuote{
		Email:               actor.Email,
		SeatCount:           issued.Count,
		SignedSeatCount:     issued.Signed,
		Salt:                issued.Salt,
		MinInvoicedLicenses: minInvoiced,
		InvoiceDaysUntilDue: cfg.InvoiceDaysUntilDue,
		AnnualPricePerSeat:  cfg.AnnualPricePerSeat,
		MonthlyPricePerSeat: cfg.MonthlyPricePerSeat,
		PercentOff:          percentOff,
		PublishableKey:      s.appCfg.StripePublishableKey,
	}, nil
}

// Upgrade implements domain.Service. The processor call happens before local
// persistence: the processor is the billing source of truth, and a local
// write failure can be reconciled from it later.
func (s *Service) Upgrade(ctx context.Context, req billingdomain.UpgradeRequest) error {
	actor, ok := realmcontext.ActorFromContext(ctx)
	if !ok {
		return billingdomain.ErrInvalidActor
	}

	customer, err := s.customerRepo.FindByRealmID(ctx, s.db, actor.RealmID)
	if err != nil {
		return err
	}
	if customer != nil && customer.HasBillingRelationship {
		// Retried or concurrent upgrade; the first one won.
		return billingdomain.ErrAlreadySubscribed
	}

	seatCount, err := s.signer.Verify(req.SignedSeatCount, req.Salt)
	if err != nil {
		return s.classifySeatCountErr(err)
	}

	params := normalizeUpgrade(upgradeParams{
		billingModality:   strings.TrimSpace(req.BillingModality),
		schedule:          strings.TrimSpace(req.Schedule),
		licenseManagement: strings.TrimSpace(req.LicenseManagement),
		licenses:          req.Licenses,
		hasPaymentToken:   req.PaymentToken != "",
		seatCount:         seatCount,
	})
	cfg := s.cfg.Get()
	if vErr := validateUpgrade(params, cfg.MinInvoicedLicenses); vErr != nil {
		s.recorder.RecordBillingError(vErr.Code)
		return vErr
	}
	licenses := *params.licenses

	plan, err := s.planRepo.FindBySchedule(ctx, s.db, plandomain.BillingSchedule(params.schedule))
	if err != nil {
		return err
	}
	if plan == nil {
		return fmt.Errorf("no plan configured for schedule %s", params.schedule)
	}

	providerCustomerID, err := s.ensureProviderCustomer(ctx, actor, customer, req.PaymentToken)
	if err != nil {
		return s.classifyGatewayErr(err)
	}

	mode := paymentsdomain.CollectChargeAutomatically
	if params.billingModality == billingdomain.ModalitySendInvoice {
		mode = paymentsdomain.CollectSendInvoice
	}
	sub, err := s.gateway.CreateSubscription(ctx, paymentsdomain.CreateSubscriptionRequest{
		CustomerID:     providerCustomerID,
		PriceID:        plan.ProviderPriceID,
		Quantity:       licenses,
		CollectionMode: mode,
		DaysUntilDue:   cfg.InvoiceDaysUntilDue,
	})
	if err != nil {
		return s.classifyGatewayErr(err)
	}

	if err := s.persistUpgrade(ctx, actor, customer, providerCustomerID, sub, params, licenses); err != nil {
		return err
	}

	s.recorder.RecordUpgrade(params.schedule)
	s.log.Info("upgrade completed",
		zap.String("realm_id", actor.RealmID.String()),
		zap.String("schedule", params.schedule),
		zap.String("billing_modality", params.billingModality),
		zap.Int64("licenses", licenses),
	)
	return nil
}

// ensureProviderCustomer returns the processor customer to subscribe,
// creating one on first upgrade or refreshing the payment source on a retry.
func (s *Service) ensureProviderCustomer(ctx context.Context, actor realmcontext.Actor, customer *customerdomain.Customer, paymentToken string) (string, error) {
	if customer == nil {
		created, err := s.gateway.CreateCustomer(ctx, paymentsdomain.CreateCustomerRequest{
			Email:        actor.Email,
			Description:  fmt.Sprintf("realm %s", actor.RealmID.String()),
			PaymentToken: paymentToken,
		})
		if err != nil {
			return "", err
		}
		return created.ID, nil
	}

	if paymentToken != "" {
		if err := s.gateway.ReplaceDefaultSource(ctx, customer.ProviderCustomerID, paymentToken); err != nil {
			return "", err
		}
	}
	return customer.ProviderCustomerID, nil
}

// persistUpgrade records the completed upgrade. The subscription already
// exists at the processor at this point; a failure here is logged in full
// so the record can be reconciled by hand.
func (s *Service) persistUpgrade(ctx context.Context, actor realmcontext.Actor, customer *customerdomain.Customer, providerCustomerID string, sub paymentsdomain.Subscription, params upgradeParams, licenses int64) error {
	now := s.clock.Now()
	periodEnd := sub.CurrentPeriodEnd

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customerID := snowflake.ID(0)
		if customer == nil {
			record := &customerdomain.Customer{
				ID:                     s.genID.Generate(),
				RealmID:                actor.RealmID,
				ProviderCustomerID:     providerCustomerID,
				HasBillingRelationship: true,
				CreatedAt:              now,
				UpdatedAt:              now,
			}
			if err := s.customerRepo.Insert(ctx, tx, record); err != nil {
				return err
			}
			customerID = record.ID
		} else {
			if err := s.customerRepo.SetBillingRelationship(ctx, tx, customer.ID, true); err != nil {
				return err
			}
			customerID = customer.ID
		}

		return s.customerRepo.InsertPlan(ctx, tx, &customerdomain.CustomerPlan{
			ID:                     s.genID.Generate(),
			CustomerID:             customerID,
			ProviderSubscriptionID: sub.ID,
			Schedule:               params.schedule,
			BillingModality:        params.billingModality,
			Licenses:               licenses,
			Status:                 customerdomain.PlanStatusActive,
			CurrentPeriodEnd:       &periodEnd,
			CreatedAt:              now,
			UpdatedAt:              now,
		})
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			// A concurrent upgrade inserted the customer row first.
			s.log.Warn("concurrent upgrade detected",
				zap.String("realm_id", actor.RealmID.String()),
				zap.String("provider_subscription_id", sub.ID),
			)
			return billingdomain.ErrAlreadySubscribed
		}
		s.log.Error("upgrade persisted at processor but not locally",
			zap.String("realm_id", actor.RealmID.String()),
			zap.String("provider_customer_id", providerCustomerID),
			zap.String("provider_subscription_id", sub.ID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// ReplacePaymentSource implements domain.Service. Local state is never
// mutated here; the default source lives at the processor.
func (s *Service) ReplacePaymentSource(ctx context.Context, paymentToken string) error {
	actor, ok := realmcontext.ActorFromContext(ctx)
	if !ok {
		return billingdomain.ErrInvalidActor
	}

	customer, err := s.customerRepo.FindByRealmID(ctx, s.db, actor.RealmID)
	if err != nil {
		return err
	}
	if customer == nil || !customer.HasBillingRelationship {
		err := billingdomain.NewError(billingdomain.CodeNoBillingRelationship,
			"No billing account found for this organization.",
			"replace payment source without billing relationship")
		s.recorder.RecordBillingError(err.Code)
		return err
	}

	if err := s.gateway.ReplaceDefaultSource(ctx, customer.ProviderCustomerID, paymentToken); err != nil {
		return s.classifyGatewayErr(err)
	}

	s.recorder.RecordSourceReplacement()
	s.log.Info("payment source replaced", zap.String("realm_id", actor.RealmID.String()))
	return nil
}

// Downgrade implements domain.Service. Downgrading a realm with no active
// plan is a no-op success, so retried downgrades stay idempotent.
func (s *Service) Downgrade(ctx context.Context) error {
	actor, ok := realmcontext.ActorFromContext(ctx)
	if !ok {
		return billingdomain.ErrInvalidActor
	}

	customer, err := s.customerRepo.FindByRealmID(ctx, s.db, actor.RealmID)
	if err != nil {
		return err
	}
	if customer == nil {
		return nil
	}

	active, err := s.customerRepo.FindActivePlan(ctx, s.db, customer.ID)
	if err != nil {
		return err
	}
	if active == nil {
		s.log.Info("downgrade with no active plan", zap.String("realm_id", actor.RealmID.String()))
		return nil
	}

	if err := s.gateway.CancelSubscription(ctx, active.ProviderSubscriptionID); err != nil {
		return s.classifyGatewayErr(err)
	}

	if err := s.customerRepo.EndPlan(ctx, s.db, active.ID, s.clock.Now()); err != nil {
		s.log.Error("subscription canceled at processor but plan still active locally",
			zap.String("realm_id", actor.RealmID.String()),
			zap.String("provider_subscription_id", active.ProviderSubscriptionID),
			zap.Error(err),
		)
		return err
	}

	s.recorder.RecordDowngrade()
	s.log.Info("downgrade completed", zap.String("realm_id", actor.RealmID.String()))
	return nil
}

// CurrentState implements domain.Service.
func (s *Service) CurrentState(ctx context.Context) (billingdomain.BillingView, error) {
	actor, ok := realmcontext.ActorFromContext(ctx)
	if !ok {
		return billingdomain.BillingView{}, billingdomain.ErrInvalidActor
	}

	customer, err := s.customerRepo.FindByRealmID(ctx, s.db, actor.RealmID)
	if err != nil {
		return billingdomain.BillingView{}, err
	}
	if customer == nil || !customer.HasBillingRelationship {
		return billingdomain.BillingView{}, billingdomain.ErrUpgradeRequired
	}

	snap, err := s.gateway.GetCustomer(ctx, customer.ProviderCustomerID)
	if err != nil {
		return billingdomain.BillingView{}, s.classifyGatewayErr(err)
	}

	cfg := s.cfg.Get()
	view := billingdomain.BillingView{
		PlanName:       cfg.FreePlanName,
		Licenses:       0,
		RenewalDate:    "",
		RenewalAmount:  formatAmount(0),
		Email:          snap.Email,
		PublishableKey: s.appCfg.StripePublishableKey,
	}

	if snap.Subscription != nil {
		sub := snap.Subscription

		plan, err := s.planRepo.FindByProviderPriceID(ctx, s.db, sub.PriceID)
		if err != nil {
			return billingdomain.BillingView{}, err
		}
		if plan == nil {
			return billingdomain.BillingView{}, fmt.Errorf("no plan reference for provider price %s", sub.PriceID)
		}

		total, err := s.gateway.UpcomingInvoiceTotal(ctx, customer.ProviderCustomerID)
		if err != nil {
			return billingdomain.BillingView{}, s.classifyGatewayErr(err)
		}

		view.PlanName = plan.DisplayName
		view.Licenses = sub.Quantity
		view.RenewalDate = sub.CurrentPeriodEnd.Format("January 2, 2006")
		view.RenewalAmount = formatAmount(total)
		view.BilledByInvoice = sub.CollectionMode == paymentsdomain.CollectSendInvoice
	}

	if snap.Balance > 0 {
		view.AccountCharges = formatAmount(snap.Balance)
	}
	if snap.Balance < 0 {
		view.AccountCredits = formatAmount(-snap.Balance)
	}

	view.PaymentMethod = paymentMethodString(snap, cfg.SupportContact)
	return view, nil
}

// paymentMethodString resolves the display description by priority: invoiced
// subscriptions always read as invoiced, then the default source variant.
func paymentMethodString(snap paymentsdomain.Customer, supportContact string) string {
	if snap.Subscription != nil && snap.Subscription.CollectionMode == paymentsdomain.CollectSendInvoice {
		return "Billed by invoice"
	}
	switch snap.DefaultSource.Kind {
	case paymentsdomain.SourceAbsent:
		return "No payment method on file"
	case paymentsdomain.SourceCard:
		return fmt.Sprintf("Card ending in %s", snap.DefaultSource.CardLast4)
	default:
		return fmt.Sprintf("Unknown payment method. Please contact %s.", supportContact)
	}
}

func (s *Service) classifySeatCountErr(err error) error {
	switch {
	case errors.Is(err, seatcount.ErrTampered):
		bErr := billingdomain.NewError(billingdomain.CodeTamperedSeatCount,
			"Something went wrong. Please contact support.",
			"tampered seat count")
		s.recorder.RecordBillingError(bErr.Code)
		return bErr
	case errors.Is(err, seatcount.ErrExpired):
		bErr := billingdomain.NewError(billingdomain.CodeExpiredSeatCount,
			"Your quote has expired. Please reload the page and try again.",
			"expired seat count token")
		s.recorder.RecordBillingError(bErr.Code)
		return bErr
	default:
		return err
	}
}

func (s *Service) classifyGatewayErr(err error) error {
	if errors.Is(err, paymentsdomain.ErrCardDeclined) {
		bErr := billingdomain.NewError(billingdomain.CodeCardDeclined,
			"Your card was declined. Please try a different payment method.",
			"processor rejected the card")
		s.recorder.RecordBillingError(bErr.Code)
		return bErr
	}

	var pErr *paymentsdomain.ProcessorError
	if errors.As(err, &pErr) {
		bErr := billingdomain.NewError(billingdomain.CodeContactSupport,
			fmt.Sprintf("Something went wrong. Please contact %s.", s.cfg.Get().SupportContact),
			pErr.Error())
		s.recorder.RecordBillingError(bErr.Code)
		return bErr
	}
	return err
}

// formatAmount renders cents as a grouped decimal amount, e.g. 123456789 ->
// "1,234,567.89".
func formatAmount(cents int64) string {
	negative := cents < 0
	if negative {
		cents = -cents
	}

	whole := strconv.FormatInt(cents/100, 10)
	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	lead := len(whole) % 3
	if lead > 0 {
		b.WriteString(whole[:lead])
		if len(whole) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(whole); i += 3 {
		b.WriteString(whole[i : i+3])
		if i+3 < len(whole) {
			b.WriteByte(',')
		}
	}
	fmt.Fprintf(&b, ".%02d", cents%100)
	return b.String()
}
