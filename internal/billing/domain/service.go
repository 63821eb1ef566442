// Package domain defines the billing core contract: upgrade, downgrade,
// payment source replacement and the current-state view.
package domain

import "context"

// Billing modalities accepted from the upgrade form.
const (
	ModalitySendInvoice         = "send_invoice"
	ModalityChargeAutomatically = "charge_automatically"
)

// Billing schedules accepted from the upgrade form.
const (
	ScheduleAnnual  = "annual"
	ScheduleMonthly = "monthly"
)

// License management strategies accepted from the upgrade form.
const (
	LicensesAutomatic = "automatic"
	LicensesManual    = "manual"
	LicensesMix       = "mix"
)

// UpgradeRequest carries the client-submitted upgrade parameters. Licenses is
// a pointer because absence and zero are different validation failures.
type UpgradeRequest struct {
	BillingModality   string `json:"billing_modality"`
	Schedule          string `json:"schedule"`
	LicenseManagement string `json:"license_management"`
	Licenses          *int64 `json:"licenses,omitempty"`
	PaymentToken      string `json:"payment_token,omitempty"`
	SignedSeatCount   string `json:"signed_seat_count"`
	Salt              string `json:"salt"`
}

// UpgradeQuote is everything the upgrade form needs to render and submit.
type UpgradeQuote struct {
	Email               string  `json:"email"`
	SeatCount           int64   `json:"seat_count"`
	SignedSeatCount     string  `json:"signed_seat_count"`
	Salt                string  `json:"salt"`
	MinInvoicedLicenses int64   `json:"min_invoiced_licenses"`
	InvoiceDaysUntilDue int64   `json:"default_invoice_days_until_due"`
	AnnualPricePerSeat  int64   `json:"annual_price_per_seat"`
	MonthlyPricePerSeat int64   `json:"monthly_price_per_seat"`
	PercentOff          float64 `json:"percent_off"`
	PublishableKey      string  `json:"publishable_key"`
}

// BillingView is the display-relevant billing state for a realm with an
// established billing relationship. Charges and credits are formatted
// amounts, empty when zero.
type BillingView struct {
	PlanName        string `json:"plan_name"`
	Licenses        int64  `json:"licenses"`
	RenewalDate     string `json:"renewal_date"`
	RenewalAmount   string `json:"renewal_amount"`
	PaymentMethod   string `json:"payment_method"`
	BilledByInvoice bool   `json:"billed_by_invoice"`
	AccountCharges  string `json:"account_charges,omitempty"`
	AccountCredits  string `json:"account_credits,omitempty"`
	Email           string `json:"email"`
	PublishableKey  string `json:"publishable_key"`
}

type Service interface {
	Quote(ctx context.Context) (UpgradeQuote, error)
	Upgrade(ctx context.Context, req UpgradeRequest) error
	ReplacePaymentSource(ctx context.Context, paymentToken string) error
	Downgrade(ctx context.Context) error
	CurrentState(ctx context.Context) (BillingView, error)
}
