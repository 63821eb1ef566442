package domain

import "errors"

// Stable machine-readable billing error codes. These are part of the API
// contract; clients key retry/display behavior off them.
const (
	CodeTamperedSeatCount        = "tampered_seat_count"
	CodeExpiredSeatCount         = "expired_seat_count"
	CodeUnknownBillingModality   = "unknown_billing_modality"
	CodeUnknownSchedule          = "unknown_schedule"
	CodeUnknownLicenseManagement = "unknown_license_management"
	CodeMissingPaymentMethod     = "missing_payment_method"
	CodeInsufficientLicenses     = "insufficient_licenses"
	CodeNoBillingRelationship    = "no_billing_relationship"
	CodeCardDeclined             = "card_declined"
	CodeContactSupport           = "contact_support"
)

// Error is a user-triggered billing failure. Message is safe to show to the
// client; Description carries internal detail for the log record only.
type Error struct {
	Code        string
	Message     string
	Description string
}

func (e *Error) Error() string { return e.Code }

func NewError(code, message, description string) *Error {
	return &Error{Code: code, Message: message, Description: description}
}

// Routing sentinels. These are not failures: the HTTP layer turns them into
// redirects between the upgrade flow and the billing page.
var (
	ErrAlreadySubscribed = errors.New("already_subscribed")
	ErrUpgradeRequired   = errors.New("upgrade_required")
)

// ErrInvalidActor means no authenticated actor was resolved for the request.
var ErrInvalidActor = errors.New("invalid_actor")
