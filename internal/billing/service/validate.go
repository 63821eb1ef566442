package service

import (
	"fmt"

	"github.com/smallbiznis/seatwise/internal/billing/domain"
)

type upgradeParams struct {
	billingModality   string
	schedule          string
	licenseManagement string
	licenses          *int64
	hasPaymentToken   bool
	seatCount         int64
}

// normalizeUpgrade applies the server-side overrides before validation runs,
// so a client cannot request inconsistent combinations: automatic license
// management tracks the seat count, and invoiced contracts are always annual
// and manually managed.
func normalizeUpgrade(p upgradeParams) upgradeParams {
	if p.billingModality == domain.ModalityChargeAutomatically && p.licenseManagement == domain.LicensesAutomatic {
		count := p.seatCount
		p.licenses = &count
	}
	if p.billingModality == domain.ModalitySendInvoice {
		p.schedule = domain.ScheduleAnnual
		p.licenseManagement = domain.LicensesManual
	}
	return p
}

// validateUpgrade checks the normalized parameters against business rules.
// It runs before any processor call, so failures here never leave partial
// state behind.
func validateUpgrade(p upgradeParams, minInvoicedLicenses int64) *domain.Error {
	switch p.billingModality {
	case domain.ModalitySendInvoice, domain.ModalityChargeAutomatically:
	default:
		return domain.NewError(domain.CodeUnknownBillingModality,
			"Unknown billing method.",
			fmt.Sprintf("unknown billing_modality %q", p.billingModality))
	}

	switch p.schedule {
	case domain.ScheduleAnnual, domain.ScheduleMonthly:
	default:
		return domain.NewError(domain.CodeUnknownSchedule,
			"Unknown billing schedule.",
			fmt.Sprintf("unknown schedule %q", p.schedule))
	}

	switch p.licenseManagement {
	case domain.LicensesAutomatic, domain.LicensesManual, domain.LicensesMix:
	default:
		return domain.NewError(domain.CodeUnknownLicenseManagement,
			"Unknown license management.",
			fmt.Sprintf("unknown license_management %q", p.licenseManagement))
	}

	if p.billingModality == domain.ModalityChargeAutomatically && !p.hasPaymentToken {
		return domain.NewError(domain.CodeMissingPaymentMethod,
			"Please add a payment method to pay automatically.",
			"autopay requested with no payment token")
	}

	minLicenses := p.seatCount
	if p.billingModality == domain.ModalitySendInvoice && minInvoicedLicenses > minLicenses {
		minLicenses = minInvoicedLicenses
	}
	if p.licenses == nil || *p.licenses < minLicenses {
		return domain.NewError(domain.CodeInsufficientLicenses,
			fmt.Sprintf("You must purchase licenses for at least %d users.", minLicenses),
			fmt.Sprintf("licenses below minimum %d", minLicenses))
	}

	return nil
}
