package service

import (
	"testing"

	"github.com/smallbiznis/seatwise/internal/billing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func TestNormalizeAutomaticLicensesTrackSeatCount(t *testing.T) {
	p := normalizeUpgrade(upgradeParams{
		billingModality:   domain.ModalityChargeAutomatically,
		schedule:          domain.ScheduleMonthly,
		licenseManagement: domain.LicensesAutomatic,
		licenses:          int64Ptr(3),
		seatCount:         12,
	})

	require.NotNil(t, p.licenses)
	assert.Equal(t, int64(12), *p.licenses)
}

func TestNormalizeInvoicedForcesAnnualManual(t *testing.T) {
	p := normalizeUpgrade(upgradeParams{
		billingModality:   domain.ModalitySendInvoice,
		schedule:          domain.ScheduleMonthly,
		licenseManagement: domain.LicensesAutomatic,
		seatCount:         12,
	})

	assert.Equal(t, domain.ScheduleAnnual, p.schedule)
	assert.Equal(t, domain.LicensesManual, p.licenseManagement)
}

func TestValidateUnknownFields(t *testing.T) {
	base := upgradeParams{
		billingModality:   domain.ModalityChargeAutomatically,
		schedule:          domain.ScheduleAnnual,
		licenseManagement: domain.LicensesManual,
		licenses:          int64Ptr(12),
		hasPaymentToken:   true,
		seatCount:         12,
	}

	p := base
	p.billingModality = "cash"
	err := validateUpgrade(p, 25)
	require.NotNil(t, err)
	assert.Equal(t, domain.CodeUnknownBillingModality, err.Code)

	p = base
	p.schedule = "weekly"
	err = validateUpgrade(p, 25)
	require.NotNil(t, err)
	assert.Equal(t, domain.CodeUnknownSchedule, err.Code)

	p = base
	p.licenseManagement = "psychic"
	err = validateUpgrade(p, 25)
	require.NotNil(t, err)
	assert.Equal(t, domain.CodeUnknownLicenseManagement, err.Code)
}

func TestValidateAutopayRequiresToken(t *testing.T) {
	for _, mgmt := range []string{domain.LicensesAutomatic, domain.LicensesManual, domain.LicensesMix} {
		err := validateUpgrade(upgradeParams{
			billingModality:   domain.ModalityChargeAutomatically,
			schedule:          domain.ScheduleMonthly,
			licenseManagement: mgmt,
			licenses:          int64Ptr(100),
			hasPaymentToken:   false,
			seatCount:         12,
		}, 25)
		require.NotNil(t, err)
		assert.Equal(t, domain.CodeMissingPaymentMethod, err.Code)
	}
}

func TestValidateInvoicedMinimumIsRaised(t *testing.T) {
	// max(12, 25) = 25
	err := validateUpgrade(upgradeParams{
		billingModality:   domain.ModalitySendInvoice,
		schedule:          domain.ScheduleAnnual,
		licenseManagement: domain.LicensesManual,
		licenses:          int64Ptr(5),
		seatCount:         12,
	}, 25)
	require.NotNil(t, err)
	assert.Equal(t, domain.CodeInsufficientLicenses, err.Code)
	assert.Contains(t, err.Message, "25")

	// max(40, 25) = 40
	err = validateUpgrade(upgradeParams{
		billingModality:   domain.ModalitySendInvoice,
		schedule:          domain.ScheduleAnnual,
		licenseManagement: domain.LicensesManual,
		licenses:          int64Ptr(30),
		seatCount:         40,
	}, 25)
	require.NotNil(t, err)
	assert.Equal(t, domain.CodeInsufficientLicenses, err.Code)
	assert.Contains(t, err.Message, "40")
}

func TestValidateLicensesAbsent(t *testing.T) {
	err := validateUpgrade(upgradeParams{
		billingModality:   domain.ModalityChargeAutomatically,
		schedule:          domain.ScheduleMonthly,
		licenseManagement: domain.LicensesManual,
		licenses:          nil,
		hasPaymentToken:   true,
		seatCount:         12,
	}, 25)
	require.NotNil(t, err)
	assert.Equal(t, domain.CodeInsufficientLicenses, err.Code)
	assert.Contains(t, err.Message, "12")
}

func TestValidateAcceptsExactMinimum(t *testing.T) {
	assert.Nil(t, validateUpgrade(upgradeParams{
		billingModality:   domain.ModalityChargeAutomatically,
		schedule:          domain.ScheduleMonthly,
		licenseManagement: domain.LicensesManual,
		licenses:          int64Ptr(12),
		hasPaymentToken:   true,
		seatCount:         12,
	}, 25))

	assert.Nil(t, validateUpgrade(upgradeParams{
		billingModality:   domain.ModalitySendInvoice,
		schedule:          domain.ScheduleAnnual,
		licenseManagement: domain.LicensesManual,
		licenses:          int64Ptr(25),
		seatCount:         12,
	}, 25))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0.00", formatAmount(0))
	assert.Equal(t, "0.05", formatAmount(5))
	assert.Equal(t, "8.00", formatAmount(800))
	assert.Equal(t, "960.00", formatAmount(96000))
	assert.Equal(t, "1,234,567.89", formatAmount(123456789))
	assert.Equal(t, "-12.34", formatAmount(-1234))
}
