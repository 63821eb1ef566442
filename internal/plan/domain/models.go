// Package domain holds the paid plan catalog. Rows are seeded at startup and
// treated as immutable reference data afterwards.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// BillingSchedule is the billing cadence of a plan.
type BillingSchedule string

const (
	ScheduleAnnual  BillingSchedule = "annual"
	ScheduleMonthly BillingSchedule = "monthly"
)

// Plan maps a processor price to a display name and cadence.
type Plan struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id"`
	ProviderPriceID string          `gorm:"not null;uniqueIndex" json:"provider_price_id"`
	Schedule        BillingSchedule `gorm:"type:text;not null" json:"schedule"`
	DisplayName     string          `gorm:"not null" json:"display_name"`
	PerSeatAmount   int64           `gorm:"not null" json:"per_seat_amount"`
	CreatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Plan) TableName() string { return "plans" }

var (
	ErrNotFound        = errors.New("not_found")
	ErrInvalidSchedule = errors.New("invalid_schedule")
)
