// Package domain contains the billing identity records: the Customer bound to
// a realm and its current CustomerPlan.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Customer links a realm to its processor-side customer. At most one Customer
// exists per realm; the unique index on realm_id is also the serialization
// point for concurrent upgrade attempts.
type Customer struct {
	ID                     snowflake.ID `gorm:"primaryKey" json:"id"`
	RealmID                snowflake.ID `gorm:"not null;uniqueIndex" json:"realm_id"`
	ProviderCustomerID     string       `gorm:"not null" json:"provider_customer_id"`
	DefaultDiscount        *float64     `gorm:"" json:"default_discount,omitempty"`
	HasBillingRelationship bool         `gorm:"not null;default:false" json:"has_billing_relationship"`
	CreatedAt              time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt              time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

// PlanStatus is the lifecycle state of a CustomerPlan. The free tier is the
// absence of an active plan, not a status of its own.
type PlanStatus string

const (
	PlanStatusActive PlanStatus = "ACTIVE"
	PlanStatusEnded  PlanStatus = "ENDED"
)

// CustomerPlan is the active subscription instance for a customer.
type CustomerPlan struct {
	ID                     snowflake.ID `gorm:"primaryKey" json:"id"`
	CustomerID             snowflake.ID `gorm:"not null;index" json:"customer_id"`
	ProviderSubscriptionID string       `gorm:"not null" json:"provider_subscription_id"`
	Schedule               string       `gorm:"type:text;not null" json:"schedule"`
	BillingModality        string       `gorm:"type:text;not null" json:"billing_modality"`
	Licenses               int64        `gorm:"not null" json:"licenses"`
	Status                 PlanStatus   `gorm:"type:text;not null" json:"status"`
	CurrentPeriodEnd       *time.Time   `gorm:"" json:"current_period_end,omitempty"`
	EndedAt                *time.Time   `gorm:"" json:"ended_at,omitempty"`
	CreatedAt              time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt              time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (CustomerPlan) TableName() string { return "customer_plans" }

var (
	ErrInvalidRealm = errors.New("invalid_realm")
	ErrNotFound     = errors.New("not_found")
)
