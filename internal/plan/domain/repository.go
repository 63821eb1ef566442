package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, plan *Plan) error
	FindBySchedule(ctx context.Context, db *gorm.DB, schedule BillingSchedule) (*Plan, error)
	FindByProviderPriceID(ctx context.Context, db *gorm.DB, providerPriceID string) (*Plan, error)
}
