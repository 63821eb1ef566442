package repository

import (
	"context"

	"github.com/smallbiznis/seatwise/internal/plan/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, plan *domain.Plan) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider_price_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"schedule", "display_name", "per_seat_amount", "updated_at"}),
		}).
		Create(plan).Error
}

func (r *repo) FindBySchedule(ctx context.Context, db *gorm.DB, schedule domain.BillingSchedule) (*domain.Plan, error) {
	var plan domain.Plan
	err := db.WithContext(ctx).Raw(
		`SELECT id, provider_price_id, schedule, display_name, per_seat_amount, created_at, updated_at
		 FROM plans WHERE schedule = ?`,
		schedule,
	).Scan(&plan).Error
	if err != nil {
		return nil, err
	}
	if plan.ID == 0 {
		return nil, nil
	}
	return &plan, nil
}

func (r *repo) FindByProviderPriceID(ctx context.Context, db *gorm.DB, providerPriceID string) (*domain.Plan, error) {
	var plan domain.Plan
	err := db.WithContext(ctx).Raw(
		`SELECT id, provider_price_id, schedule, display_name, per_seat_amount, created_at, updated_at
		 FROM plans WHERE provider_price_id = ?`,
		providerPriceID,
	).Scan(&plan).Error
	if err != nil {
		return nil, err
	}
	if plan.ID == 0 {
		return nil, nil
	}
	return &plan, nil
}
