package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/seatwise/internal/customer/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Create(customer).Error
}

func (r *repo) FindByRealmID(ctx context.Context, db *gorm.DB, realmID snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT id, realm_id, provider_customer_id, default_discount, has_billing_relationship, created_at, updated_at
		 FROM customers WHERE realm_id = ?`,
		realmID,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) SetBillingRelationship(ctx context.Context, db *gorm.DB, id snowflake.ID, established bool) error {
	return db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"has_billing_relationship": established,
			"updated_at":               time.Now().UTC(),
		}).Error
}

func (r *repo) InsertPlan(ctx context.Context, db *gorm.DB, plan *domain.CustomerPlan) error {
	return db.WithContext(ctx).Create(plan).Error
}

func (r *repo) FindActivePlan(ctx context.Context, db *gorm.DB, customerID snowflake.ID) (*domain.CustomerPlan, error) {
	var plan domain.CustomerPlan
	err := db.WithContext(ctx).Raw(
		`SELECT id, customer_id, provider_subscription_id, schedule, billing_modality, licenses, status,
		        current_period_end, ended_at, created_at, updated_at
		 FROM customer_plans WHERE customer_id = ? AND status = ?`,
		customerID,
		domain.PlanStatusActive,
	).Scan(&plan).Error
	if err != nil {
		return nil, err
	}
	if plan.ID == 0 {
		return nil, nil
	}
	return &plan, nil
}

func (r *repo) EndPlan(ctx context.Context, db *gorm.DB, id snowflake.ID, endedAt time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.CustomerPlan{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     domain.PlanStatusEnded,
			"ended_at":   endedAt,
			"updated_at": endedAt,
		}).Error
}
