package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByRealmID(ctx context.Context, db *gorm.DB, realmID snowflake.ID) (*Customer, error)
	SetBillingRelationship(ctx context.Context, db *gorm.DB, id snowflake.ID, established bool) error

	InsertPlan(ctx context.Context, db *gorm.DB, plan *CustomerPlan) error
	FindActivePlan(ctx context.Context, db *gorm.DB, customerID snowflake.ID) (*CustomerPlan, error)
	EndPlan(ctx context.Context, db *gorm.DB, id snowflake.ID, endedAt time.Time) error
}
