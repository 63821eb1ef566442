// Package seed bootstraps the plan catalog on startup. The processor price
// IDs come from the environment so each deployment points at its own prices.
package seed

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/smallbiznis/seatwise/internal/plan/domain"
	planrepository "github.com/smallbiznis/seatwise/internal/plan/repository"
	"gorm.io/gorm"
)

const (
	defaultAnnualPriceID  = "price_seatwise_annual"
	defaultMonthlyPriceID = "price_seatwise_monthly"

	annualPlanName  = "Seatwise Standard (billed annually)"
	monthlyPlanName = "Seatwise Standard (billed monthly)"
)

// EnsurePlans upserts the paid plan reference rows.
func EnsurePlans(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	repo := planrepository.Provide()
	now := time.Now().UTC()

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plans := []plandomain.Plan{
			{
				ID:              node.Generate(),
				ProviderPriceID: getenv("STRIPE_ANNUAL_PRICE_ID", defaultAnnualPriceID),
				Schedule:        plandomain.ScheduleAnnual,
				DisplayName:     annualPlanName,
				PerSeatAmount:   8000,
				CreatedAt:       now,
				UpdatedAt:       now,
			},
			{
				ID:              node.Generate(),
				ProviderPriceID: getenv("STRIPE_MONTHLY_PRICE_ID", defaultMonthlyPriceID),
				Schedule:        plandomain.ScheduleMonthly,
				DisplayName:     monthlyPlanName,
				PerSeatAmount:   800,
				CreatedAt:       now,
				UpdatedAt:       now,
			},
		}
		for i := range plans {
			if err := repo.Upsert(ctx, tx, &plans[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
