package migration

import (
	"github.com/smallbiznis/seatwise/internal/config"
	customerdomain "github.com/smallbiznis/seatwise/internal/customer/domain"
	plandomain "github.com/smallbiznis/seatwise/internal/plan/domain"
	realmdomain "github.com/smallbiznis/seatwise/internal/realm/domain"
	"github.com/smallbiznis/seatwise/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// Versioned SQL migrations only exist for postgres. The sqlite and
		// mysql paths are for local development and lean on AutoMigrate.
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			err := conn.AutoMigrate(
				&realmdomain.Realm{},
				&realmdomain.RealmUser{},
				&customerdomain.Customer{},
				&customerdomain.CustomerPlan{},
				&plandomain.Plan{},
			)
			if err != nil {
				return err
			}
		}

		return seed.EnsurePlans(conn)
	}),
)
