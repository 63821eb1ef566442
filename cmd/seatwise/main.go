package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/seatwise/internal/billing"
	"github.com/smallbiznis/seatwise/internal/clock"
	"github.com/smallbiznis/seatwise/internal/config"
	"github.com/smallbiznis/seatwise/internal/customer"
	"github.com/smallbiznis/seatwise/internal/logger"
	"github.com/smallbiznis/seatwise/internal/metrics"
	"github.com/smallbiznis/seatwise/internal/migration"
	"github.com/smallbiznis/seatwise/internal/payments"
	"github.com/smallbiznis/seatwise/internal/plan"
	"github.com/smallbiznis/seatwise/internal/realm"
	"github.com/smallbiznis/seatwise/internal/seatcount"
	"github.com/smallbiznis/seatwise/internal/server"
	"github.com/smallbiznis/seatwise/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		metrics.Module,
		migration.Module,

		// Functional domains
		realm.Module,
		plan.Module,
		customer.Module,
		payments.Module,
		seatcount.Module,
		billing.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
