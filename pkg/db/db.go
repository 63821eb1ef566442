package db

import (
	"github.com/smallbiznis/seatwise/internal/config"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Open connects to the configured database.
func Open(cfg config.Config) (*gorm.DB, error) {
	dialect, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}
	return gorm.Open(dialect, &gorm.Config{TranslateError: true})
}

var Module = fx.Module("db",
	fx.Provide(Open),
)
