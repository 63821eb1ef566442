package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Realm, error)
	CountActiveSeats(ctx context.Context, db *gorm.DB, realmID snowflake.ID) (int64, error)
}
