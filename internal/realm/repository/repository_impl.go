package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/seatwise/internal/realm/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Realm, error) {
	var realm domain.Realm
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, created_at, updated_at FROM realms WHERE id = ?`,
		id,
	).Scan(&realm).Error
	if err != nil {
		return nil, err
	}
	if realm.ID == 0 {
		return nil, nil
	}
	return &realm, nil
}

func (r *repo) CountActiveSeats(ctx context.Context, db *gorm.DB, realmID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.RealmUser{}).
		Where("realm_id = ? AND is_active = ? AND is_bot = ?", realmID, true, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
