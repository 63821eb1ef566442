// Package domain contains the realm records this service reads. Realms and
// their users are owned by the main application; billing never mutates them.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Realm struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null" json:"name"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Realm) TableName() string { return "realms" }

// RealmUser is a member of a realm. Only active non-bot users count as
// billable seats.
type RealmUser struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	RealmID   snowflake.ID `gorm:"not null;index" json:"realm_id"`
	Email     string       `gorm:"not null" json:"email"`
	IsActive  bool         `gorm:"not null;default:true" json:"is_active"`
	IsBot     bool         `gorm:"not null;default:false" json:"is_bot"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (RealmUser) TableName() string { return "realm_users" }

var (
	ErrInvalidRealm = errors.New("invalid_realm")
	ErrNotFound     = errors.New("not_found")
)
