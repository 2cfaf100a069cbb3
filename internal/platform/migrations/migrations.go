package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&cartRecord{},
		&stateRecord{},
	)
}

type cartLine struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	ImageRef  string `json:"imageRef"`
	Quantity  int    `json:"quantity"`
}

// Cart schema mirrors the cart Postgres adapter.
type cartRecord struct {
	SessionKey string         `gorm:"primaryKey;column:session_key;size:128"`
	Items      []cartLine     `gorm:"column:items;serializer:json"`
	ProductIDs pq.StringArray `gorm:"column:product_ids;type:text[]"`
	CreatedAt  time.Time      `gorm:"column:created_at;index"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;index"`
}

func (cartRecord) TableName() string { return "cart_sessions" }

// Session state schema mirrors the session Postgres adapter.
type stateRecord struct {
	SessionKey      string     `gorm:"primaryKey;column:session_key;size:128"`
	LastOrderID     string     `gorm:"column:last_order_id"`
	ProfileComplete bool       `gorm:"column:profile_complete"`
	ExpiresAt       *time.Time `gorm:"column:expires_at;index"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (stateRecord) TableName() string { return "session_state" }
