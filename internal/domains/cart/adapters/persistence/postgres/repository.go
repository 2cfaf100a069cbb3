package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amushan/portal-storefront/internal/domains/cart/domain"
	"github.com/amushan/portal-storefront/internal/domains/cart/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists session carts in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&cartRecord{})
	}
	return repo
}

type cartLine struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	ImageRef  string `json:"imageRef"`
	Quantity  int    `json:"quantity"`
}

// cartRecord maps a session cart to a relational row. The lines live in a
// JSON column; product_ids duplicates the line ids for indexed lookups.
type cartRecord struct {
	SessionKey string         `gorm:"primaryKey;column:session_key;size:128"`
	Items      []cartLine     `gorm:"column:items;serializer:json"`
	ProductIDs pq.StringArray `gorm:"column:product_ids;type:text[]"`
	CreatedAt  time.Time      `gorm:"column:created_at;index"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;index"`
}

func (cartRecord) TableName() string { return "cart_sessions" }

// Load restores the cart stored under the session key.
func (r *Repository) Load(ctx context.Context, sessionKey string) (*domain.Cart, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record cartRecord
	if err := r.db.WithContext(ctx).First(&record, "session_key = ?", sessionKey).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %w", ports.ErrStorage, err)
	}
	items := make([]domain.Item, 0, len(record.Items))
	for _, line := range record.Items {
		items = append(items, domain.Item{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			ImageRef:  line.ImageRef,
			Quantity:  line.Quantity,
		})
	}
	return domain.FromItems(items), nil
}

// Save upserts the cart under the session key.
func (r *Repository) Save(ctx context.Context, sessionKey string, cart *domain.Cart) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	record := toRecord(sessionKey, cart)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_key"}},
			DoUpdates: clause.Assignments(map[string]any{
				"items":       record.Items,
				"product_ids": record.ProductIDs,
				"updated_at":  gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return fmt.Errorf("%w: %w", ports.ErrStorage, err)
	}
	return nil
}

// Delete removes the session cart row.
func (r *Repository) Delete(ctx context.Context, sessionKey string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&cartRecord{}, "session_key = ?", sessionKey).Error; err != nil {
		return fmt.Errorf("%w: %w", ports.ErrStorage, err)
	}
	return nil
}

func toRecord(sessionKey string, cart *domain.Cart) cartRecord {
	record := cartRecord{SessionKey: sessionKey}
	if cart == nil {
		return record
	}
	for _, item := range cart.Items() {
		record.Items = append(record.Items, cartLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			ImageRef:  item.ImageRef,
			Quantity:  item.Quantity,
		})
		record.ProductIDs = append(record.ProductIDs, item.ProductID)
	}
	return record
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return fmt.Errorf("%w: postgres cart repository not configured", ports.ErrStorage)
	}
	return nil
}
