package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amushan/portal-storefront/internal/domains/session/ports"
)

// DefaultStateTTL provides the fallback TTL when none is configured.
const DefaultStateTTL = 72 * time.Hour

var _ ports.StateStore = (*StateStore)(nil)

// StateStore persists per-session client state in PostgreSQL.
type StateStore struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewStateStore wires a PostgreSQL-backed state store. Caller owns DB lifecycle.
func NewStateStore(db *gorm.DB, ttl time.Duration) *StateStore {
	if ttl <= 0 {
		ttl = DefaultStateTTL
	}
	return &StateStore{db: db, ttl: ttl}
}

type stateRecord struct {
	SessionKey      string     `gorm:"primaryKey;column:session_key;size:128"`
	LastOrderID     string     `gorm:"column:last_order_id"`
	ProfileComplete bool       `gorm:"column:profile_complete"`
	ExpiresAt       *time.Time `gorm:"column:expires_at;index"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (stateRecord) TableName() string { return "session_state" }

// SetLastOrder upserts the most recent confirmed order id for the session.
func (s *StateStore) SetLastOrder(ctx context.Context, sessionKey, orderID string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	sessionKey = strings.TrimSpace(sessionKey)
	if sessionKey == "" {
		return errors.New("session key is required")
	}
	expiry := time.Now().Add(s.ttl)
	rec := stateRecord{SessionKey: sessionKey, LastOrderID: orderID, ExpiresAt: &expiry}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_order_id", "expires_at", "updated_at"}),
		}).
		Create(&rec).Error
}

// LastOrder returns the most recent confirmed order id for the session.
func (s *StateStore) LastOrder(ctx context.Context, sessionKey string) (string, error) {
	if err := s.ensureDB(); err != nil {
		return "", err
	}
	var rec stateRecord
	if err := s.db.WithContext(ctx).First(&rec, "session_key = ?", sessionKey).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ports.ErrNotFound
		}
		return "", err
	}
	if rec.LastOrderID == "" {
		return "", ports.ErrNotFound
	}
	return rec.LastOrderID, nil
}

// SetProfileComplete upserts the profile-completion flag.
func (s *StateStore) SetProfileComplete(ctx context.Context, sessionKey string, complete bool) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	sessionKey = strings.TrimSpace(sessionKey)
	if sessionKey == "" {
		return errors.New("session key is required")
	}
	expiry := time.Now().Add(s.ttl)
	rec := stateRecord{SessionKey: sessionKey, ProfileComplete: complete, ExpiresAt: &expiry}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"profile_complete", "expires_at", "updated_at"}),
		}).
		Create(&rec).Error
}

// ProfileComplete reports the profile-completion flag; an absent row
// means the profile wizard has not finished.
func (s *StateStore) ProfileComplete(ctx context.Context, sessionKey string) (bool, error) {
	if err := s.ensureDB(); err != nil {
		return false, err
	}
	var rec stateRecord
	if err := s.db.WithContext(ctx).First(&rec, "session_key = ?", sessionKey).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return rec.ProfileComplete, nil
}

// PurgeExpired removes stale session state rows. Use for housekeeping or cron.
func (s *StateStore) PurgeExpired(ctx context.Context) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	now := time.Now()
	return s.db.WithContext(ctx).Where("expires_at IS NOT NULL AND expires_at <= ?", now).Delete(&stateRecord{}).Error
}

func (s *StateStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres session state store not configured")
	}
	return nil
}
