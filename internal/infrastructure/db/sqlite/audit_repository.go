package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/userbase/accounts-api/internal/core/domain"
)

// AuditRepository stores account events in the 'account_events' table.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AccountEvent) error {
	m := accountEventModel{
		ID:         event.ID,
		Type:       string(event.Type),
		AccountID:  event.AccountID,
		Email:      event.Email,
		OccurredAt: event.OccurredAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert account event: %w", err)
	}
	return nil
}

// ListByAccount returns the events recorded for accountID, oldest first.
func (r *AuditRepository) ListByAccount(ctx context.Context, accountID int64) ([]domain.AccountEvent, error) {
	var models []accountEventModel
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("occurred_at").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list account events: %w", err)
	}
	out := make([]domain.AccountEvent, len(models))
	for i, m := range models {
		out[i] = domain.AccountEvent{
			ID:         m.ID,
			Type:       domain.AccountEventType(m.Type),
			AccountID:  m.AccountID,
			Email:      m.Email,
			OccurredAt: m.OccurredAt.UTC(),
		}
	}
	return out, nil
}
