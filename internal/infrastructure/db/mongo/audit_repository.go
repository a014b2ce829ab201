package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/userbase/accounts-api/internal/core/domain"
)

// AuditRepository persists account events to the 'account_events' collection.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(eventsCollection)}
}

type eventDocument struct {
	ID         string    `bson:"_id"`
	Type       string    `bson:"type"`
	AccountID  int64     `bson:"account_id"`
	Email      string    `bson:"email,omitempty"`
	OccurredAt time.Time `bson:"occurred_at"`
}

func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AccountEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, newEventDocument(event)); err != nil {
		return fmt.Errorf("insert account event: %w", err)
	}
	return nil
}

func newEventDocument(event *domain.AccountEvent) eventDocument {
	return eventDocument{
		ID:         event.ID,
		Type:       string(event.Type),
		AccountID:  event.AccountID,
		Email:      event.Email,
		OccurredAt: event.OccurredAt.UTC(),
	}
}
