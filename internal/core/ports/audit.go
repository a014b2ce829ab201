package ports

import (
	"context"

	"github.com/userbase/accounts-api/internal/core/domain"
)

// AuditRepository persists account lifecycle events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AccountEvent) error
}

// AuditPublisher hands events to the audit pipeline. Publish must not block the caller.
type AuditPublisher interface {
	Publish(event domain.AccountEvent)
}
