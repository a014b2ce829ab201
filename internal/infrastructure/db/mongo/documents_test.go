package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/userbase/accounts-api/internal/core/domain"
)

func TestAccountDocument_BSONRoundTrip(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	doc := accountDocument{
		ID:           7,
		Name:         "Ana",
		Email:        "ana@x.io",
		PasswordHash: "$2a$10$hash",
		Role:         "admin",
		CreatedAt:    created,
		UpdatedAt:    created,
	}

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var fields bson.M
	require.NoError(t, bson.Unmarshal(raw, &fields))
	assert.Equal(t, int64(7), fields["_id"])
	assert.Equal(t, "$2a$10$hash", fields["password_hash"])

	var decoded accountDocument
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	account := decoded.toDomain()
	assert.Equal(t, int64(7), account.ID)
	assert.Equal(t, domain.RoleAdmin, account.Role)
	assert.True(t, created.Equal(account.CreatedAt))
}

func TestNewEventDocument(t *testing.T) {
	ev := domain.NewAccountEvent(domain.EventLoginFailed, 0, "ghost@x.io")
	doc := newEventDocument(&ev)

	assert.Equal(t, ev.ID, doc.ID)
	assert.Equal(t, "login_failed", doc.Type)
	assert.Equal(t, int64(0), doc.AccountID)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var fields bson.M
	require.NoError(t, bson.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "password_hash")
	assert.Equal(t, ev.ID, fields["_id"])
}
