package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/userbase/accounts-api/internal/core/domain"
	"github.com/userbase/accounts-api/internal/core/ports"
)

const (
	defaultCacheTTL = 5 * time.Minute
	// generations outlive entries so a slow reader never sees a recycled counter.
	generationTTL = time.Hour
)

// storeIfGeneration writes KEYS[1] only while KEYS[2] still holds ARGV[1]
// ("" meaning the generation key is absent).
var storeIfGeneration = redis.NewScript(`
local current = redis.call('GET', KEYS[2])
if current == false then current = '' end
if current ~= ARGV[1] then return 0 end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// CachedAccountRepository is a read-through cache in front of another
// AccountRepository. Only FindByID is cached; Update and Delete evict.
// Key format: account:<id>, with its generation counter at account:<id>:gen.
//
// Every successful write bumps the generation after it reaches the store,
// and a read only fills the cache if the generation it saw before reading
// the store is still current. A read that overlaps a write is served but
// never cached.
//
// Redis failures are logged and never fail the request; the wrapped
// repository stays the source of truth.
type CachedAccountRepository struct {
	next   ports.AccountRepository
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewCachedAccountRepository wraps next. A ttl <= 0 uses defaultCacheTTL.
func NewCachedAccountRepository(next ports.AccountRepository, client *redis.Client, ttl time.Duration, log zerolog.Logger) *CachedAccountRepository {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedAccountRepository{next: next, client: client, ttl: ttl, log: log}
}

// cacheEntry keeps the password hash, which domain.Account hides from JSON.
type cacheEntry struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (c *CachedAccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	switch {
	case err == nil:
		var entry cacheEntry
		if jsonErr := json.Unmarshal(raw, &entry); jsonErr == nil {
			return entry.toDomain(), nil
		}
		c.evict(ctx, id)
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Int64("account_id", id).Msg("account cache read failed")
	}

	gen, genErr := c.generation(ctx, id)
	account, err := c.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if genErr == nil {
		c.store(ctx, account, gen)
	}
	return account, nil
}

func (c *CachedAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return c.next.FindByEmail(ctx, email)
}

func (c *CachedAccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	return c.next.List(ctx)
}

func (c *CachedAccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	return c.next.Create(ctx, account)
}

func (c *CachedAccountRepository) Update(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	updated, err := c.next.Update(ctx, account)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, account.ID)
	return updated, nil
}

func (c *CachedAccountRepository) Delete(ctx context.Context, id int64) error {
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

// Ping checks the cache connection for the readiness check.
func (c *CachedAccountRepository) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Unwrap returns the repository behind the cache.
func (c *CachedAccountRepository) Unwrap() ports.AccountRepository {
	return c.next
}

// generation returns the current counter for id, "" when none was written yet.
func (c *CachedAccountRepository) generation(ctx context.Context, id int64) (string, error) {
	gen, err := c.client.Get(ctx, c.genKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		c.log.Warn().Err(err).Int64("account_id", id).Msg("account cache generation read failed")
		return "", err
	}
	return gen, nil
}

func (c *CachedAccountRepository) store(ctx context.Context, a *domain.Account, gen string) {
	raw, err := json.Marshal(cacheEntry{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         a.Role.String(),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	})
	if err != nil {
		return
	}
	keys := []string{c.key(a.ID), c.genKey(a.ID)}
	if err := storeIfGeneration.Run(ctx, c.client, keys, gen, raw, c.ttl.Milliseconds()).Err(); err != nil {
		c.log.Warn().Err(err).Int64("account_id", a.ID).Msg("account cache write failed")
	}
}

// invalidate bumps the generation and drops the entry in one transaction.
func (c *CachedAccountRepository) invalidate(ctx context.Context, id int64) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.genKey(id))
		pipe.Expire(ctx, c.genKey(id), generationTTL)
		pipe.Del(ctx, c.key(id))
		return nil
	})
	if err != nil {
		c.log.Warn().Err(err).Int64("account_id", id).Msg("account cache invalidate failed")
	}
}

func (c *CachedAccountRepository) evict(ctx context.Context, id int64) {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		c.log.Warn().Err(err).Int64("account_id", id).Msg("account cache evict failed")
	}
}

func (c *CachedAccountRepository) key(id int64) string {
	return fmt.Sprintf("account:%d", id)
}

func (c *CachedAccountRepository) genKey(id int64) string {
	return fmt.Sprintf("account:%d:gen", id)
}

func (e *cacheEntry) toDomain() *domain.Account {
	return &domain.Account{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		PasswordHash: e.PasswordHash,
		Role:         domain.Role(e.Role),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
