package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/userbase/accounts-api/internal/core/auth"
	"github.com/userbase/accounts-api/internal/core/domain"
	"github.com/userbase/accounts-api/internal/core/ports"
)

// AccountService implements registration, login and account management.
type AccountService struct {
	repo     ports.AccountRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenIssuer
	audit    ports.AuditPublisher
	tokenTTL time.Duration
	log      zerolog.Logger
}

// NewAccountService wires the account workflows. A nil audit publisher
// disables the audit trail; a non-positive tokenTTL falls back to one hour.
func NewAccountService(
	repo ports.AccountRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	audit ports.AuditPublisher,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AccountService {
	if tokenTTL <= 0 {
		tokenTTL = auth.DefaultTokenTTL
	}
	if audit == nil {
		audit = noopPublisher{}
	}
	return &AccountService{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		audit:    audit,
		tokenTTL: tokenTTL,
		log:      log,
	}
}

// Register validates input, hashes the password and creates the account.
func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, fmt.Errorf("register: %w: name, email and password are required", domain.ErrInvalidInput)
	}

	role := domain.DefaultRole
	if in.Role != "" {
		role = domain.Role(in.Role)
		if !role.IsValid() {
			return nil, fmt.Errorf("register: %w: unknown role %q", domain.ErrInvalidInput, in.Role)
		}
	}

	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, fmt.Errorf("register: %w", domain.ErrEmailTaken)
	case !errors.Is(err, domain.ErrAccountNotFound):
		return nil, unavailable("register: find by email", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.Account{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return nil, unavailable("register: create", err)
	}

	s.audit.Publish(domain.NewAccountEvent(domain.EventRegistered, created.ID, created.Email))
	s.log.Info().Int64("account_id", created.ID).Str("role", created.Role.String()).Msg("account registered")

	return created, nil
}

// Login checks credentials and issues a token. Unknown email and wrong
// password produce the same error.
func (s *AccountService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("login: %w: email and password are required", domain.ErrInvalidInput)
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.audit.Publish(domain.NewAccountEvent(domain.EventLoginFailed, 0, email))
			return nil, fmt.Errorf("login: %w", domain.ErrUnauthorized)
		}
		return nil, unavailable("login: find by email", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		s.audit.Publish(domain.NewAccountEvent(domain.EventLoginFailed, account.ID, email))
		return nil, fmt.Errorf("login: %w", domain.ErrUnauthorized)
	}

	token, expiresAt, err := s.tokens.Issue(account.ID, account.Role, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.audit.Publish(domain.NewAccountEvent(domain.EventLoginSucceeded, account.ID, email))
	s.log.Debug().Int64("account_id", account.ID).Msg("login succeeded")

	return &ports.LoginResult{Token: token, ExpiresAt: expiresAt, Account: account}, nil
}

// List returns every account.
func (s *AccountService) List(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, unavailable("list accounts", err)
	}
	return accounts, nil
}

// Get returns a single account.
func (s *AccountService) Get(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, unavailable("get account", err)
	}
	return account, nil
}

// GetPermissions projects the authorization view of an account.
func (s *AccountService) GetPermissions(ctx context.Context, id int64) (*ports.Permissions, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, unavailable("get permissions", err)
	}
	return &ports.Permissions{ID: account.ID, Role: account.Role}, nil
}

// GetProfile projects the public identity of an account.
func (s *AccountService) GetProfile(ctx context.Context, id int64) (*ports.Profile, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, unavailable("get profile", err)
	}
	return &ports.Profile{ID: account.ID, Name: account.Name, Email: account.Email}, nil
}

// Update applies name, email and role changes. The password hash cannot be
// changed through this path.
func (s *AccountService) Update(ctx context.Context, id int64, in ports.UpdateAccountInput) (*domain.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, unavailable("update account", err)
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("update account: %w: name cannot be empty", domain.ErrInvalidInput)
		}
		account.Name = name
	}
	if in.Email != nil {
		email := domain.NormalizeEmail(*in.Email)
		if email == "" {
			return nil, fmt.Errorf("update account: %w: email cannot be empty", domain.ErrInvalidInput)
		}
		account.Email = email
	}
	if in.Role != nil {
		role := domain.Role(*in.Role)
		if !role.IsValid() {
			return nil, fmt.Errorf("update account: %w: unknown role %q", domain.ErrInvalidInput, *in.Role)
		}
		account.Role = role
	}

	updated, err := s.repo.Update(ctx, account)
	if err != nil {
		return nil, unavailable("update account", err)
	}

	s.audit.Publish(domain.NewAccountEvent(domain.EventUpdated, updated.ID, updated.Email))
	s.log.Info().Int64("account_id", updated.ID).Msg("account updated")

	return updated, nil
}

// Delete removes an account.
func (s *AccountService) Delete(ctx context.Context, id int64) error {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return unavailable("delete account", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return unavailable("delete account", err)
	}

	s.audit.Publish(domain.NewAccountEvent(domain.EventDeleted, account.ID, account.Email))
	s.log.Info().Int64("account_id", account.ID).Msg("account deleted")

	return nil
}

// unavailable passes domain errors through and classifies anything else as
// a store failure, keeping the cause in the chain.
func unavailable(op string, err error) error {
	if domain.IsDomainError(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrUnavailable, err)
}

type noopPublisher struct{}

func (noopPublisher) Publish(domain.AccountEvent) {}
