package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/userbase/accounts-api/internal/core/domain"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	digest, err := hasher.Hash("pw123")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if digest == "" || digest == "pw123" {
		t.Fatalf("expected an opaque digest, got %q", digest)
	}

	if !hasher.Verify("pw123", digest) {
		t.Errorf("expected the original password to verify")
	}
	if hasher.Verify("wrong", digest) {
		t.Errorf("expected a wrong password to be rejected")
	}
	if hasher.Verify("", digest) {
		t.Errorf("expected an empty password to be rejected")
	}
}

func TestBcryptHasher_Salted(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	first, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	second, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	if first == second {
		t.Errorf("two digests of the same password must differ")
	}
	if !hasher.Verify("same-password", first) || !hasher.Verify("same-password", second) {
		t.Errorf("both digests should verify")
	}
}

func TestBcryptHasher_RejectsInput(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	for name, password := range map[string]string{
		"empty":    "",
		"too long": strings.Repeat("a", 73),
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := hasher.Hash(password); !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestBcryptHasher_MalformedDigest(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	if hasher.Verify("pw123", "not-a-bcrypt-digest") {
		t.Errorf("expected a malformed digest to be rejected")
	}
	if hasher.Verify("pw123", "") {
		t.Errorf("expected an empty digest to be rejected")
	}
}

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	tests := []struct {
		cost int
		want int
	}{
		{0, DefaultCost},
		{bcrypt.MaxCost + 1, DefaultCost},
		{12, 12},
	}
	for _, tt := range tests {
		if got := NewBcryptHasher(tt.cost).cost; got != tt.want {
			t.Errorf("cost %d: expected %d, got %d", tt.cost, tt.want, got)
		}
	}
}
