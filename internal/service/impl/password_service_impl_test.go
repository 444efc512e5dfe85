package impl

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashAndCompare(t *testing.T) {
	svc := NewPasswordServiceBcrypt(bcrypt.MinCost)

	hash, err := svc.Hash("hunter22")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "hunter22" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected a bcrypt hash, got %q", hash)
	}
	if !svc.Compare(hash, "hunter22") {
		t.Fatalf("compare should accept the original password")
	}
	if svc.Compare(hash, "wrong") {
		t.Fatalf("compare should reject a different password")
	}
}

func TestPasswordHashesAreSalted(t *testing.T) {
	svc := NewPasswordServiceBcrypt(bcrypt.MinCost)
	a, _ := svc.Hash("same-input")
	b, _ := svc.Hash("same-input")
	if a == b {
		t.Fatalf("two hashes of the same input should differ")
	}
}

func TestPasswordHashRejectsEmpty(t *testing.T) {
	svc := NewPasswordServiceBcrypt(bcrypt.MinCost)
	if _, err := svc.Hash(""); !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("expected empty password error, got %v", err)
	}
}

func TestPasswordCostClamping(t *testing.T) {
	if svc := NewPasswordServiceBcrypt(-1); svc.cost != bcrypt.DefaultCost {
		t.Fatalf("out-of-range cost should clamp to default, got %d", svc.cost)
	}
	if svc := NewPasswordServiceBcrypt(bcrypt.MinCost); svc.cost != bcrypt.MinCost {
		t.Fatalf("valid cost should be kept, got %d", svc.cost)
	}
}
