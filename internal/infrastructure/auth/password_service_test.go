package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordService_HashAndVerify(t *testing.T) {
	svc := NewPasswordServiceWithCost(bcrypt.MinCost)

	hash, err := svc.Hash("s3cret")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash must not equal the plain password")
	}

	if !svc.Verify(hash, "s3cret") {
		t.Error("expected correct password to verify")
	}
	if svc.Verify(hash, "wrong") {
		t.Error("expected wrong password to be rejected")
	}
	if svc.Verify("not-a-hash", "s3cret") {
		t.Error("expected malformed hash to be rejected")
	}
}

func TestPasswordService_SaltsEachHash(t *testing.T) {
	svc := NewPasswordServiceWithCost(bcrypt.MinCost)

	a, _ := svc.Hash("same")
	b, _ := svc.Hash("same")
	if a == b {
		t.Error("two hashes of the same password should differ")
	}
}
