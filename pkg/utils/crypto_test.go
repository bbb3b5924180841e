package utils

import (
	"strings"
	"testing"
)

// TestGeneratePaymentReference tests payment reference generation.
func TestGeneratePaymentReference(t *testing.T) {
	ref1 := GeneratePaymentReference()
	ref2 := GeneratePaymentReference()

	if !strings.HasPrefix(ref1, "ref-") {
		t.Errorf("GeneratePaymentReference() = %q; want ref- prefix", ref1)
	}

	// References must be unique per attempt
	if ref1 == ref2 {
		t.Errorf("GeneratePaymentReference() returned duplicate reference: %s", ref1)
	}
}

// TestHashPassword tests password hashing and comparison.
func TestHashPassword(t *testing.T) {
	password := "correct-horse-battery"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}

	if hash == password {
		t.Error("HashPassword() returned plaintext password")
	}

	if !ComparePassword(hash, password) {
		t.Error("ComparePassword() = false for matching password")
	}

	if ComparePassword(hash, "wrong-password") {
		t.Error("ComparePassword() = true for wrong password")
	}
}

// TestSecureCompareStrings tests constant-time string comparison.
func TestSecureCompareStrings(t *testing.T) {
	if !SecureCompareStrings("signature", "signature") {
		t.Error("SecureCompareStrings() = false for equal strings")
	}
	if SecureCompareStrings("signature", "different") {
		t.Error("SecureCompareStrings() = true for different strings")
	}
	if SecureCompareStrings("signature", "signatur") {
		t.Error("SecureCompareStrings() = true for different lengths")
	}
}
