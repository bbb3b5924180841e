package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// GenerateRandomToken generates a random token of specified length.
func GenerateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// GeneratePaymentReference generates a unique per-attempt payment reference.
// Format: ref-<unix-millis>-<random_8_chars>. A fresh reference must be used
// for every checkout attempt so the gateway treats retries as new
// transactions.
func GeneratePaymentReference() string {
	random, _ := GenerateRandomToken(4)
	return fmt.Sprintf("ref-%d-%s", time.Now().UnixMilli(), random)
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// ComparePassword compares a hashed password with a plain password.
func ComparePassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// SecureCompareStrings compares two strings in constant time. Use for
// webhook signatures and any other secret comparison.
func SecureCompareStrings(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
