package auth

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"

	"github.com/pquerna/otp/totp"
)

// TOTPService handles two-factor authentication using TOTP.
type TOTPService struct{}

// NewTOTPService creates a new TOTP service.
func NewTOTPService() *TOTPService {
	return &TOTPService{}
}

// GenerateSecret generates a new TOTP secret for a user.
// Returns the secret and the otpauth:// provisioning URL.
func (s *TOTPService) GenerateSecret(domain, email string) (string, string, error) {
	secret := make([]byte, 20)
	if _, err := rand.Read(secret); err != nil {
		return "", "", fmt.Errorf("failed to generate secret: %w", err)
	}

	secretStr := base32.StdEncoding.EncodeToString(secret)

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      fmt.Sprintf("Nyatti %s", domain),
		AccountName: email,
		Secret:      []byte(secretStr),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	return key.Secret(), key.URL(), nil
}

// ValidateCode validates a TOTP code against a secret.
func (s *TOTPService) ValidateCode(secret, code string) bool {
	return totp.Validate(code, secret)
}
