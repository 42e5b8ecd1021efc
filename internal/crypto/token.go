package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// VerificationTokenBytes количество случайных байт в токене верификации email
const VerificationTokenBytes = 32

// GenerateVerificationToken возвращает hex строку из 32 случайных байт
func GenerateVerificationToken() (string, error) {
	buf := make([]byte, VerificationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate verification token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
