package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/bizops-api/internal/constants"
)

// GenerateOfferNumber generates an offer number in the format OF-YYYYMMDD-XXXXXX
func GenerateOfferNumber(now time.Time) (string, error) {
	bytes := make([]byte, 3)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return fmt.Sprintf("%s-%s-%s",
		constants.OfferNumberPrefix,
		now.Format("20060102"),
		strings.ToUpper(hex.EncodeToString(bytes)),
	), nil
}

// GeneratePublicToken returns an unguessable token for public links.
func GeneratePublicToken() string {
	return uuid.NewString()
}

// IsPublicToken reports whether s looks like a token produced by GeneratePublicToken.
func IsPublicToken(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
