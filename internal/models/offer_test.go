package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOffer_IsExpired(t *testing.T) {
	validUntil := time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		offer    Offer
		now      time.Time
		expected bool
	}{
		{"no date", Offer{Status: OfferStatusSent}, validUntil.AddDate(1, 0, 0), false},
		{"expired status", Offer{Status: OfferStatusExpired}, validUntil, true},
		{"day before", Offer{Status: OfferStatusSent, ValidUntil: &validUntil}, validUntil.Add(-time.Hour), false},
		{"start of last day", Offer{Status: OfferStatusSent, ValidUntil: &validUntil}, validUntil, false},
		{"end of last day", Offer{Status: OfferStatusSent, ValidUntil: &validUntil}, validUntil.Add(24*time.Hour - time.Second), false},
		{"next day", Offer{Status: OfferStatusSent, ValidUntil: &validUntil}, validUntil.Add(24 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.offer.IsExpired(tt.now))
		})
	}
}
