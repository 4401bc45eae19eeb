package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionQuote(t *testing.T) {
	tests := []struct {
		name    string
		from    QuoteStatus
		to      QuoteStatus
		allowed bool
	}{
		{"pending to quoted", QuoteStatusPending, QuoteStatusQuoted, true},
		{"pending to rejected", QuoteStatusPending, QuoteStatusRejected, true},
		{"pending to accepted skips quoting", QuoteStatusPending, QuoteStatusAccepted, false},
		{"pending to expired", QuoteStatusPending, QuoteStatusExpired, false},

		{"quoted to accepted", QuoteStatusQuoted, QuoteStatusAccepted, true},
		{"quoted to rejected", QuoteStatusQuoted, QuoteStatusRejected, true},
		{"quoted to expired", QuoteStatusQuoted, QuoteStatusExpired, true},
		{"quoted back to pending", QuoteStatusQuoted, QuoteStatusPending, false},

		{"accepted is terminal", QuoteStatusAccepted, QuoteStatusRejected, false},
		{"rejected is terminal", QuoteStatusRejected, QuoteStatusPending, false},
		{"expired is terminal", QuoteStatusExpired, QuoteStatusQuoted, false},

		{"self transition not allowed", QuoteStatusPending, QuoteStatusPending, false},
		{"unknown current status", QuoteStatus("archived"), QuoteStatusQuoted, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransitionQuote(tt.from, tt.to))
		})
	}
}

func TestTerminalStatusesAllowNothing(t *testing.T) {
	all := []QuoteStatus{
		QuoteStatusPending, QuoteStatusQuoted, QuoteStatusAccepted,
		QuoteStatusRejected, QuoteStatusExpired,
	}
	for _, terminal := range []QuoteStatus{QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusExpired} {
		for _, next := range all {
			assert.False(t, CanTransitionQuote(terminal, next),
				"%s -> %s should not be allowed", terminal, next)
		}
	}
}

func TestIsQuoteStatus(t *testing.T) {
	for _, s := range []string{"pending", "quoted", "accepted", "rejected", "expired"} {
		assert.True(t, IsQuoteStatus(s), s)
	}
	assert.False(t, IsQuoteStatus("Pending"))
	assert.False(t, IsQuoteStatus("archived"))
	assert.False(t, IsQuoteStatus(""))
}

func TestVolumeCbm(t *testing.T) {
	// 120cm x 100cm x 150cm pallet = 1.8 cbm
	d := Dimensions{Length: 120, Width: 100, Height: 150}
	assert.InDelta(t, 1.8, d.VolumeCbm(), 1e-9)

	assert.Zero(t, Dimensions{}.VolumeCbm())
}

func TestIsShipmentServiceType(t *testing.T) {
	for _, s := range []string{"ocean", "air", "ground"} {
		assert.True(t, IsShipmentServiceType(s), s)
	}
	// "all" is a rule scope, not a shipment service type.
	assert.False(t, IsShipmentServiceType("all"))
	assert.False(t, IsShipmentServiceType("rail"))
}
