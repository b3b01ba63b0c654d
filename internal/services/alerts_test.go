package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/nba-projections/pkg/config"
)

func TestAlertRateLimiter(t *testing.T) {
	rl := NewAlertRateLimiter(3, time.Hour)
	to := "+15551234567"

	for i := 0; i < 3; i++ {
		assert.NoError(t, rl.Allow(to), "alert %d should pass", i+1)
	}
	assert.Error(t, rl.Allow(to), "fourth alert inside the window must be blocked")

	// Destinations are limited independently.
	assert.NoError(t, rl.Allow("+15559876543"))

	rl.Reset()
	assert.NoError(t, rl.Allow(to))
}

func TestNormalizePhoneNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"+15551234567", "+15551234567", false},
		{"5551234567", "+15551234567", false},
		{"(555) 123-4567", "+15551234567", false},
		{"+44 20 7946 0958", "+442079460958", false},
		{"12345", "", true},
		{"not a number", "", true},
	}
	for _, tt := range tests {
		got, err := normalizePhoneNumber(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestAlertServiceFromConfig(t *testing.T) {
	mock := NewAlertServiceFromConfig(&config.Config{SMSProvider: "mock"})
	_, isMock := mock.(*MockAlertService)
	assert.True(t, isMock)

	// Twilio without credentials falls back to mock.
	fallback := NewAlertServiceFromConfig(&config.Config{SMSProvider: "twilio"})
	_, isMock = fallback.(*MockAlertService)
	assert.True(t, isMock)

	twilio := NewAlertServiceFromConfig(&config.Config{
		SMSProvider:      "twilio",
		TwilioAccountSID: "AC123",
		TwilioAuthToken:  "token",
		TwilioFromNumber: "+15550001111",
		AlertToNumber:    "+15552223333",
	})
	_, isTwilio := twilio.(*TwilioAlertService)
	assert.True(t, isTwilio)
}

func TestAlertMessages(t *testing.T) {
	failure := PipelineFailureAlert("matchups", "2025-01-15", assert.AnError)
	assert.Contains(t, failure, "matchups")
	assert.Contains(t, failure, "2025-01-15")
	assert.Contains(t, failure, "FAILED")

	summary := PipelineSummaryAlert("full", "2025-01-15", 142, 9)
	assert.Contains(t, summary, "142")
	assert.Contains(t, summary, "9")
}

func TestMockAlertService(t *testing.T) {
	svc := NewMockAlertService()
	assert.NoError(t, svc.SendAlert("test message"))
}
