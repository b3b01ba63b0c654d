package services

import (
	"fmt"
	"log"
	"time"

	"github.com/jstittsworth/nba-projections/pkg/config"
)

// AlertService notifies the operator when a pipeline run needs
// attention.
type AlertService interface {
	SendAlert(message string) error
}

// NewAlertServiceFromConfig picks the configured alert transport.
// Anything but a fully configured Twilio setup falls back to the mock.
func NewAlertServiceFromConfig(cfg *config.Config) AlertService {
	if cfg.SMSProvider == "twilio" && cfg.TwilioAccountSID != "" && cfg.AlertToNumber != "" {
		limiter := NewAlertRateLimiter(5, time.Hour)
		return NewTwilioAlertService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, cfg.AlertToNumber, limiter)
	}
	return NewMockAlertService()
}

// MockAlertService for development - logs to console instead of sending real SMS
type MockAlertService struct{}

func NewMockAlertService() *MockAlertService {
	return &MockAlertService{}
}

func (s *MockAlertService) SendAlert(message string) error {
	log.Printf("📨 MOCK ALERT: %s", message)
	return nil
}

// PipelineFailureAlert formats the operator message for a failed run.
func PipelineFailureAlert(runType, date string, err error) string {
	return fmt.Sprintf("NBA projections: %s run for %s FAILED: %v", runType, date, err)
}

// PipelineSummaryAlert formats the operator message for a completed
// run with a notable number of exclusions.
func PipelineSummaryAlert(runType, date string, rows, excluded int) string {
	return fmt.Sprintf("NBA projections: %s run for %s finished with %d rows, %d excluded", runType, date, rows, excluded)
}
