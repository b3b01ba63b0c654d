package services

import (
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioAlertService implements AlertService using the Twilio API
type TwilioAlertService struct {
	client         *twilio.RestClient
	fromNumber     string
	toNumber       string
	logger         *log.Logger
	circuitBreaker *simpleCircuitBreaker
	rateLimiter    *AlertRateLimiter
}

// Simple in-memory circuit breaker implementation
type simpleCircuitBreaker struct {
	failures    int
	lastFailure time.Time
	threshold   int
	timeout     time.Duration
	state       string // "closed", "open", "half-open"
}

func newSimpleCircuitBreaker(threshold int, timeout time.Duration) *simpleCircuitBreaker {
	return &simpleCircuitBreaker{
		threshold: threshold,
		timeout:   timeout,
		state:     "closed",
	}
}

func (cb *simpleCircuitBreaker) State() string {
	// Check if we should transition from open to half-open
	if cb.state == "open" && time.Since(cb.lastFailure) > cb.timeout {
		cb.state = "half-open"
	}
	return cb.state
}

func (cb *simpleCircuitBreaker) Allow() bool {
	return cb.State() != "open"
}

func (cb *simpleCircuitBreaker) RecordSuccess() {
	cb.failures = 0
	cb.state = "closed"
}

func (cb *simpleCircuitBreaker) RecordFailure() {
	cb.failures++
	cb.lastFailure = time.Now()
	if cb.failures >= cb.threshold {
		cb.state = "open"
	}
}

// NewTwilioAlertService creates a new Twilio alert service
func NewTwilioAlertService(accountSID, authToken, fromNumber, toNumber string, rateLimiter *AlertRateLimiter) *TwilioAlertService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioAlertService{
		client:         client,
		fromNumber:     fromNumber,
		toNumber:       toNumber,
		logger:         log.Default(),
		circuitBreaker: newSimpleCircuitBreaker(5, 30*time.Second), // 5 failures, 30s timeout
		rateLimiter:    rateLimiter,
	}
}

// SendAlert sends an operator alert via Twilio SMS
func (s *TwilioAlertService) SendAlert(message string) error {
	// Check circuit breaker
	if !s.circuitBreaker.Allow() {
		s.logger.Printf("❌ Twilio alert: Circuit breaker is open, rejecting request")
		return fmt.Errorf("alert service temporarily unavailable")
	}

	// Validate phone number format (E.164)
	normalizedNumber, err := normalizePhoneNumber(s.toNumber)
	if err != nil {
		return fmt.Errorf("invalid phone number format: %w", err)
	}

	// Check rate limiting
	if s.rateLimiter != nil {
		if err := s.rateLimiter.Allow(normalizedNumber); err != nil {
			s.logger.Printf("⚠️ Twilio alert: Rate limited for %s", normalizedNumber)
			return fmt.Errorf("rate limit exceeded: %w", err)
		}
	}

	// Prepare Twilio API request
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(normalizedNumber)
	params.SetFrom(s.fromNumber)
	params.SetBody(message)

	s.logger.Printf("📨 Twilio alert: Sending to %s", normalizedNumber)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		s.circuitBreaker.RecordFailure()
		s.logger.Printf("❌ Twilio alert: API error - %v", err)
		return fmt.Errorf("failed to send alert: %w", err)
	}

	// Record success
	s.circuitBreaker.RecordSuccess()

	if resp.Sid != nil {
		s.logger.Printf("✅ Twilio alert: Message sent successfully (SID: %s)", *resp.Sid)
	} else {
		s.logger.Printf("✅ Twilio alert: Message sent successfully")
	}

	return nil
}

// normalizePhoneNumber ensures phone number is in E.164 format
func normalizePhoneNumber(phone string) (string, error) {
	// Remove all non-digit characters except +
	re := regexp.MustCompile(`[^\d+]`)
	cleaned := re.ReplaceAllString(phone, "")

	// Add + if not present
	if !regexp.MustCompile(`^\+`).MatchString(cleaned) {
		// Assume US number if no country code
		if regexp.MustCompile(`^\d{10}$`).MatchString(cleaned) {
			cleaned = "+1" + cleaned
		} else {
			return "", fmt.Errorf("invalid phone number format")
		}
	}

	// Validate E.164 format
	if !regexp.MustCompile(`^\+[1-9]\d{1,14}$`).MatchString(cleaned) {
		return "", fmt.Errorf("invalid phone number format")
	}

	return cleaned, nil
}
