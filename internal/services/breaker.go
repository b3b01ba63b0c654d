package services

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// Upstream names used by the circuit breaker and the health endpoint.
const (
	UpstreamNBAStats = "nba-stats"
	UpstreamOddsAPI  = "odds-api"
)

type CircuitBreakerService struct {
	breakers map[string]*gobreaker.CircuitBreaker
	logger   *logrus.Logger
}

func NewCircuitBreakerService(threshold int, timeout time.Duration, logger *logrus.Logger) *CircuitBreakerService {
	newSettings := func(name string) gobreaker.Settings {
		return gobreaker.Settings{
			Name:        name,
			MaxRequests: uint32(threshold),
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.WithFields(logrus.Fields{
					"component": "circuit_breaker",
					"service":   name,
					"from":      from.String(),
					"to":        to.String(),
				}).Info("Circuit breaker state changed")
			},
		}
	}

	// One breaker per upstream so a stats outage does not block the
	// schedule feed
	breakers := map[string]*gobreaker.CircuitBreaker{
		UpstreamNBAStats: gobreaker.NewCircuitBreaker(newSettings(UpstreamNBAStats)),
		UpstreamOddsAPI:  gobreaker.NewCircuitBreaker(newSettings(UpstreamOddsAPI)),
	}

	return &CircuitBreakerService{
		breakers: breakers,
		logger:   logger,
	}
}

// Execute wraps a function call with circuit breaker protection
func (cb *CircuitBreakerService) Execute(service string, fn func() (interface{}, error)) (interface{}, error) {
	breaker, exists := cb.breakers[service]
	if !exists {
		cb.logger.WithFields(logrus.Fields{
			"component": "circuit_breaker",
			"service":   service,
		}).Warn("No circuit breaker found for service, executing without protection")
		return fn()
	}

	return breaker.Execute(fn)
}

// GetState returns the current state of a circuit breaker
func (cb *CircuitBreakerService) GetState(service string) gobreaker.State {
	if breaker, exists := cb.breakers[service]; exists {
		return breaker.State()
	}
	return gobreaker.StateClosed
}

// States reports every breaker's state for the health endpoint.
func (cb *CircuitBreakerService) States() map[string]string {
	states := make(map[string]string, len(cb.breakers))
	for name, breaker := range cb.breakers {
		states[name] = breaker.State().String()
	}
	return states
}
