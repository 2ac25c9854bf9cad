package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hazelmere/property-api/internal/core/domain/ratelimit"
	"github.com/hazelmere/property-api/internal/core/ports"
)

// RateLimiterService implements the single-anchor fixed-window limiter: the
// stored count applies only while the last request is within the window;
// otherwise the window has rolled over and the count restarts at zero.
// Rejected requests are not counted. The read and the upsert are separate
// store calls, so two concurrent admits for one key can under-count; that is
// an accepted tradeoff. Use the redis counter backend when strict counting
// matters.
type RateLimiterService struct {
	store    ports.RateLimitStore
	policies map[ratelimit.Event]ratelimit.Policy
	logger   *logrus.Logger
}

// RateLimiterConfig groups the per-event admission policies.
type RateLimiterConfig struct {
	LoginLimit    int
	LoginWindow   time.Duration
	EnquiryLimit  int
	EnquiryWindow time.Duration
}

func NewRateLimiterService(store ports.RateLimitStore, cfg *RateLimiterConfig, logger *logrus.Logger) *RateLimiterService {
	// Apply defaults
	loginLimit, loginWindow := 5, time.Minute
	enquiryLimit, enquiryWindow := 10, time.Minute
	if cfg != nil {
		if cfg.LoginLimit > 0 {
			loginLimit = cfg.LoginLimit
		}
		if cfg.LoginWindow > 0 {
			loginWindow = cfg.LoginWindow
		}
		if cfg.EnquiryLimit > 0 {
			enquiryLimit = cfg.EnquiryLimit
		}
		if cfg.EnquiryWindow > 0 {
			enquiryWindow = cfg.EnquiryWindow
		}
	}
	return &RateLimiterService{
		store: store,
		policies: map[ratelimit.Event]ratelimit.Policy{
			ratelimit.EventLogin:   {Limit: loginLimit, Window: loginWindow},
			ratelimit.EventEnquiry: {Limit: enquiryLimit, Window: enquiryWindow},
		},
		logger: logger,
	}
}

// CheckAndIncrement reports whether the request for (identifier, event) is
// blocked, counting it when admitted. A store error propagates unchanged; the
// caller must fail the request rather than let it through.
func (s *RateLimiterService) CheckAndIncrement(ctx context.Context, identifier string, event ratelimit.Event) (bool, error) {
	policy, ok := s.policies[event]
	if !ok {
		return false, fmt.Errorf("no rate limit policy for event %q", event)
	}
	if identifier == "" {
		identifier = ratelimit.IdentifierUnknown
	}

	rec, err := s.store.Get(ctx, identifier, event)
	if err != nil {
		return false, err
	}

	now := time.Now().UTC()
	count := 0
	if rec != nil && now.Sub(rec.LastRequest) < policy.Window {
		count = rec.Count
	}

	if count >= policy.Limit {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"identifier": identifier, "event": event, "count": count, "limit": policy.Limit}).Info("rate limiter: request blocked")
		}
		return true, nil
	}

	if err := s.store.Upsert(ctx, &ratelimit.Record{
		Identifier:  identifier,
		Event:       event,
		Count:       count + 1,
		LastRequest: now,
	}); err != nil {
		return false, err
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"identifier": identifier, "event": event, "count": count + 1, "limit": policy.Limit}).Debug("rate limiter: request admitted")
	}
	return false, nil
}

// AtomicRateLimiterService is the strict variant over an atomic window
// counter. Unlike RateLimiterService it counts rejected requests too, since
// the counter increments before the limit check; the two backends are not
// drop-in identical under sustained abuse.
type AtomicRateLimiterService struct {
	counter  ports.RateLimitCounter
	policies map[ratelimit.Event]ratelimit.Policy
	logger   *logrus.Logger
}

func NewAtomicRateLimiterService(counter ports.RateLimitCounter, cfg *RateLimiterConfig, logger *logrus.Logger) *AtomicRateLimiterService {
	base := NewRateLimiterService(nil, cfg, logger)
	return &AtomicRateLimiterService{counter: counter, policies: base.policies, logger: logger}
}

func (s *AtomicRateLimiterService) CheckAndIncrement(ctx context.Context, identifier string, event ratelimit.Event) (bool, error) {
	policy, ok := s.policies[event]
	if !ok {
		return false, fmt.Errorf("no rate limit policy for event %q", event)
	}
	if identifier == "" {
		identifier = ratelimit.IdentifierUnknown
	}

	// retain overlap window
	count, err := s.counter.IncrementWindow(ctx, identifier, event, policy.Window, policy.Window*2)
	if err != nil {
		return false, err
	}
	if count > policy.Limit {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"identifier": identifier, "event": event, "count": count, "limit": policy.Limit}).Info("rate limiter: request blocked")
		}
		return true, nil
	}
	return false, nil
}
