package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	impl "github.com/hazelmere/property-api/internal/application/services"
	"github.com/hazelmere/property-api/internal/core/domain/ratelimit"
	"github.com/hazelmere/property-api/test/mocks"
)

// memoryRateLimitStore is an in-memory RateLimitStore for limiter tests.
type memoryRateLimitStore struct {
	records map[string]*ratelimit.Record
}

func newMemoryRateLimitStore() *memoryRateLimitStore {
	return &memoryRateLimitStore{records: make(map[string]*ratelimit.Record)}
}

func (s *memoryRateLimitStore) key(identifier string, event ratelimit.Event) string {
	return identifier + ":" + string(event)
}

func (s *memoryRateLimitStore) Get(ctx context.Context, identifier string, event ratelimit.Event) (*ratelimit.Record, error) {
	rec, ok := s.records[s.key(identifier, event)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *memoryRateLimitStore) Upsert(ctx context.Context, rec *ratelimit.Record) error {
	cp := *rec
	s.records[s.key(rec.Identifier, rec.Event)] = &cp
	return nil
}

func TestCheckAndIncrement_AdmitsUpToLimitThenBlocks(t *testing.T) {
	store := newMemoryRateLimitStore()
	svc := impl.NewRateLimiterService(store, &impl.RateLimiterConfig{LoginLimit: 5, LoginWindow: time.Minute}, nil)

	for i := 0; i < 5; i++ {
		blocked, err := svc.CheckAndIncrement(context.Background(), "1.2.3.4", ratelimit.EventLogin)
		if err != nil {
			t.Fatalf("unexpected error on attempt %d: %v", i+1, err)
		}
		if blocked {
			t.Fatalf("attempt %d should be admitted", i+1)
		}
	}

	blocked, err := svc.CheckAndIncrement(context.Background(), "1.2.3.4", ratelimit.EventLogin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !blocked {
		t.Fatalf("6th attempt should be blocked")
	}
}

func TestCheckAndIncrement_BlockedRequestsNotCounted(t *testing.T) {
	store := newMemoryRateLimitStore()
	svc := impl.NewRateLimiterService(store, &impl.RateLimiterConfig{LoginLimit: 2, LoginWindow: time.Minute}, nil)

	for i := 0; i < 2; i++ {
		if _, err := svc.CheckAndIncrement(context.Background(), "id", ratelimit.EventLogin); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		blocked, err := svc.CheckAndIncrement(context.Background(), "id", ratelimit.EventLogin)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !blocked {
			t.Fatalf("over-limit attempt should be blocked")
		}
	}

	rec, _ := store.Get(context.Background(), "id", ratelimit.EventLogin)
	if rec == nil || rec.Count != 2 {
		t.Fatalf("blocked requests must not advance the count, got %+v", rec)
	}
}

func TestCheckAndIncrement_WindowRollover(t *testing.T) {
	store := newMemoryRateLimitStore()
	svc := impl.NewRateLimiterService(store, &impl.RateLimiterConfig{LoginLimit: 5, LoginWindow: time.Minute}, nil)

	// Seed a maxed-out record whose last request predates the window.
	if err := store.Upsert(context.Background(), &ratelimit.Record{
		Identifier:  "stale",
		Event:       ratelimit.EventLogin,
		Count:       5,
		LastRequest: time.Now().UTC().Add(-2 * time.Minute),
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	blocked, err := svc.CheckAndIncrement(context.Background(), "stale", ratelimit.EventLogin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if blocked {
		t.Fatalf("request after window rollover should be admitted")
	}

	rec, _ := store.Get(context.Background(), "stale", ratelimit.EventLogin)
	if rec == nil || rec.Count != 1 {
		t.Fatalf("count should restart at 1 after rollover, got %+v", rec)
	}
}

func TestCheckAndIncrement_EmptyIdentifierUsesUnknown(t *testing.T) {
	store := newMemoryRateLimitStore()
	svc := impl.NewRateLimiterService(store, nil, nil)

	if _, err := svc.CheckAndIncrement(context.Background(), "", ratelimit.EventEnquiry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, _ := store.Get(context.Background(), ratelimit.IdentifierUnknown, ratelimit.EventEnquiry)
	if rec == nil || rec.Count != 1 {
		t.Fatalf("expected record under the unknown identifier, got %+v", rec)
	}
}

func TestCheckAndIncrement_StoreErrorPropagates(t *testing.T) {
	store := &mocks.RateLimitStoreMock{
		GetFn: func(ctx context.Context, identifier string, event ratelimit.Event) (*ratelimit.Record, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}
	svc := impl.NewRateLimiterService(store, nil, nil)

	if _, err := svc.CheckAndIncrement(context.Background(), "id", ratelimit.EventLogin); err == nil {
		t.Fatalf("expected store error to propagate")
	}
}

func TestCheckAndIncrement_UnknownEvent(t *testing.T) {
	svc := impl.NewRateLimiterService(newMemoryRateLimitStore(), nil, nil)
	if _, err := svc.CheckAndIncrement(context.Background(), "id", ratelimit.Event("signup")); err == nil {
		t.Fatalf("expected error for event without a policy")
	}
}

func TestAtomicCheckAndIncrement_BlocksOverLimit(t *testing.T) {
	var calls int
	counter := &mocks.RateLimitCounterMock{
		IncrementWindowFn: func(ctx context.Context, identifier string, event ratelimit.Event, window, ttl time.Duration) (int, error) {
			calls++
			return calls, nil
		},
	}
	svc := impl.NewAtomicRateLimiterService(counter, &impl.RateLimiterConfig{LoginLimit: 3, LoginWindow: time.Minute}, nil)

	for i := 0; i < 3; i++ {
		blocked, err := svc.CheckAndIncrement(context.Background(), "id", ratelimit.EventLogin)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if blocked {
			t.Fatalf("attempt %d should be admitted", i+1)
		}
	}

	blocked, err := svc.CheckAndIncrement(context.Background(), "id", ratelimit.EventLogin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !blocked {
		t.Fatalf("attempt over the limit should be blocked")
	}
}

func TestAtomicCheckAndIncrement_CounterErrorPropagates(t *testing.T) {
	counter := &mocks.RateLimitCounterMock{
		IncrementWindowFn: func(ctx context.Context, identifier string, event ratelimit.Event, window, ttl time.Duration) (int, error) {
			return 0, fmt.Errorf("redis down")
		},
	}
	svc := impl.NewAtomicRateLimiterService(counter, nil, nil)

	if _, err := svc.CheckAndIncrement(context.Background(), "id", ratelimit.EventEnquiry); err == nil {
		t.Fatalf("expected counter error to propagate")
	}
}
