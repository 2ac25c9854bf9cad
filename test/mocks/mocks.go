package mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hazelmere/property-api/internal/core/domain/auth"
	"github.com/hazelmere/property-api/internal/core/domain/enquiry"
	"github.com/hazelmere/property-api/internal/core/domain/guide"
	"github.com/hazelmere/property-api/internal/core/domain/nearby"
	"github.com/hazelmere/property-api/internal/core/domain/ratelimit"
)

// RateLimitStoreMock is a lightweight mock for RateLimitStore
type RateLimitStoreMock struct {
	GetFn    func(ctx context.Context, identifier string, event ratelimit.Event) (*ratelimit.Record, error)
	UpsertFn func(ctx context.Context, rec *ratelimit.Record) error
}

func (m *RateLimitStoreMock) Get(ctx context.Context, identifier string, event ratelimit.Event) (*ratelimit.Record, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, identifier, event)
	}
	return nil, nil
}
func (m *RateLimitStoreMock) Upsert(ctx context.Context, rec *ratelimit.Record) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, rec)
	}
	return nil
}

// RateLimitCounterMock is a lightweight mock for RateLimitCounter
type RateLimitCounterMock struct {
	IncrementWindowFn func(ctx context.Context, identifier string, event ratelimit.Event, window, ttl time.Duration) (int, error)
}

func (m *RateLimitCounterMock) IncrementWindow(ctx context.Context, identifier string, event ratelimit.Event, window, ttl time.Duration) (int, error) {
	if m.IncrementWindowFn != nil {
		return m.IncrementWindowFn(ctx, identifier, event, window, ttl)
	}
	return 1, nil
}

// RateLimiterServiceMock is a lightweight mock for RateLimiterService
type RateLimiterServiceMock struct {
	CheckAndIncrementFn func(ctx context.Context, identifier string, event ratelimit.Event) (bool, error)
}

func (m *RateLimiterServiceMock) CheckAndIncrement(ctx context.Context, identifier string, event ratelimit.Event) (bool, error) {
	if m.CheckAndIncrementFn != nil {
		return m.CheckAndIncrementFn(ctx, identifier, event)
	}
	return false, nil
}

// GeocoderMock is a lightweight mock for Geocoder
type GeocoderMock struct {
	LookupOutcodeFn func(ctx context.Context, area string) (*guide.AreaInfo, error)
}

func (m *GeocoderMock) LookupOutcode(ctx context.Context, area string) (*guide.AreaInfo, error) {
	if m.LookupOutcodeFn != nil {
		return m.LookupOutcodeFn(ctx, area)
	}
	return nil, fmt.Errorf("not found")
}

// StatsClientMock is a lightweight mock for StatsClient
type StatsClientMock struct {
	AveragePriceFn func(ctx context.Context, adminCode string) (float64, error)
	PopulationFn   func(ctx context.Context, adminCode string) (float64, error)
}

func (m *StatsClientMock) AveragePrice(ctx context.Context, adminCode string) (float64, error) {
	if m.AveragePriceFn != nil {
		return m.AveragePriceFn(ctx, adminCode)
	}
	return 0, fmt.Errorf("no data")
}
func (m *StatsClientMock) Population(ctx context.Context, adminCode string) (float64, error) {
	if m.PopulationFn != nil {
		return m.PopulationFn(ctx, adminCode)
	}
	return 0, fmt.Errorf("no data")
}

// POIClientMock is a lightweight mock for POIClient
type POIClientMock struct {
	AmenityNamesFn func(ctx context.Context, lat, lon float64, radiusMeters int, types []string) ([]string, error)
}

func (m *POIClientMock) AmenityNames(ctx context.Context, lat, lon float64, radiusMeters int, types []string) ([]string, error) {
	if m.AmenityNamesFn != nil {
		return m.AmenityNamesFn(ctx, lat, lon, radiusMeters, types)
	}
	return nil, fmt.Errorf("no data")
}

// AreaGuideRepositoryMock is a lightweight mock for AreaGuideRepository
type AreaGuideRepositoryMock struct {
	GetFn    func(ctx context.Context, area string) (*guide.Entry, error)
	UpsertFn func(ctx context.Context, entry *guide.Entry) error
}

func (m *AreaGuideRepositoryMock) Get(ctx context.Context, area string) (*guide.Entry, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, area)
	}
	return nil, nil
}
func (m *AreaGuideRepositoryMock) Upsert(ctx context.Context, entry *guide.Entry) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, entry)
	}
	return nil
}

// NearbyCacheRepositoryMock is a lightweight mock for NearbyCacheRepository
type NearbyCacheRepositoryMock struct {
	GetFn    func(ctx context.Context, key nearby.CellKey) (*nearby.Entry, error)
	UpsertFn func(ctx context.Context, entry *nearby.Entry) error
}

func (m *NearbyCacheRepositoryMock) Get(ctx context.Context, key nearby.CellKey) (*nearby.Entry, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, key)
	}
	return nil, nil
}
func (m *NearbyCacheRepositoryMock) Upsert(ctx context.Context, entry *nearby.Entry) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, entry)
	}
	return nil
}

// MessageRepositoryMock is a lightweight mock for MessageRepository
type MessageRepositoryMock struct {
	InsertFn func(ctx context.Context, msg *enquiry.Message) error
}

func (m *MessageRepositoryMock) Insert(ctx context.Context, msg *enquiry.Message) error {
	if m.InsertFn != nil {
		return m.InsertFn(ctx, msg)
	}
	return nil
}

// UserRepositoryMock is a lightweight mock for UserRepository
type UserRepositoryMock struct {
	GetByEmailFn func(ctx context.Context, email string) (*auth.User, error)
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*auth.User, error)
}

func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, fmt.Errorf("not found")
}
func (m *UserRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("not found")
}

// EmailServiceMock is a lightweight mock for EmailService
type EmailServiceMock struct {
	SendEnquiryNotificationFn func(receiver *auth.User, m *enquiry.Message) error
}

func (m *EmailServiceMock) SendEnquiryNotification(receiver *auth.User, msg *enquiry.Message) error {
	if m.SendEnquiryNotificationFn != nil {
		return m.SendEnquiryNotificationFn(receiver, msg)
	}
	return nil
}

// AreaGuideServiceMock is a lightweight mock for AreaGuideService
type AreaGuideServiceMock struct {
	LookupFn func(ctx context.Context, area string) (*guide.AreaGuide, error)
}

func (m *AreaGuideServiceMock) Lookup(ctx context.Context, area string) (*guide.AreaGuide, error) {
	if m.LookupFn != nil {
		return m.LookupFn(ctx, area)
	}
	return &guide.AreaGuide{Amenities: []string{}}, nil
}

// NearbyServiceMock is a lightweight mock for NearbyService
type NearbyServiceMock struct {
	LookupFn func(ctx context.Context, lat, lon float64) (*nearby.Result, error)
}

func (m *NearbyServiceMock) Lookup(ctx context.Context, lat, lon float64) (*nearby.Result, error) {
	if m.LookupFn != nil {
		return m.LookupFn(ctx, lat, lon)
	}
	return &nearby.Result{Results: []string{}}, nil
}

// EnquiryServiceMock is a lightweight mock for EnquiryService
type EnquiryServiceMock struct {
	SubmitFn func(ctx context.Context, req *enquiry.SubmitRequest) error
}

func (m *EnquiryServiceMock) Submit(ctx context.Context, req *enquiry.SubmitRequest) error {
	if m.SubmitFn != nil {
		return m.SubmitFn(ctx, req)
	}
	return nil
}

// AuthServiceMock is a lightweight mock for AuthService
type AuthServiceMock struct {
	LoginFn func(ctx context.Context, req *auth.LoginRequest) (*auth.Session, error)
}

func (m *AuthServiceMock) Login(ctx context.Context, req *auth.LoginRequest) (*auth.Session, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, req)
	}
	return nil, fmt.Errorf("not configured")
}
