package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	impl "github.com/hazelmere/property-api/internal/application/services"
	"github.com/hazelmere/property-api/internal/core/domain/auth"
	"github.com/hazelmere/property-api/internal/core/domain/enquiry"
	"github.com/hazelmere/property-api/internal/core/domain/guide"
	"github.com/hazelmere/property-api/internal/core/domain/nearby"
	"github.com/hazelmere/property-api/internal/core/domain/ratelimit"
	"github.com/hazelmere/property-api/internal/core/ports"
	property_http "github.com/hazelmere/property-api/internal/infrastructure/httpserver"
	"github.com/hazelmere/property-api/test/mocks"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestServer(t *testing.T, deps property_http.ServerDeps) *httptest.Server {
	t.Helper()
	if deps.RateLimiterService == nil {
		deps.RateLimiterService = &mocks.RateLimiterServiceMock{}
	}
	srv := property_http.NewServer(&property_http.ServerConfig{
		Host:         "127.0.0.1",
		Port:         "0",
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		IdleTimeout:  time.Second,
	}, quietLogger(), deps)
	ts := httptest.NewServer(srv.Echo())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) (*http.Response, []byte) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, respBody
}

func TestNearbyEndpoint(t *testing.T) {
	nearbyMock := &mocks.NearbyServiceMock{
		LookupFn: func(ctx context.Context, lat, lon float64) (*nearby.Result, error) {
			return &nearby.Result{Results: []string{"Hackney School"}}, nil
		},
	}
	ts := newTestServer(t, property_http.ServerDeps{NearbyService: nearbyMock})

	resp, body := postJSON(t, ts.URL+"/api/v1/nearby", map[string]float64{"lat": 51.5433, "lon": -0.0554})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out nearby.Result
	require.NoError(t, json.Unmarshal(body, &out))
	require.Equal(t, []string{"Hackney School"}, out.Results)
}

func TestNearbyEndpoint_CoordinatesOutOfRange(t *testing.T) {
	ts := newTestServer(t, property_http.ServerDeps{NearbyService: &mocks.NearbyServiceMock{}})

	for _, body := range []map[string]float64{
		{"lat": 91, "lon": 0},
		{"lat": -91, "lon": 0},
		{"lat": 0, "lon": 181},
		{"lat": 0, "lon": -181},
	} {
		resp, respBody := postJSON(t, ts.URL+"/api/v1/nearby", body)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var out map[string]string
		require.NoError(t, json.Unmarshal(respBody, &out))
		require.NotEmpty(t, out["error"])
	}
}

func TestNearbyEndpoint_ServiceError(t *testing.T) {
	nearbyMock := &mocks.NearbyServiceMock{
		LookupFn: func(ctx context.Context, lat, lon float64) (*nearby.Result, error) {
			return nil, fmt.Errorf("db down")
		},
	}
	ts := newTestServer(t, property_http.ServerDeps{NearbyService: nearbyMock})

	resp, body := postJSON(t, ts.URL+"/api/v1/nearby", map[string]float64{"lat": 51.5, "lon": -0.05})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var out map[string]string
	require.NoError(t, json.Unmarshal(body, &out))
	require.Equal(t, "internal error", out["error"])
}

func TestAreaGuideEndpoint(t *testing.T) {
	price := 540000.0
	guideMock := &mocks.AreaGuideServiceMock{
		LookupFn: func(ctx context.Context, area string) (*guide.AreaGuide, error) {
			require.Equal(t, "E8", area)
			return &guide.AreaGuide{
				AveragePrice: &price,
				Demographics: guide.Demographics{Region: "London"},
				Amenities:    []string{"Hackney School"},
			}, nil
		},
	}
	ts := newTestServer(t, property_http.ServerDeps{AreaGuideService: guideMock})

	resp, body := postJSON(t, ts.URL+"/api/v1/area-guide", map[string]string{"area": " E8 "})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out guide.AreaGuide
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotNil(t, out.AveragePrice)
	require.Equal(t, 540000.0, *out.AveragePrice)
	require.Equal(t, "London", out.Demographics.Region)
}

func TestAreaGuideEndpoint_MissingArea(t *testing.T) {
	ts := newTestServer(t, property_http.ServerDeps{AreaGuideService: &mocks.AreaGuideServiceMock{}})

	resp, body := postJSON(t, ts.URL+"/api/v1/area-guide", map[string]string{"area": "   "})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var out map[string]string
	require.NoError(t, json.Unmarshal(body, &out))
	require.Equal(t, "area is required", out["error"])
}

func TestEnquiryEndpoint_Success(t *testing.T) {
	var submitted *enquiry.SubmitRequest
	enquiryMock := &mocks.EnquiryServiceMock{
		SubmitFn: func(ctx context.Context, req *enquiry.SubmitRequest) error {
			submitted = req
			return nil
		},
	}
	ts := newTestServer(t, property_http.ServerDeps{EnquiryService: enquiryMock})

	resp, body := postJSON(t, ts.URL+"/api/v1/enquiry", map[string]string{
		"propertyId": uuid.NewString(),
		"receiverId": uuid.NewString(),
		"content":    "Is it still available?",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out map[string]bool
	require.NoError(t, json.Unmarshal(body, &out))
	require.True(t, out["success"])
	require.NotNil(t, submitted)
	require.Equal(t, "Is it still available?", submitted.Content)
}

func TestEnquiryEndpoint_StorageFailureIs400(t *testing.T) {
	enquiryMock := &mocks.EnquiryServiceMock{
		SubmitFn: func(ctx context.Context, req *enquiry.SubmitRequest) error {
			return fmt.Errorf("insert failed")
		},
	}
	ts := newTestServer(t, property_http.ServerDeps{EnquiryService: enquiryMock})

	resp, body := postJSON(t, ts.URL+"/api/v1/enquiry", map[string]string{
		"propertyId": uuid.NewString(),
		"receiverId": uuid.NewString(),
		"content":    "hi",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var out map[string]string
	require.NoError(t, json.Unmarshal(body, &out))
	require.Equal(t, "insert failed", out["error"])
}

func TestEnquiryEndpoint_RateLimited(t *testing.T) {
	var gotIdentifier string
	limiter := &mocks.RateLimiterServiceMock{
		CheckAndIncrementFn: func(ctx context.Context, identifier string, event ratelimit.Event) (bool, error) {
			gotIdentifier = identifier
			require.Equal(t, ratelimit.EventEnquiry, event)
			return true, nil
		},
	}
	ts := newTestServer(t, property_http.ServerDeps{
		EnquiryService:     &mocks.EnquiryServiceMock{},
		RateLimiterService: limiter,
	})

	senderID := uuid.NewString()
	resp, body := postJSON(t, ts.URL+"/api/v1/enquiry", map[string]string{
		"propertyId": uuid.NewString(),
		"senderId":   senderID,
		"receiverId": uuid.NewString(),
		"content":    "hi",
	})
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	var out map[string]string
	require.NoError(t, json.Unmarshal(body, &out))
	require.Equal(t, "Too many enquiries", out["error"])
	require.Equal(t, senderID, gotIdentifier)
}

func TestEnquiryEndpoint_LimiterFailureIs500(t *testing.T) {
	limiter := &mocks.RateLimiterServiceMock{
		CheckAndIncrementFn: func(ctx context.Context, identifier string, event ratelimit.Event) (bool, error) {
			return false, fmt.Errorf("store down")
		},
	}
	submitCalled := false
	enquiryMock := &mocks.EnquiryServiceMock{
		SubmitFn: func(ctx context.Context, req *enquiry.SubmitRequest) error {
			submitCalled = true
			return nil
		},
	}
	ts := newTestServer(t, property_http.ServerDeps{
		EnquiryService:     enquiryMock,
		RateLimiterService: limiter,
	})

	resp, _ := postJSON(t, ts.URL+"/api/v1/enquiry", map[string]string{
		"propertyId": uuid.NewString(),
		"receiverId": uuid.NewString(),
		"content":    "hi",
	})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.False(t, submitCalled, "a limiter failure must fail closed")
}

func TestLoginEndpoint_Success(t *testing.T) {
	userID := uuid.New()
	authMock := &mocks.AuthServiceMock{
		LoginFn: func(ctx context.Context, req *auth.LoginRequest) (*auth.Session, error) {
			return &auth.Session{AccessToken: "token-x", TokenType: "bearer", ExpiresIn: 3600, UserID: userID, Email: req.Email}, nil
		},
	}
	ts := newTestServer(t, property_http.ServerDeps{AuthService: authMock})

	resp, body := postJSON(t, ts.URL+"/api/v1/login", map[string]string{"email": "a@b.com", "password": "pw"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Session *auth.Session `json:"session"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotNil(t, out.Session)
	require.Equal(t, "token-x", out.Session.AccessToken)
	require.Equal(t, userID, out.Session.UserID)
}

func TestLoginEndpoint_InvalidCredentials(t *testing.T) {
	authMock := &mocks.AuthServiceMock{
		LoginFn: func(ctx context.Context, req *auth.LoginRequest) (*auth.Session, error) {
			return nil, ports.ErrInvalidCredentials
		},
	}
	ts := newTestServer(t, property_http.ServerDeps{AuthService: authMock})

	resp, body := postJSON(t, ts.URL+"/api/v1/login", map[string]string{"email": "a@b.com", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var out map[string]string
	require.NoError(t, json.Unmarshal(body, &out))
	require.Equal(t, "invalid credentials", out["error"])
}

func TestLoginEndpoint_MissingFields(t *testing.T) {
	ts := newTestServer(t, property_http.ServerDeps{AuthService: &mocks.AuthServiceMock{}})

	resp, _ := postJSON(t, ts.URL+"/api/v1/login", map[string]string{"email": "a@b.com"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// TestLoginEndpoint_RateLimitedAfterFiveAttempts runs the real limiter over
// an in-memory store to exercise the route middleware end to end.
func TestLoginEndpoint_RateLimitedAfterFiveAttempts(t *testing.T) {
	authMock := &mocks.AuthServiceMock{
		LoginFn: func(ctx context.Context, req *auth.LoginRequest) (*auth.Session, error) {
			return nil, ports.ErrInvalidCredentials
		},
	}
	store := &memoryRateLimitStore{records: map[string]*ratelimit.Record{}}
	limiter := impl.NewRateLimiterService(store, nil, nil)
	ts := newTestServer(t, property_http.ServerDeps{
		AuthService:        authMock,
		RateLimiterService: limiter,
	})

	for i := 0; i < 5; i++ {
		resp, _ := postJSON(t, ts.URL+"/api/v1/login", map[string]string{"email": "a@b.com", "password": "wrong"})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "attempt %d should reach the handler", i+1)
	}

	resp, body := postJSON(t, ts.URL+"/api/v1/login", map[string]string{"email": "a@b.com", "password": "wrong"})
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	var out map[string]string
	require.NoError(t, json.Unmarshal(body, &out))
	require.Equal(t, "Too many login attempts", out["error"])
}

func TestCORS_Preflight(t *testing.T) {
	ts := newTestServer(t, property_http.ServerDeps{})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/v1/nearby", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://listings.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, property_http.ServerDeps{})

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	require.Equal(t, "property-api", out["service"])
}

// memoryRateLimitStore backs the end-to-end limiter test.
type memoryRateLimitStore struct {
	records map[string]*ratelimit.Record
}

func (s *memoryRateLimitStore) Get(ctx context.Context, identifier string, event ratelimit.Event) (*ratelimit.Record, error) {
	rec, ok := s.records[identifier+":"+string(event)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *memoryRateLimitStore) Upsert(ctx context.Context, rec *ratelimit.Record) error {
	cp := *rec
	s.records[rec.Identifier+":"+string(rec.Event)] = &cp
	return nil
}
