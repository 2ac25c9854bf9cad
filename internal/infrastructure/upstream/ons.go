package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hazelmere/property-api/internal/core/ports"
)

// ONSClient fetches time-series observations from the ONS beta API.
// UKHPI carries the house price index, MYE2 the mid-year population estimate.
type ONSClient struct {
	baseURL string
	client  *http.Client
	logger  *logrus.Logger
}

func NewONSClient(baseURL string, timeout time.Duration, logger *logrus.Logger) ports.StatsClient {
	return &ONSClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type observationsResponse struct {
	Observations []struct {
		Value json.Number `json:"value"`
	} `json:"observations"`
}

// AveragePrice returns the latest UKHPI observation for the geography.
func (c *ONSClient) AveragePrice(ctx context.Context, adminCode string) (v float64, err error) {
	defer func() { observeLookup("ons_ukhpi", err) }()
	return c.latestObservation(ctx, fmt.Sprintf(
		"%s/datasets/UKHPI/editions/time-series/versions/1/observations?time=latest&geography=%s",
		c.baseURL, adminCode,
	))
}

// Population returns the latest all-ages population estimate for the geography.
func (c *ONSClient) Population(ctx context.Context, adminCode string) (v float64, err error) {
	defer func() { observeLookup("ons_mye2", err) }()
	return c.latestObservation(ctx, fmt.Sprintf(
		"%s/datasets/MYE2/editions/time-series/versions/1/observations?time=latest&geography=%s&sex=0&age=ALL",
		c.baseURL, adminCode,
	))
}

func (c *ONSClient) latestObservation(ctx context.Context, endpoint string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build observations request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.WithError(err).Warn("upstream: ONS observations request failed")
		}
		return 0, fmt.Errorf("observations request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("observations request returned status %d", resp.StatusCode)
	}

	var body observationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode observations response: %w", err)
	}
	if len(body.Observations) == 0 {
		return 0, fmt.Errorf("no observations in response")
	}

	value, err := body.Observations[0].Value.Float64()
	if err != nil {
		return 0, fmt.Errorf("non-numeric observation value %q", body.Observations[0].Value)
	}
	return value, nil
}
