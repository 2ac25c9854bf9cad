package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hazelmere/property-api/internal/core/domain/guide"
	"github.com/hazelmere/property-api/internal/core/ports"
)

// PostcodesClient resolves UK outcodes via the postcodes.io API.
type PostcodesClient struct {
	baseURL string
	client  *http.Client
	logger  *logrus.Logger
}

func NewPostcodesClient(baseURL string, timeout time.Duration, logger *logrus.Logger) ports.Geocoder {
	return &PostcodesClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type outcodeResponse struct {
	Result *struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
		Region    string   `json:"region"`
		Codes     struct {
			Laua string `json:"laua"`
		} `json:"codes"`
	} `json:"result"`
}

// LookupOutcode resolves an outcode to coordinates and its local-authority
// geography code.
func (c *PostcodesClient) LookupOutcode(ctx context.Context, area string) (info *guide.AreaInfo, err error) {
	defer func() { observeLookup("postcodes", err) }()

	endpoint := fmt.Sprintf("%s/outcodes/%s", c.baseURL, url.PathEscape(area))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build outcode request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.WithFields(logrus.Fields{"area": area}).WithError(err).Warn("upstream: outcode lookup failed")
		}
		return nil, fmt.Errorf("outcode lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("outcode lookup returned status %d", resp.StatusCode)
	}

	var body outcodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode outcode response: %w", err)
	}
	if body.Result == nil {
		return nil, fmt.Errorf("outcode %s not found", area)
	}

	return &guide.AreaInfo{
		Latitude:  body.Result.Latitude,
		Longitude: body.Result.Longitude,
		AdminCode: body.Result.Codes.Laua,
		Region:    body.Result.Region,
	}, nil
}
