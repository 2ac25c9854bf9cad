package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hazelmere/property-api/internal/core/ports"
)

// OverpassClient queries OpenStreetMap nodes through an Overpass interpreter.
type OverpassClient struct {
	url    string
	client *http.Client
	logger *logrus.Logger
}

func NewOverpassClient(url string, timeout time.Duration, logger *logrus.Logger) ports.POIClient {
	return &OverpassClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type overpassResponse struct {
	Elements []struct {
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

// AmenityNames returns the names of amenity-tagged nodes around the
// coordinate. types narrows the amenity tag; nil matches any. Nodes without
// a name tag are dropped.
func (c *OverpassClient) AmenityNames(ctx context.Context, lat, lon float64, radiusMeters int, types []string) (names []string, err error) {
	defer func() { observeLookup("overpass", err) }()

	filter := "[amenity]"
	if len(types) > 0 {
		filter = fmt.Sprintf("[amenity~\"(%s)\"]", strings.Join(types, "|"))
	}
	query := fmt.Sprintf("[out:json];(node(around:%d,%s,%s)%s;);out;",
		radiusMeters,
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lon, 'f', -1, 64),
		filter,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(query))
	if err != nil {
		return nil, fmt.Errorf("failed to build overpass request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.WithFields(logrus.Fields{"lat": lat, "lon": lon}).WithError(err).Warn("upstream: overpass query failed")
		}
		return nil, fmt.Errorf("overpass query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass query returned status %d", resp.StatusCode)
	}

	var body overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode overpass response: %w", err)
	}

	names = make([]string, 0, len(body.Elements))
	for _, el := range body.Elements {
		if name := el.Tags["name"]; name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}
