package upstream

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestAmenityNames(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotQuery = string(body)
		_, _ = w.Write([]byte(`{"elements":[
			{"tags":{"amenity":"school","name":"Hackney School"}},
			{"tags":{"amenity":"cafe"}},
			{"tags":{"amenity":"pub","name":"The Dove"}}
		]}`))
	}))
	defer ts.Close()

	c := NewOverpassClient(ts.URL, time.Second, nil)
	names, err := c.AmenityNames(context.Background(), 51.5433, -0.0554, 1000, []string{"school", "pub"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 2 || names[0] != "Hackney School" || names[1] != "The Dove" {
		t.Fatalf("unnamed nodes should be dropped, got %v", names)
	}
	if !strings.Contains(gotQuery, "around:1000,51.5433,-0.0554") {
		t.Fatalf("query should carry the radius and raw coordinates, got %q", gotQuery)
	}
	if !strings.Contains(gotQuery, `[amenity~"(school|pub)"]`) {
		t.Fatalf("query should filter on the given amenity types, got %q", gotQuery)
	}
}

func TestAmenityNames_NilTypesMatchesAnyAmenity(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotQuery = string(body)
		_, _ = w.Write([]byte(`{"elements":[]}`))
	}))
	defer ts.Close()

	c := NewOverpassClient(ts.URL, time.Second, nil)
	names, err := c.AmenityNames(context.Background(), 51.5, -0.05, 1000, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected no names, got %v", names)
	}
	if !strings.Contains(gotQuery, "[amenity]") || strings.Contains(gotQuery, "amenity~") {
		t.Fatalf("nil types should use the bare amenity filter, got %q", gotQuery)
	}
}

func TestAmenityNames_UpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c := NewOverpassClient(ts.URL, time.Second, nil)
	if _, err := c.AmenityNames(context.Background(), 51.5, -0.05, 1000, nil); err == nil {
		t.Fatalf("expected error for upstream 429")
	}
}
