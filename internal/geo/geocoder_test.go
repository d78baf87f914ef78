package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func newTestClient(server *httptest.Server) *NominatimClient {
	client := NewNominatim(zap.NewNop())
	client.APIURL = server.URL
	client.HTTPClient = server.Client()
	return client
}

func TestGeocodeReturnsPoint(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(`[{"lat": "36.1699", "lon": "-115.1398"}]`))
	}))
	defer server.Close()

	point, err := newTestClient(server).Geocode(context.Background(), "Las Vegas, NV")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if gotQuery != "Las Vegas, NV" {
		t.Fatalf("unexpected query: %q", gotQuery)
	}
	if point.Lat != 36.1699 || point.Lon != -115.1398 {
		t.Fatalf("unexpected point: %+v", point)
	}
}

func TestGeocodeNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, err := newTestClient(server).Geocode(context.Background(), "nowhere at all")
	if !errors.Is(err, ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
}

func TestGeocodeBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	if _, err := newTestClient(server).Geocode(context.Background(), "Las Vegas, NV"); err == nil {
		t.Fatal("expected error on bad status")
	}
}

func TestGeocodeRejectsOutOfRangeCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[{"lat": "91.0", "lon": "0.0"}]`))
	}))
	defer server.Close()

	if _, err := newTestClient(server).Geocode(context.Background(), "broken"); err == nil {
		t.Fatal("expected error on out-of-range coordinates")
	}
}

func TestGeocodeRejectsUnparsableCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[{"lat": "not-a-number", "lon": "0.0"}]`))
	}))
	defer server.Close()

	if _, err := newTestClient(server).Geocode(context.Background(), "broken"); err == nil {
		t.Fatal("expected error on unparsable coordinates")
	}
}
