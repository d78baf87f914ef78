package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	nominatimURL     = "https://nominatim.openstreetmap.org"
	defaultUserAgent = "usajobs-skill-bridge (jasonewillis@gmail.com)"
)

// ErrNoResults is returned when the geocoder resolves the request but finds
// no match for the address.
var ErrNoResults = errors.New("no geocoding results for address")

// Geocoder resolves a free-text address into a coordinate pair. Retry policy
// is owned by the caller, not the implementation.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Point, error)
}

// NominatimClient geocodes addresses via the OpenStreetMap Nominatim API.
type NominatimClient struct {
	HTTPClient *http.Client
	APIURL     string
	UserAgent  string

	logger *zap.Logger
}

func NewNominatim(logger *zap.Logger) *NominatimClient {
	return &NominatimClient{
		APIURL: nominatimURL,
		HTTPClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		UserAgent: defaultUserAgent,
		logger:    logger,
	}
}

// nominatimResult is the subset of the search response we care about.
// Nominatim returns coordinates as strings.
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (c *NominatimClient) Geocode(ctx context.Context, address string) (*Point, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL+"/search", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.URL.RawQuery = q.Encode()

	c.logger.Debug("geocoding address", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, ErrNoResults
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse longitude %q: %w", results[0].Lon, err)
	}

	point := Point{Lat: lat, Lon: lon}
	if !point.Valid() {
		return nil, fmt.Errorf("geocoder returned out-of-range coordinates (%f, %f)", lat, lon)
	}

	return &point, nil
}
