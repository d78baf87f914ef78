package usajobs

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip, deflate, br"
)

// sleep is swapped in tests.
var sleep = time.Sleep

type searchEnvelope struct {
	SearchResult struct {
		SearchResultCount    int          `json:"SearchResultCount"`
		SearchResultCountAll int          `json:"SearchResultCountAll"`
		SearchResultItems    []searchItem `json:"SearchResultItems"`
		UserArea             struct {
			NumberOfPages string `json:"NumberOfPages"`
		} `json:"UserArea"`
	} `json:"SearchResult"`
}

type searchItem struct {
	MatchedObjectID         string         `json:"MatchedObjectId"`
	MatchedObjectDescriptor map[string]any `json:"MatchedObjectDescriptor"`
}

// getSearch makes a GET request against the Search endpoint, retrying on
// transport failures and on rate-limit/auth/server statuses with exponential
// backoff. Other statuses fail immediately.
func (c *Client) getSearch(q url.Values) (*searchEnvelope, error) {
	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, c.APIURL+searchPath, nil)
	if err != nil {
		return nil, err
	}

	req = c.setHeaders(req)
	req.URL.RawQuery = q.Encode()

	var lastErr error
	for attempt := 0; attempt < c.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := retryBackoff(attempt)
			c.logger.Warn("retrying search request",
				zap.Int("attempt", attempt+1),
				zap.Duration("wait", wait),
				zap.Error(lastErr),
			)
			sleep(wait)
		}

		c.logger.Debug("make request", zap.String("url", req.URL.String()))

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			// Timeouts and connection errors share the retry budget.
			lastErr = err
			continue
		}

		if retryableStatus(resp.StatusCode) {
			lastErr = fmt.Errorf("api error: %s", resp.Status)
			resp.Body.Close()
			continue
		}

		env, err := parseSearchEnvelope(resp)
		if err != nil {
			return nil, err
		}

		return env, nil
	}

	return nil, fmt.Errorf("search request failed after %d attempts: %w", c.MaxRetries, lastErr)
}

// retryableStatus covers rate limiting, auth hiccups and server errors.
// USAJOBS intermittently answers 401/403 under load even with a valid key.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusUnauthorized, http.StatusForbidden:
		return true
	}
	return code >= 500
}

func retryBackoff(attempt int) time.Duration {
	wait := baseRetryDelay << (attempt - 1)
	if wait > maxRetryDelay {
		wait = maxRetryDelay
	}
	return wait
}

func parseSearchEnvelope(resp *http.Response) (*searchEnvelope, error) {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		body = gz
	}

	var env *searchEnvelope
	if err := json.NewDecoder(body).Decode(&env); err != nil {
		return nil, err
	}

	return env, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	// The Search API routes on the Host header.
	req.Host = c.Host
	req.Header.Set("Authorization-Key", c.apiKey)
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}
