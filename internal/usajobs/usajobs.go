package usajobs

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL  = "https://data.usajobs.gov"
	apiHost = "data.usajobs.gov"

	userAgent = "usajobs-skill-bridge (jasonewillis@gmail.com)"

	// Max value for search results per page.
	perPage = "500"

	defaultTimeout    = 15 * time.Second
	defaultMaxRetries = 3
	baseRetryDelay    = 1 * time.Second
	maxRetryDelay     = 8 * time.Second
)

// Client talks to the USAJOBS Search API. Authentication is header based:
// an Authorization-Key plus an identifying User-Agent, both required.
type Client struct {
	// ctx used only for http requests right now
	ctx        context.Context
	apiKey     string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
	Host       string
	MaxRetries int
}

func New(ctx context.Context, logger *zap.Logger, apiKey string) *Client {
	return &Client{
		ctx:    ctx,
		apiKey: apiKey,
		APIURL: apiURL,
		Host:   apiHost,
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger:     logger,
		UserAgent:  userAgent,
		MaxRetries: defaultMaxRetries,
	}
}

// Search fetches raw postings for the given parameters, walking all result
// pages.
func (c *Client) Search(params *SearchParams) ([]*RawPosting, error) {
	return c.search(params)
}
