// Package memberful is a client for the Memberful GraphQL API and the parent
// package of the webhook ingestion pipeline's ambient plumbing (Logger,
// Metrics). The client issues read queries and returns strongly-typed
// records; webhook deliveries are handled separately by pkg/webhooks and the
// middleware receivers.
package memberful

import (
	"net/http"
	"time"
)

// Version is the library version, reported in the User-Agent header.
const Version = "0.1.0"

const (
	// DefaultBaseURL is the Memberful GraphQL endpoint.
	DefaultBaseURL = "https://memberful.com/api/graphql"

	defaultTimeout       = 30 * time.Second
	defaultMaxRetries    = 3
	defaultRetryInterval = 2 * time.Second
	defaultPageSize      = 100
)

// Config defines the configuration for the API client.
type Config struct {
	// APIKey is the Memberful API key (required). Create one under
	// Settings > Custom Applications in the Memberful dashboard.
	APIKey string

	// BaseURL overrides the GraphQL endpoint. Defaults to DefaultBaseURL.
	// Mainly useful for tests.
	BaseURL string

	// HTTPClient is an optional HTTP client. If nil, a default client with a
	// 30s timeout is used. Allows custom timeouts, proxies, or
	// instrumentation.
	HTTPClient *http.Client

	// Logger receives structured client logs. Defaults to NoopLogger.
	Logger Logger

	// Metrics receives API call metrics. Defaults to NoopMetrics.
	// Use metrics/prometheus.NewMetrics for a Prometheus-backed collector.
	Metrics Metrics

	// MaxRetries is how many times a transport failure, 429 or 5xx response
	// is retried before giving up. Defaults to 3. Set negative to disable
	// retries.
	MaxRetries int

	// RetryInterval is the pause between retries. Defaults to 2s.
	RetryInterval time.Duration

	// UserAgent overrides the User-Agent header.
	UserAgent string
}

// Client issues read queries against the Memberful GraphQL API. It is safe
// for concurrent use.
type Client struct {
	apiKey        string
	baseURL       string
	userAgent     string
	httpClient    *http.Client
	logger        Logger
	metrics       Metrics
	maxRetries    int
	retryInterval time.Duration
}

// NewClient creates a new API client.
func NewClient(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	logger := config.Logger
	if logger == nil {
		logger = &NoopLogger{}
	}

	metrics := config.Metrics
	if metrics == nil {
		metrics = &NoopMetrics{}
	}

	maxRetries := config.MaxRetries
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	} else if maxRetries < 0 {
		maxRetries = 0
	}

	retryInterval := config.RetryInterval
	if retryInterval <= 0 {
		retryInterval = defaultRetryInterval
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "memberful-go/" + Version
	}

	return &Client{
		apiKey:        config.APIKey,
		baseURL:       baseURL,
		userAgent:     userAgent,
		httpClient:    httpClient,
		logger:        logger,
		metrics:       metrics,
		maxRetries:    maxRetries,
		retryInterval: retryInterval,
	}, nil
}
