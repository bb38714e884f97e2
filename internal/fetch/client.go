// Package fetch retrieves raw coded weather products over HTTP: METAR and
// TAF text from the Aviation Weather Center and reconnaissance products
// from the National Hurricane Center.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wxtools/pkg/logger"
)

// ProductType identifies the kind of product being fetched, for logging.
type ProductType string

const (
	ProductMETAR ProductType = "metar"
	ProductTAF   ProductType = "taf"
	ProductRecon ProductType = "recon"
)

// Config contains the endpoints and retry behavior for the fetch client.
type Config struct {
	// AviationBaseURL is the Aviation Weather Center data API root,
	// e.g. https://aviationweather.gov/api/data
	AviationBaseURL string `toml:"aviation_base_url"`
	// ReconBaseURL is the NHC text product root,
	// e.g. https://www.nhc.noaa.gov/text
	ReconBaseURL          string `toml:"recon_base_url"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	MaxRetries            int    `toml:"max_retries"`
}

// DefaultConfig returns the production endpoints with modest retry limits.
func DefaultConfig() Config {
	return Config{
		AviationBaseURL:       "https://aviationweather.gov/api/data",
		ReconBaseURL:          "https://www.nhc.noaa.gov/text",
		RequestTimeoutSeconds: 10,
		MaxRetries:            2,
	}
}

// Client fetches raw weather product text from the upstream services.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a fetch client with the given configuration.
func NewClient(config Config, log *logger.Logger) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.RequestTimeoutSeconds) * time.Second,
		},
		logger: log.Named("fetch"),
	}
}

// FetchMETAR fetches the latest raw METAR for a station code.
func (c *Client) FetchMETAR(ctx context.Context, stationCode string) (string, error) {
	url := fmt.Sprintf("%s/metar?ids=%s&format=raw&taf=false", c.config.AviationBaseURL, stationCode)
	body, err := c.fetchWithRetry(ctx, url, ProductMETAR, stationCode)
	if err != nil {
		return "", err
	}
	if body == "" {
		return "", fmt.Errorf("no METAR data found for station %s", stationCode)
	}
	return body, nil
}

// FetchTAF fetches the latest raw TAF for a station code.
func (c *Client) FetchTAF(ctx context.Context, stationCode string) (string, error) {
	url := fmt.Sprintf("%s/taf?ids=%s&format=raw", c.config.AviationBaseURL, stationCode)
	body, err := c.fetchWithRetry(ctx, url, ProductTAF, stationCode)
	if err != nil {
		return "", err
	}
	if body == "" {
		return "", fmt.Errorf("no TAF data found for station %s", stationCode)
	}
	return body, nil
}

// FetchRecon fetches a raw reconnaissance text product by product id,
// e.g. "URNT15-KNHC.shtml" for the latest Atlantic HDOB.
func (c *Client) FetchRecon(ctx context.Context, productID string) (string, error) {
	url := fmt.Sprintf("%s/%s", c.config.ReconBaseURL, productID)
	body, err := c.fetchWithRetry(ctx, url, ProductRecon, productID)
	if err != nil {
		return "", err
	}
	if body == "" {
		return "", fmt.Errorf("no recon data found for product %s", productID)
	}
	return body, nil
}

// fetchWithRetry performs an HTTP GET with exponential backoff between
// attempts and returns the trimmed response body.
func (c *Client) fetchWithRetry(ctx context.Context, url string, product ProductType, id string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoffDuration := time.Duration(500*(1<<uint(attempt-1))) * time.Millisecond
			c.logger.Info("Retrying product fetch",
				logger.String("type", string(product)),
				logger.String("id", id),
				logger.Int("attempt", attempt),
				logger.String("backoff", backoffDuration.String()))
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoffDuration):
			}
		}

		body, err := c.fetchOnce(ctx, url)
		if err != nil {
			lastErr = err
			c.logger.Warn("Product fetch failed, may retry",
				logger.String("type", string(product)),
				logger.String("id", id),
				logger.Error(err),
				logger.Int("attempt", attempt+1),
				logger.Int("max_attempts", c.config.MaxRetries+1))
			continue
		}

		if attempt > 0 {
			c.logger.Info("Successfully fetched product after retries",
				logger.String("type", string(product)),
				logger.String("id", id),
				logger.Int("attempts_needed", attempt+1))
		}
		return body, nil
	}

	c.logger.Error("All attempts to fetch product failed",
		logger.String("type", string(product)),
		logger.String("id", id),
		logger.Error(lastErr),
		logger.Int("max_attempts", c.config.MaxRetries+1))
	return "", lastErr
}

func (c *Client) fetchOnce(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("error building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}
	return strings.TrimSpace(string(body)), nil
}
