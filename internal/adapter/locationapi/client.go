package locationapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/agropredict/agropredict/internal/domain"
	"github.com/agropredict/agropredict/internal/observability"
)

// ErrUnsuccessful is returned when the API answers with a non-200 status or
// an envelope whose success flag is false. Callers treat it as a soft failure.
var ErrUnsuccessful = errors.New("location API request unsuccessful")

// Client implements domain.LocationSource using the India location API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a location API client with a fixed per-request timeout.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// StatesURL is the URL of the states listing. It doubles as its cache key.
func (c *Client) StatesURL() string {
	return c.baseURL + "/states"
}

// DistrictsURL is the URL of the district listing for a state.
func (c *Client) DistrictsURL(state string) string {
	return c.baseURL + "/districts?" + url.Values{"state": {state}}.Encode()
}

// States lists every state.
func (c *Client) States(ctx context.Context) ([]domain.Region, error) {
	env, err := c.doRequest(ctx, c.StatesURL(), "states")
	if err != nil {
		return nil, err
	}
	return env.Data.States, nil
}

// Districts lists the districts of the named state.
func (c *Client) Districts(ctx context.Context, state string) ([]domain.Region, error) {
	env, err := c.doRequest(ctx, c.DistrictsURL(state), "districts")
	if err != nil {
		return nil, err
	}
	return env.Data.Districts, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL, endpoint string) (envelope, error) {
	start := time.Now()
	env, err := c.fetch(ctx, fullURL, endpoint)
	c.metrics.LocationAPIDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		c.metrics.LocationRequests.WithLabelValues(endpoint, "success").Inc()
	case errors.Is(err, ErrUnsuccessful):
		c.metrics.LocationRequests.WithLabelValues(endpoint, "unsuccessful").Inc()
	default:
		c.metrics.LocationRequests.WithLabelValues(endpoint, "error").Inc()
	}
	return env, err
}

func (c *Client) fetch(ctx context.Context, fullURL, endpoint string) (envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return envelope{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("location API request", "endpoint", endpoint, "url", fullURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return envelope{}, fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return envelope{}, fmt.Errorf("%w: %s: status %d: %s", ErrUnsuccessful, endpoint, resp.StatusCode, body)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return envelope{}, fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	if !env.Success {
		return envelope{}, fmt.Errorf("%w: %s: success=false", ErrUnsuccessful, endpoint)
	}
	return env, nil
}

// Location API response types.

type envelope struct {
	Success bool `json:"success"`
	Data    struct {
		States    []domain.Region `json:"states"`
		Districts []domain.Region `json:"districts"`
	} `json:"data"`
}
