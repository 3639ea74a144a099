package golfgenius

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"
	"github.com/mauv0809/tga-scoring-audit/internal/config"
	"github.com/mauv0809/tga-scoring-audit/internal/scoring"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const (
	maxEventPages  = 1000
	previewLength  = 200
	userAgent      = "TGAScoringAudit/1.0"
	maxBackoffStep = 30 * time.Second
)

// Keys that may hold the pairing groups of a tee sheet response object.
var teeSheetKeys = []string{"tee_sheet", "pairing_groups", "data", "groups"}

// APIClient talks to the Golf Genius v2 API. The API key is part of every
// request path.
type APIClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	apiKey     string
	BaseURL    string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

// Option customizes an APIClient.
type Option func(*APIClient)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *APIClient) { c.httpClient = hc }
}

// Ensure APIClient implements the Provider interface.
var _ Provider = (*APIClient)(nil)

// NewClient creates a Golf Genius client. It fails with ErrAuthentication when
// the key is missing or malformed.
func NewClient(cfg config.GolfGeniusConfig, opts ...Option) (*APIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: GOLF_GENIUS_API_KEY not found in environment variables", ErrAuthentication)
	}
	if !config.ValidateAPIKey(cfg.APIKey) {
		return nil, fmt.Errorf("%w: API key format is invalid", ErrAuthentication)
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = config.DefaultRequestTimeout
	}

	limit := rate.Inf
	if cfg.RateLimitDelay > 0 {
		limit = rate.Every(cfg.RateLimitDelay)
	}

	c := &APIClient{
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(limit, 1),
		apiKey:     cfg.APIKey,
		BaseURL:    baseURL,
		timeout:    timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "golf-genius",
		Timeout: time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		// Client errors such as 404 say nothing about the API's health.
		IsSuccessful: func(err error) bool {
			return err == nil || !retryable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetSeasons fetches every season visible to the API key.
func (c *APIClient) GetSeasons(ctx context.Context) ([]Season, error) {
	body, err := c.get(ctx, "seasons", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch seasons: %w", err)
	}

	var items []any
	switch v := body.(type) {
	case []any:
		items = v
	case map[string]any:
		list, ok := v["seasons"].([]any)
		if !ok {
			return nil, validationErrorf("Unexpected seasons response format")
		}
		items = list
	default:
		return nil, validationErrorf("Unexpected seasons response format")
	}

	seasons := make([]Season, 0, len(items))
	for _, data := range unwrapItems(items, "season") {
		if err := requireFields(data, "id", "name"); err != nil {
			return nil, err
		}
		seasons = append(seasons, SeasonFromMap(data))
	}
	log.Debug("Fetched seasons", "count", len(seasons))
	return seasons, nil
}

// GetEvents fetches one page of events for a season.
func (c *APIClient) GetEvents(ctx context.Context, seasonID string, page int) ([]Event, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("season", seasonID)

	body, err := c.get(ctx, "events", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}

	var items []any
	switch v := body.(type) {
	case []any:
		items = v
	case map[string]any:
		items, _ = v["events"].([]any)
	}

	events := make([]Event, 0, len(items))
	for _, data := range unwrapItems(items, "event") {
		if err := requireFields(data, "id", "name"); err != nil {
			return nil, err
		}
		events = append(events, EventFromMap(data))
	}
	return events, nil
}

// GetAllEvents walks the event pages of a season until an empty page. A
// failure after the first page ends the walk with what was collected.
func (c *APIClient) GetAllEvents(ctx context.Context, seasonID string) ([]Event, error) {
	var all []Event
	for page := 1; ; page++ {
		events, err := c.GetEvents(ctx, seasonID, page)
		if err != nil {
			if page == 1 || ctx.Err() != nil {
				return nil, err
			}
			log.Warn("Failed to fetch events page, stopping pagination", "page", page, "error", err)
			break
		}
		log.Debug("Fetched events page", "page", page, "count", len(events))
		if len(events) == 0 {
			break
		}
		all = append(all, events...)

		if page >= maxEventPages {
			log.Warn("Stopped event pagination at safety limit", "pages", maxEventPages)
			break
		}
	}
	log.Info("Fetched all events", "season", seasonID, "count", len(all))
	return all, nil
}

// GetRounds fetches the rounds of an event.
func (c *APIClient) GetRounds(ctx context.Context, eventID string) ([]Round, error) {
	body, err := c.get(ctx, "events/"+url.PathEscape(eventID)+"/rounds", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rounds for event %s: %w", eventID, err)
	}

	var items []any
	switch v := body.(type) {
	case []any:
		items = v
	case map[string]any:
		items, _ = v["rounds"].([]any)
	}

	rounds := make([]Round, 0, len(items))
	for _, data := range unwrapItems(items, "round") {
		if err := requireFields(data, "id"); err != nil {
			return nil, err
		}
		rounds = append(rounds, RoundFromMap(data, eventID))
	}
	return rounds, nil
}

// GetTeeSheet fetches the pairing groups of a round, including custom fields.
func (c *APIClient) GetTeeSheet(ctx context.Context, eventID, roundID string) (scoring.TeeSheet, error) {
	params := url.Values{}
	params.Set("include_all_custom_fields", "true")
	endpoint := fmt.Sprintf("events/%s/rounds/%s/tee_sheet", url.PathEscape(eventID), url.PathEscape(roundID))

	body, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tee sheet for round %s: %w", roundID, err)
	}
	return ParseTeeSheet(body), nil
}

// ParseTeeSheet normalizes a decoded tee sheet response. A list is used as
// is, a wrapper object yields its first list under a known key, and any other
// object is treated as a single pairing group.
func ParseTeeSheet(body any) scoring.TeeSheet {
	switch v := body.(type) {
	case []any:
		return scoring.TeeSheet(v)
	case map[string]any:
		for _, key := range teeSheetKeys {
			if list, ok := v[key].([]any); ok {
				return scoring.TeeSheet(list)
			}
		}
		if len(v) == 0 {
			return scoring.TeeSheet{}
		}
		return scoring.TeeSheet{v}
	default:
		return scoring.TeeSheet{}
	}
}

// TestConnection reports whether seasons can be fetched with the current key.
func (c *APIClient) TestConnection(ctx context.Context) bool {
	if _, err := c.GetSeasons(ctx); err != nil {
		log.Warn("Golf Genius connection test failed", "error", err)
		return false
	}
	return true
}

// get performs a rate limited GET with retries behind the circuit breaker and
// returns the decoded JSON body.
func (c *APIClient) get(ctx context.Context, endpoint string, params url.Values) (any, error) {
	u := c.buildURL(endpoint, params)

	var body any
	operation := func() error {
		result, err := c.breaker.Execute(func() (interface{}, error) {
			return c.do(ctx, u)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(&APIError{Message: "Golf Genius API temporarily unavailable", Err: err})
			}
			if ctx.Err() != nil || !retryable(err) {
				return backoff.Permanent(err)
			}
			log.Warn("Golf Genius request failed, retrying", "endpoint", endpoint, "error", err)
			return err
		}
		body = result
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(c.newBackOff(), ctx)); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *APIClient) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryDelay
	if b.InitialInterval <= 0 {
		b.InitialInterval = time.Millisecond
	}
	b.MaxInterval = maxBackoffStep
	b.MaxElapsedTime = 0
	retries := c.maxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithMaxRetries(b, uint64(retries))
}

func (c *APIClient) do(ctx context.Context, u string) (any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	log.Debug("Requesting Golf Genius API", "url", c.redact(u))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &APIError{Message: fmt.Sprintf("Request timeout after %s", c.timeout), Err: err}
		}
		return nil, &APIError{Message: "Connection error - check internet connection", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Message: "failed to read response body", Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrAuthentication
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode >= http.StatusBadRequest:
		log.Error("Received error status from Golf Genius API", "status", resp.StatusCode, "url", c.redact(u))
		return nil, &APIError{StatusCode: resp.StatusCode, Message: preview(raw)}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var body any
	if err := dec.Decode(&body); err != nil {
		return nil, &APIError{Message: "Invalid JSON response from API. Content: " + preview(raw), Err: err}
	}
	return body, nil
}

func (c *APIClient) buildURL(endpoint string, params url.Values) string {
	u := fmt.Sprintf("%s/%s/%s", c.BaseURL, url.PathEscape(c.apiKey), endpoint)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func (c *APIClient) redact(u string) string {
	return strings.Replace(u, url.PathEscape(c.apiKey), "***", 1)
}

func preview(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return "(empty response)"
	}
	if len(s) > previewLength {
		return s[:previewLength]
	}
	return s
}

// unwrapItems accepts both [{"season": {...}}] and [{...}] shaped lists and
// drops anything that is not an object.
func unwrapItems(items []any, wrapper string) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if inner, ok := m[wrapper].(map[string]any); ok {
			m = inner
		}
		out = append(out, m)
	}
	return out
}

func requireFields(data map[string]any, fields ...string) error {
	var missing []string
	for _, f := range fields {
		if _, ok := data[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return validationErrorf("Missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
