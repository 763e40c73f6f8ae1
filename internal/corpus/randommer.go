package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"askme/internal/middleware"

	"github.com/avast/retry-go"
)

// DefaultBaseURL is the public randommer.io API root.
const DefaultBaseURL = "https://randommer.io/api"

// ClientConfig configures a RandommerClient.
type ClientConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	Attempts   uint
	RetryDelay time.Duration
}

// RandommerClient fetches lorem-ipsum text and full names from randommer.io.
type RandommerClient struct {
	config     ClientConfig
	httpClient *http.Client
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("corpus api error: status %d", e.code)
}

// NewRandommerClient creates a client with defaults filled in.
func NewRandommerClient(cfg ClientConfig) *RandommerClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 200 * time.Millisecond
	}
	return &RandommerClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Words requests `paragraphs` lorem-ipsum paragraphs and splits them on whitespace.
func (c *RandommerClient) Words(ctx context.Context, paragraphs int) ([]string, error) {
	if paragraphs <= 0 {
		paragraphs = 1
	}
	params := url.Values{}
	params.Set("loremType", "normal")
	params.Set("type", "paragraphs")
	params.Set("number", strconv.Itoa(paragraphs))

	body, err := c.get(ctx, "/Text/LoremIpsum", params)
	if err != nil {
		return nil, err
	}

	text := string(body)
	// the endpoint answers either raw text or a JSON string
	var quoted string
	if err := json.Unmarshal(body, &quoted); err == nil {
		text = quoted
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: empty text response", ErrUnavailable)
	}
	return words, nil
}

// Names requests `quantity` full names.
func (c *RandommerClient) Names(ctx context.Context, quantity int) ([]string, error) {
	if quantity <= 0 {
		quantity = 100
	}
	params := url.Values{}
	params.Set("nameType", "fullname")
	params.Set("quantity", strconv.Itoa(quantity))

	body, err := c.get(ctx, "/Name", params)
	if err != nil {
		return nil, err
	}

	var names []string
	if err := json.Unmarshal(body, &names); err != nil {
		return nil, fmt.Errorf("%w: unmarshal names: %w", ErrUnavailable, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: empty name response", ErrUnavailable)
	}
	return names, nil
}

func (c *RandommerClient) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	fullURL := fmt.Sprintf("%s%s?%s", c.config.BaseURL, endpoint, params.Encode())

	var body []byte
	err := retry.Do(
		func() error {
			b, err := c.do(ctx, fullURL)
			if err != nil {
				return err
			}
			body = b
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.config.Attempts),
		retry.Delay(c.config.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			middleware.Logger.WarnContext(ctx, "corpus request failed, retrying",
				slog.String("endpoint", endpoint),
				slog.Uint64("attempt", uint64(n+1)),
				slog.String("error", err.Error()),
			)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, endpoint, err)
	}
	return body, nil
}

func (c *RandommerClient) do(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.config.APIKey)
	req.Header.Set("Accept", "application/json, text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{code: resp.StatusCode}
	}
	return body, nil
}

// isRetryable retries transport errors, 429 and 5xx; other 4xx are final.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	return true
}
