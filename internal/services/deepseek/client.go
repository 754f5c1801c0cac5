package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	jsonResponseType      = "json_object"
	defaultMaxAttempts    = 3
	defaultRetryDelay     = 2 * time.Second
	defaultRateLimitDelay = 5 * time.Second
)

// Config captures the runtime settings required to talk to the DeepSeek API.
type Config struct {
	APIURL         string
	APIKey         string
	Model          string
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
}

// Client wraps the DeepSeek chat completion API for batch file classification.
//
// The service is treated as untrusted: responses may be malformed, truncated,
// or rate limited. Classify degrades to an empty mapping instead of surfacing
// an error, so a flaky oracle can never halt the batch loop.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger

	maxAttempts    int
	retryDelay     time.Duration
	rateLimitDelay time.Duration
	sleeper        func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger for per-attempt diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMaxAttempts overrides the attempt budget (defaults to 3).
func WithMaxAttempts(attempts int) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.maxAttempts = attempts
		}
	}
}

// WithRetryDelays overrides the fixed retry delay and the extended rate-limit delay.
func WithRetryDelays(retry, rateLimit time.Duration) Option {
	return func(c *Client) {
		if retry > 0 {
			c.retryDelay = retry
		}
		if rateLimit > 0 {
			c.rateLimitDelay = rateLimit
		}
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		if sleeper != nil {
			c.sleeper = sleeper
		}
	}
}

// NewClient constructs a DeepSeek API client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}
	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 60 * time.Second
	}

	client := &Client{
		cfg: Config{
			APIURL:         strings.TrimSpace(cfg.APIURL),
			APIKey:         strings.TrimSpace(cfg.APIKey),
			Model:          strings.TrimSpace(cfg.Model),
			ConnectTimeout: connectTimeout,
			RequestTimeout: requestTimeout,
		},
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
			},
		},
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxAttempts:    defaultMaxAttempts,
		retryDelay:     defaultRetryDelay,
		rateLimitDelay: defaultRateLimitDelay,
		sleeper:        time.Sleep,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("deepseek request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

type transportError struct {
	Err error
}

func (e *transportError) Error() string {
	return fmt.Sprintf("deepseek request: transport: %v", e.Err)
}

func (e *transportError) Unwrap() error {
	return e.Err
}

// Classify asks the API to map each name in the batch to a category label,
// offering knownCategories for reuse. It returns whatever mapping could be
// obtained; after exhausting the attempt budget, or when the response cannot
// be parsed even by salvage, the mapping is empty. Callers must treat a
// missing key as unclassified and apply their fallback label.
func (c *Client) Classify(ctx context.Context, names []string, knownCategories []string) map[string]string {
	if len(names) == 0 {
		return map[string]string{}
	}
	if c.cfg.APIKey == "" || c.cfg.APIURL == "" {
		c.logger.Warn("deepseek client not configured, skipping classification")
		return map[string]string{}
	}

	payload := chatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: buildSystemPrompt(knownCategories)},
			{Role: "user", Content: buildUserPrompt(names)},
		},
		Temperature:    0.3,
		ResponseFormat: map[string]string{"type": jsonResponseType},
		Stream:         false,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error("encode classification request", "error", err)
		return map[string]string{}
	}

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			c.logger.Warn("classification canceled", "error", ctx.Err())
			return map[string]string{}
		}

		body, err := c.sendOnce(ctx, encoded)
		if err == nil {
			if len(bytes.TrimSpace(body)) == 0 {
				c.logger.Warn("empty classification response", "attempt", attempt, "max_attempts", c.maxAttempts)
				if attempt < c.maxAttempts {
					c.sleeper(c.retryDelay)
				}
				continue
			}
			// A parseable-or-not success response ends the attempt loop: parse
			// failures degrade to an empty mapping rather than burning retries.
			return c.parseResponse(body)
		}

		c.logger.Warn("classification request failed",
			"attempt", attempt, "max_attempts", c.maxAttempts, "error", err)
		if attempt >= c.maxAttempts {
			break
		}
		c.sleeper(c.delayFor(err, attempt))
	}

	return map[string]string{}
}

// delayFor selects the wait before the next attempt: rate limiting gets the
// extended delay, transport failures back off proportionally to the attempt
// number, and everything else waits the standard fixed delay.
func (c *Client) delayFor(err error, attempt int) time.Duration {
	switch e := err.(type) {
	case *httpStatusError:
		if e.StatusCode == http.StatusTooManyRequests {
			return c.rateLimitDelay
		}
		return c.retryDelay
	case *transportError:
		return c.retryDelay * time.Duration(attempt)
	default:
		return c.retryDelay
	}
}

func (c *Client) sendOnce(ctx context.Context, encoded []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("deepseek request: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "shelfsort/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &transportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &transportError{Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &httpStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

type chatCompletionRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
	Stream         bool              `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// parseResponse extracts the name-to-category mapping from a success response.
// The happy path decodes the chat envelope and then the message content as a
// flat JSON object. When either decode fails, salvage scans the raw text for
// the first balanced {...} substring that decodes as a mapping. All failures
// end in an empty mapping, never an error.
func (c *Client) parseResponse(body []byte) map[string]string {
	raw := string(body)

	var envelope chatCompletionResponse
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != nil {
			c.logger.Warn("classification api error", "message", envelope.Error.Message)
			return map[string]string{}
		}
		if len(envelope.Choices) > 0 {
			content := strings.TrimSpace(envelope.Choices[0].Message.Content)
			if content != "" {
				var mapping map[string]string
				if err := json.Unmarshal([]byte(content), &mapping); err == nil {
					return normalizeMapping(mapping)
				}
				if mapping := salvageMapping(content); len(mapping) > 0 {
					return mapping
				}
			}
		}
	}

	if mapping := salvageMapping(raw); len(mapping) > 0 {
		c.logger.Warn("salvaged classification mapping from malformed response")
		return mapping
	}

	c.logger.Warn("unable to parse classification response", "snippet", snippet(raw))
	return map[string]string{}
}

// salvageMapping tries each balanced {...} substring of raw, in order of its
// opening brace, and returns the first one that decodes as a flat
// name-to-category object.
func salvageMapping(raw string) map[string]string {
	for start := 0; start < len(raw); start++ {
		if raw[start] != '{' {
			continue
		}
		end := balancedObjectEnd(raw, start)
		if end < 0 {
			continue
		}
		var mapping map[string]string
		if err := json.Unmarshal([]byte(raw[start:end+1]), &mapping); err == nil && len(mapping) > 0 {
			return normalizeMapping(mapping)
		}
	}
	return nil
}

// balancedObjectEnd returns the index of the brace closing the object that
// opens at start, honoring JSON string literals and escapes, or -1 when the
// object never closes.
func balancedObjectEnd(raw string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func normalizeMapping(mapping map[string]string) map[string]string {
	normalized := make(map[string]string, len(mapping))
	for name, category := range mapping {
		name = strings.TrimSpace(name)
		category = strings.TrimSpace(category)
		if name == "" || category == "" {
			continue
		}
		normalized[name] = category
	}
	return normalized
}

func snippet(raw string) string {
	raw = strings.TrimSpace(raw)
	const limit = 200
	if len(raw) <= limit {
		return raw
	}
	return raw[:limit] + "..."
}
