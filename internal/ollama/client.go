package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

// Options configures a Client. Zero values fall back to sensible defaults.
type Options struct {
	BaseURL     string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	BackoffBase float64
	Temperature float64
	TopP        float64
	MaxTokens   int
	HTTPClient  *http.Client
}

// Client issues chat completions against a local Ollama endpoint with a
// bounded retry loop and exponential backoff on timeouts.
type Client struct {
	baseURL     string
	model       string
	timeout     time.Duration
	maxRetries  int
	backoffBase float64
	temperature float64
	topP        float64
	maxTokens   int
	httpClient  *http.Client
	logger      zerolog.Logger

	// sleep is replaceable in tests to avoid real backoff waits.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewClient(opts Options, logger zerolog.Logger) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "llama3"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	backoffBase := opts.BackoffBase
	if backoffBase < 1 {
		backoffBase = 2
	}
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		baseURL:     baseURL,
		model:       model,
		timeout:     timeout,
		maxRetries:  maxRetries,
		backoffBase: backoffBase,
		temperature: opts.Temperature,
		topP:        opts.TopP,
		maxTokens:   opts.MaxTokens,
		httpClient:  httpClient,
		logger:      logger,
		sleep:       sleepContext,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumPredict  int     `json:"num_predict"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Chat sends one system+user prompt pair and returns the model's raw reply.
// Timeouts are retried up to MaxRetries extra attempts, sleeping
// backoffBase^retry seconds before retry number `retry` (1-based). Refused
// connections, HTTP error statuses, and anything else fail immediately.
func (c *Client) Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Stream: false,
		Options: chatOptions{
			Temperature: c.temperature,
			TopP:        c.topP,
			NumPredict:  c.maxTokens,
		},
	})
	if err != nil {
		return "", &CallError{Kind: KindInternal, Attempts: 0, Err: fmt.Errorf("marshal chat request: %w", err)}
	}

	for attempt := 1; ; attempt++ {
		raw, err := c.do(ctx, body)
		if err == nil {
			c.logger.Debug().
				Int("attempt", attempt).
				Int("reply_chars", len(raw)).
				Msg("ollama chat succeeded")
			return raw, nil
		}

		kind := classify(err)
		c.logger.Warn().
			Err(err).
			Str("kind", string(kind)).
			Int("attempt", attempt).
			Msg("ollama chat attempt failed")

		if kind != KindTimeout {
			return "", &CallError{Kind: kind, Attempts: attempt, Err: err}
		}

		retry := attempt // retry counter starts at 1 for the first retry
		if retry > c.maxRetries {
			return "", &CallError{Kind: KindExhausted, Attempts: attempt, Err: err}
		}

		wait := time.Duration(math.Pow(c.backoffBase, float64(retry)) * float64(time.Second))
		c.logger.Info().
			Dur("wait", wait).
			Int("retry", retry).
			Int("max_retries", c.maxRetries).
			Msg("retrying ollama chat after backoff")
		if sleepErr := c.sleep(ctx, wait); sleepErr != nil {
			return "", &CallError{Kind: KindInternal, Attempts: attempt, Err: sleepErr}
		}
	}
}

// Ping verifies the endpoint is reachable by listing available models.
func (c *Client) Ping(ctx context.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping ollama endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ping ollama endpoint: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) do(ctx context.Context, body []byte) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send chat request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := strings.TrimSpace(string(respBody))
		var payload errorResponse
		if unmarshalErr := json.Unmarshal(respBody, &payload); unmarshalErr == nil && strings.TrimSpace(payload.Error) != "" {
			message = strings.TrimSpace(payload.Error)
		}
		return "", &statusError{code: resp.StatusCode, message: message}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if parsed.Message.Content == "" {
		return "", fmt.Errorf("chat response missing message content")
	}
	return parsed.Message.Content, nil
}

// classify maps a transport error onto the retry taxonomy.
func classify(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var se *statusError
	if errors.As(err, &se) {
		return KindProtocol
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETUNREACH) {
		return KindUnreachable
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return KindTimeout
	}

	return KindInternal
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
