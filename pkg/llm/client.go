package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Default client settings applied by NewClient for unset Config fields.
const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2000
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3

	// streamBufferSize is the token channel capacity; producers block
	// once consumers fall this far behind.
	streamBufferSize = 100
)

// Config holds the settings for one OpenAI-compatible endpoint.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int

	// Timeout bounds a unary chat completion end to end. Streaming
	// calls use it as the response-header deadline only.
	Timeout time.Duration

	// MaxRetries is the total number of attempts a failing unary call
	// makes. The backoff between attempts doubles from one second.
	// Zero means the default; negative means a single attempt.
	MaxRetries int
}

// Client talks to an OpenAI-compatible chat completions endpoint.
// Chat is the retried unary path; ChatStream is the SSE path whose
// channel never carries an error, only a final error token.
type Client struct {
	cfg          Config
	httpClient   *http.Client
	streamClient *http.Client
	log          *slog.Logger

	// retryInterval is the first backoff step; tests shrink it.
	retryInterval time.Duration
}

// NewClient creates a client, applying defaults for unset fields.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	} else if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 1
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		// No overall timeout: a healthy stream may outlive any fixed
		// budget. The caller's context and the header deadline govern.
		streamClient: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: cfg.Timeout,
			},
		},
		log:           slog.With("component", "llm", "model", cfg.Model),
		retryInterval: time.Second,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Chat performs a unary chat completion and returns the assistant
// content. A failing call makes at most MaxRetries attempts in total,
// with backoff doubling from one second between them (1s, 2s, 4s, ...).
func (c *Client) Chat(ctx context.Context, messages []Message, opts ...RequestOption) (string, error) {
	req := chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}
	for _, opt := range opts {
		opt(&req)
	}

	var content string
	attempt := 0
	operation := func() error {
		attempt++
		result, err := c.makeRequest(ctx, req)
		if err != nil {
			c.log.Warn("Chat completion attempt failed",
				"attempt", attempt,
				"max_retries", c.cfg.MaxRetries,
				"error", err)
			return err
		}
		content = result
		return nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = c.retryInterval
	expo.Multiplier = 2
	expo.RandomizationFactor = 0
	expo.MaxInterval = 60 * time.Second
	expo.MaxElapsedTime = 0

	// WithMaxRetries counts retries after the first attempt, so the
	// budget hands it MaxRetries-1 to cap the total at MaxRetries.
	retries := c.cfg.MaxRetries - 1
	if retries < 0 {
		retries = 0
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(expo, uint64(retries)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	return content, nil
}

// ChatStream performs a streaming chat completion and returns a channel
// of content tokens. The channel never carries an error: any failure
// yields one final "\n\n[错误: ...]\n" token before the channel closes,
// so consumers render it like any other content.
func (c *Client) ChatStream(ctx context.Context, messages []Message, opts ...RequestOption) <-chan string {
	req := chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		Stream:      true,
	}
	for _, opt := range opts {
		opt(&req)
	}

	tokens := make(chan string, streamBufferSize)

	go func() {
		defer close(tokens)

		if err := c.makeStreamingRequest(ctx, req, tokens); err != nil {
			// A gone consumer reads nothing, so a tail token is noise.
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.log.Debug("Chat stream aborted", "error", err)
				return
			}
			c.log.Warn("Chat stream failed, emitting error token", "error", err)
			select {
			case tokens <- fmt.Sprintf("\n\n[错误: %v]\n", err):
			case <-ctx.Done():
			}
		}
	}()

	return tokens
}

// makeRequest runs one unary chat completion attempt.
func (c *Client) makeRequest(ctx context.Context, request chatRequest) (string, error) {
	resp, err := c.postCompletions(ctx, c.httpClient, request)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var response chatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if response.Error != nil {
		return "", fmt.Errorf("API error: %s", response.Error.Message)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}
	return response.Choices[0].Message.Content, nil
}

// makeStreamingRequest reads the SSE response line by line and forwards
// non-empty content deltas to tokens.
func (c *Client) makeStreamingRequest(ctx context.Context, request chatRequest, tokens chan<- string) error {
	resp, err := c.postCompletions(ctx, c.streamClient, request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("failed to read stream: %w", err)
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 || !bytes.HasPrefix(line, []byte("data: ")) {
			continue
		}
		line = line[6:]

		if bytes.Equal(line, []byte("[DONE]")) {
			return nil
		}

		var chunk streamResponse
		if err := json.Unmarshal(line, &chunk); err != nil {
			// Malformed frames are skipped, matching lenient SSE readers.
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		content := chunk.Choices[0].Delta.Content
		if content == "" {
			continue
		}

		select {
		case tokens <- content:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// postCompletions issues the POST /chat/completions request.
func (c *Client) postCompletions(ctx context.Context, client *http.Client, request chatRequest) (*http.Response, error) {
	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// checkStatus turns a non-2xx response into an "HTTP {code}: {body}"
// error, the format downstream consumers match against.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
}
