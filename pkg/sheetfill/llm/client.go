// Package llm talks to an OpenRouter-compatible chat completions endpoint. It
// is the model collaborator behind structure inference, data mapping,
// document extraction and comparison.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/cache"
)

const (
	defaultURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultModel      = "google/gemini-2.5-flash"
	defaultPDFQuality = 85
)

// Completer sends a text prompt to a model and returns the raw reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Client handles communication with the chat completions API.
type Client struct {
	apiKey     string
	model      string
	url        string
	httpClient *http.Client
	retry      RetryConfig
	pdfQuality int
	logger     zerolog.Logger

	cache    cache.Client
	cacheTTL time.Duration
}

var _ Completer = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the chat completions endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.url = url
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMaxRetries enables retries of throttled or failed HTTP requests.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.retry.MaxRetries = n }
}

// WithRetryConfig replaces the whole retry configuration.
func WithRetryConfig(cfg RetryConfig) Option {
	return func(c *Client) { c.retry = cfg }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l.With().Str("component", "llm").Logger() }
}

// WithCache caches extraction results for ttl.
func WithCache(cc cache.Client, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cc
		c.cacheTTL = ttl
	}
}

// WithPDFQuality sets the JPEG quality used for rasterized PDF pages.
func WithPDFQuality(q int) Option {
	return func(c *Client) {
		if q > 0 && q <= 100 {
			c.pdfQuality = q
		}
	}
}

// NewClient creates a new LLM client.
func NewClient(apiKey, model string, opts ...Option) *Client {
	if model == "" {
		model = defaultModel
	}

	c := &Client{
		apiKey:     apiKey,
		model:      model,
		url:        defaultURL,
		httpClient: &http.Client{},
		retry:      DefaultRetryConfig(),
		pdfQuality: defaultPDFQuality,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the model identifier requests are sent to.
func (c *Client) Model() string { return c.model }

// Message represents a chat message.
type Message struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart represents a part of message content (text, image or file).
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
	File     *FilePart `json:"file,omitempty"`
}

// ImageURL represents an image URL in the message.
type ImageURL struct {
	URL string `json:"url"`
}

// FilePart is an inline file attachment.
type FilePart struct {
	Filename string `json:"filename"`
	FileData string `json:"file_data"`
}

// Request represents the API request structure.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Stream      bool      `json:"stream"`
	Temperature float64   `json:"temperature"`
}

// Response represents the API response structure.
type Response struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Choice represents a single completion choice.
type Choice struct {
	Message      Delta  `json:"message"`
	FinishReason string `json:"finish_reason"`
}

// Delta represents message content in a response.
type Delta struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

func textPart(s string) ContentPart {
	return ContentPart{Type: "text", Text: s}
}

// Complete sends a single text prompt and returns the reply text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.chat(ctx, []ContentPart{textPart(prompt)})
}

// chat sends one user message and returns the first choice's content.
func (c *Client) chat(ctx context.Context, parts []ContentPart) (string, error) {
	body, err := json.Marshal(Request{
		Model:    c.model,
		Messages: []Message{{Role: "user", Content: parts}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	start := time.Now()
	resp, err := c.retryWithBackoff(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("X-Title", "sheetfill")
		return c.httpClient.Do(req)
	})
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncate(string(data), 512))
	}

	var apiResp Response
	if err := json.Unmarshal(data, &apiResp); err != nil {
		return "", fmt.Errorf("parse API response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("API error: %s", apiResp.Error.Message)
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in API response")
	}

	c.logger.Debug().
		Str("model", c.model).
		Dur("elapsed", time.Since(start)).
		Int("reply_bytes", len(apiResp.Choices[0].Message.Content)).
		Msg("completion received")

	return apiResp.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
