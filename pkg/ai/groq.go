package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-digest/pkg/config"
)

const (
	defaultGroqBaseURL = "https://api.groq.com"
	defaultGroqModel   = "llama-3.3-70b-versatile"
	maxErrorBodyBytes  = 2048
)

var bearerTokenRE = regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._~+/=\-]+`)

// StatusError is returned when the API answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("groq returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("groq returned status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether repeating the request may succeed
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// GroqClient calls Groq's OpenAI-compatible chat completions endpoint
type GroqClient struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	maxRetries  int
	initialWait time.Duration
	client      *http.Client
	logger      *zap.Logger
}

// NewGroqClient creates a Groq client using values from the provided config.
// Pass a nil config to fall back to environment variables.
func NewGroqClient(cfg *config.GroqConfig, logger *zap.Logger) *GroqClient {
	g := &GroqClient{
		baseURL:     defaultGroqBaseURL,
		model:       defaultGroqModel,
		temperature: 0.2,
		maxTokens:   4096,
		maxRetries:  3,
		initialWait: time.Second,
		client:      &http.Client{Timeout: 60 * time.Second},
		logger:      logger,
	}

	if cfg != nil {
		g.apiKey = cfg.APIKey
		if cfg.BaseURL != "" {
			g.baseURL = cfg.BaseURL
		}
		if cfg.Model != "" {
			g.model = cfg.Model
		}
		g.temperature = cfg.Temperature
		if cfg.MaxTokens > 0 {
			g.maxTokens = cfg.MaxTokens
		}
		if cfg.MaxRetries >= 0 {
			g.maxRetries = cfg.MaxRetries
		}
		if cfg.RetryInitialInterval > 0 {
			g.initialWait = cfg.RetryInitialInterval
		}
		if cfg.Timeout > 0 {
			g.client.Timeout = cfg.Timeout
		}
	}
	if g.apiKey == "" {
		g.apiKey = os.Getenv("GROQ_API_KEY")
	}
	g.baseURL = strings.TrimRight(g.baseURL, "/")

	return g
}

// Model returns the default model name
func (g *GroqClient) Model() string {
	return g.model
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// ResponseFormat asks the API for a JSON object reply
type ResponseFormat struct {
	Type string `json:"type"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends messages and returns the first choice's content.
// Rate limits, 5xx answers and transport failures are retried with exponential backoff.
func (g *GroqClient) Complete(ctx context.Context, messages []Message, opts *CompletionOptions) (string, error) {
	reqBody := ChatRequest{
		Model:       g.model,
		Messages:    messages,
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	}
	if opts != nil {
		if opts.Model != "" {
			reqBody.Model = opts.Model
		}
		if opts.Temperature > 0 {
			reqBody.Temperature = opts.Temperature
		}
		if opts.MaxTokens > 0 {
			reqBody.MaxTokens = opts.MaxTokens
		}
		if opts.JSONMode {
			reqBody.ResponseFormat = &ResponseFormat{Type: "json_object"}
		}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = g.initialWait
	bo.MaxInterval = 8 * g.initialWait
	bo.MaxElapsedTime = 30 * g.initialWait

	var content string
	attempt := 0
	operation := func() error {
		attempt++
		out, err := g.doRequest(ctx, payload)
		if err == nil {
			content = out
			return nil
		}
		if !isRetryable(err) {
			return backoff.Permanent(err)
		}
		if g.logger != nil {
			g.logger.Warn("⚠️ groq request failed, retrying",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		}
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(g.maxRetries)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", fmt.Errorf("groq completion failed after %d attempt(s): %w", attempt, err)
	}
	return content, nil
}

func (g *GroqClient) doRequest(ctx context.Context, payload []byte) (string, error) {
	endpoint := g.baseURL + "/openai/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return "", &StatusError{StatusCode: resp.StatusCode, Body: g.scrub(string(body))}
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("failed to decode groq response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", errors.New("empty response from groq")
	}
	return cr.Choices[0].Message.Content, nil
}

// scrub keeps credentials out of error messages
func (g *GroqClient) scrub(body string) string {
	body = strings.TrimSpace(body)
	if g.apiKey != "" {
		body = strings.ReplaceAll(body, g.apiKey, "[redacted]")
	}
	return bearerTokenRE.ReplaceAllString(body, "Bearer [redacted]")
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "eof")
}
