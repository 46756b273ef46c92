// Package claude implements the translation backend on top of the
// Anthropic messages API. It owns the prompt/response contract: the batch
// is sent as a 1-based numbered list and the response is matched back to
// the batch by line position.
package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xiao99xiao/XliffTranslator/config"
	"github.com/xiao99xiao/XliffTranslator/langmeta"
	"github.com/xiao99xiao/XliffTranslator/translate"
)

// DefaultBaseURL is the Anthropic API endpoint.
const DefaultBaseURL = "https://api.anthropic.com"

// DefaultModel is the model used when none is configured.
const DefaultModel = "claude-3-sonnet-20240229"

const (
	apiVersion         = "2023-06-01"
	defaultMaxTokens   = 1000
	defaultTemperature = 0.2
	defaultTimeout     = 120 * time.Second
)

// ---------------------------------------------------------------------------
// Client
// ---------------------------------------------------------------------------

// Config holds the client configuration. Zero values fall back to defaults.
type Config struct {
	// APIKey authenticates the call. Empty reads CLAUDE_API_KEY from the
	// environment.
	APIKey string
	// Model is the model identifier.
	Model string
	// BaseURL is the API base URL (overridable for tests/proxies).
	BaseURL string
	// MaxTokens caps the response length.
	MaxTokens int
	// Temperature is the sampling temperature.
	Temperature float64
	// Timeout is the per-request timeout.
	Timeout time.Duration
	// Prompts supplies the prompt templates. Nil uses the embedded defaults.
	Prompts *config.Prompts
	// Splitter turns the raw response into per-item translations.
	// Nil uses LineSplitter.
	Splitter Splitter
	// Logger receives client diagnostics. Nil discards them.
	Logger *logrus.Entry
}

// Client is a translation backend backed by the Anthropic messages API.
// It implements translate.Backend.
type Client struct {
	apiKey      string
	model       string
	baseURL     string
	maxTokens   int
	temperature float64
	prompts     *config.Prompts
	splitter    Splitter
	httpClient  *http.Client
	logger      *logrus.Entry
}

// New creates a client. It fails when no API key is configured or present
// in the environment.
func New(cfg Config) (*Client, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("CLAUDE_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("CLAUDE_API_KEY not found in environment or .env file")
	}

	c := &Client{
		apiKey:      apiKey,
		model:       cfg.Model,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		prompts:     cfg.Prompts,
		splitter:    cfg.Splitter,
		logger:      cfg.Logger,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.maxTokens <= 0 {
		c.maxTokens = defaultMaxTokens
	}
	if c.temperature == 0 {
		c.temperature = defaultTemperature
	}
	if c.prompts == nil {
		c.prompts = config.DefaultPrompts()
	}
	if c.splitter == nil {
		c.splitter = LineSplitter{}
	}
	if c.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		c.logger = logrus.NewEntry(l)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = http.ProxyFromEnvironment
	c.httpClient = &http.Client{Transport: transport, Timeout: timeout}

	return c, nil
}

// ---------------------------------------------------------------------------
// translate.Backend
// ---------------------------------------------------------------------------

// TranslateBatch sends one batch and maps the response back by position.
func (c *Client) TranslateBatch(ctx context.Context, batch []translate.Unit, sourceLang, targetLang, appContext string) (map[string]string, error) {
	if len(batch) == 0 {
		return nil, &translate.BackendError{Err: fmt.Errorf("empty batch")}
	}

	langName := langmeta.Resolve(targetLang).Name
	system := c.prompts.RenderSystem(langName, len(batch))
	user := c.prompts.RenderTranslation(langName, appContext, numberedTexts(batch), len(batch))

	c.logger.Debugf("translating batch of %d strings (%s -> %s)", len(batch), sourceLang, targetLang)

	raw, err := c.complete(ctx, system, user)
	if err != nil {
		return nil, &translate.BackendError{Err: err}
	}

	lines, err := c.splitter.Split(raw, len(batch))
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(batch))
	for i, u := range batch {
		result[u.ID] = unescapeLine(lines[i])
	}
	return result, nil
}

// numberedTexts renders the batch as a 1-based numbered list, one line per
// item. Newlines inside a source are escaped so the line protocol holds.
func numberedTexts(batch []translate.Unit) string {
	var b strings.Builder
	for i, u := range batch {
		fmt.Fprintf(&b, "%d. %s\n", i+1, escapeLine(u.Source))
	}
	return b.String()
}

func escapeLine(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

func unescapeLine(s string) string {
	s = strings.ReplaceAll(s, "\\n", "\n")
	s = strings.ReplaceAll(s, "\\\\", "\\")
	return s
}

// ---------------------------------------------------------------------------
// Anthropic messages call
// ---------------------------------------------------------------------------

func buildRequest(model, system, user string, maxTokens int, temperature float64) ([]byte, error) {
	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	req := struct {
		Model       string  `json:"model"`
		MaxTokens   int     `json:"max_tokens"`
		Temperature float64 `json:"temperature"`
		System      string  `json:"system,omitempty"`
		Messages    []msg   `json:"messages"`
	}{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		System:      system,
		Messages: []msg{
			{Role: "user", Content: user},
		},
	}
	return json.Marshal(req)
}

// extractText pulls the text out of a messages-API response body.
func extractText(body []byte) (string, error) {
	var resp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("invalid JSON response: %w", err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("API error: %s", resp.Error.Message)
	}
	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("could not extract text from response: %s", truncate(string(body), 500))
}

// complete performs a single messages-API call. Retries are owned by the
// engine, not the client.
func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	body, err := buildRequest(c.model, system, user, c.maxTokens, c.temperature)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncate(string(respBody), 500))
	}

	text, err := extractText(respBody)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
