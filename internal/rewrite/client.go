package rewrite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ariel-frischer/relnotes/internal/changelog"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

var (
	// ErrNoChoices is returned when the response carries no completion.
	ErrNoChoices = errors.New("response has no choices")
	// ErrNotStringArray is returned when the completion is not a JSON array of strings.
	ErrNotStringArray = errors.New("completion is not a JSON array of strings")
	// ErrEmptyResult is returned when no bullet survives normalization.
	ErrEmptyResult = errors.New("completion has no usable bullets")
)

// Client rewrites bullets through a chat-completions endpoint.
type Client struct {
	apiKey      string
	model       string
	endpoint    string
	temperature float64
	httpClient  *http.Client
}

// NewClient creates a Client from cfg, filling in the default base URL and timeout.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		apiKey:      strings.TrimSpace(cfg.APIKey),
		model:       strings.TrimSpace(cfg.Model),
		endpoint:    baseURL + completionsPath,
		temperature: cfg.Temperature,
		httpClient:  httpClient,
	}
}

// Rewrite asks the endpoint for a user-facing version of bullets. Any failure
// returns bullets unchanged. An empty input is returned without a request.
func (c *Client) Rewrite(ctx context.Context, bullets []string) []string {
	if len(bullets) == 0 {
		return bullets
	}

	out, err := c.Complete(ctx, bullets)
	if err != nil {
		logDebug("[rewrite] keeping original bullets: %v", err)
		return bullets
	}

	logDebug("[rewrite] %d bullets rewritten into %d", len(bullets), len(out))
	return out
}

// Complete performs one request and returns the cleaned bullets, or the
// reason the response could not be used.
func (c *Client) Complete(ctx context.Context, bullets []string) ([]string, error) {
	body, err := json.Marshal(newChatRequest(c.model, c.temperature, bullets))
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	logDebug("[rewrite] POST %s (model %s, %d bullets)", c.endpoint, c.model, len(bullets))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	content, err := decodeContent(raw)
	if err != nil {
		return nil, err
	}

	return parseBullets(content)
}

// decodeContent extracts the first choice's message content.
func decodeContent(raw []byte) (string, error) {
	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

// parseBullets decodes content as a JSON array of strings, normalizes each
// entry, drops empties and duplicates, and caps the result at DisplayLimit.
// A null, or any element that is not a string, rejects the whole response.
func parseBullets(content string) ([]string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotStringArray, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: got null", ErrNotStringArray)
	}

	items := make([]string, 0, len(raw))
	for i, elem := range raw {
		if len(elem) == 0 || elem[0] != '"' {
			return nil, fmt.Errorf("%w: element %d is %s", ErrNotStringArray, i, elem)
		}
		var item string
		if err := json.Unmarshal(elem, &item); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrNotStringArray, i, err)
		}
		items = append(items, item)
	}

	bullets := changelog.NormalizeAll(items)
	if len(bullets) > changelog.DisplayLimit {
		bullets = bullets[:changelog.DisplayLimit]
	}
	if len(bullets) == 0 {
		return nil, ErrEmptyResult
	}
	return bullets, nil
}
