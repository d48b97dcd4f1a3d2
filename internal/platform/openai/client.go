// Package openai is a minimal chat-completions client used to generate ad
// copy. It talks to the HTTP API directly; responses are treated as
// best-effort and every failure mode falls back to deterministic copy at
// the service layer.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	completionsPath = "/v1/chat/completions"
	maxBodyBytes    = 1 << 20
)

const systemPrompt = "You are a Shopify merchandising agent. Generate concise, compelling ad copy " +
	"for product drops. Headlines must be 8 words or less. Descriptions must be 20 words or less."

// Client calls the OpenAI chat-completions API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates a Client. An empty apiKey produces a non-nil client
// whose Enabled method reports false; callers must skip the network path.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// CopyRequest describes the signal the model should write copy for.
type CopyRequest struct {
	Question      string
	ProductTitles []string
	TopKeywords   []string
}

// CopyResult holds the model's ad copy. Any field may be empty when the
// model omitted it; callers substitute fallback copy per field.
type CopyResult struct {
	Headline    string `json:"headline"`
	Description string `json:"description"`
	WhyBundle   string `json:"whyBundle"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateAdCopy asks the model for headline/description/whyBundle copy.
func (c *Client) GenerateAdCopy(ctx context.Context, req CopyRequest) (CopyResult, error) {
	prompt := fmt.Sprintf(
		"Market signal: %q. Products: %s. Top keywords: %s. "+
			"Generate: 1) headline (<=8 words), 2) description (<=20 words), 3) whyBundle (1 sentence). "+
			"Return JSON: {headline, description, whyBundle}",
		req.Question,
		strings.Join(req.ProductTitles, ", "),
		strings.Join(req.TopKeywords, ", "),
	)

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   150,
	})
	if err != nil {
		return CopyResult{}, fmt.Errorf("openai: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(payload))
	if err != nil {
		return CopyResult{}, fmt.Errorf("openai: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return CopyResult{}, fmt.Errorf("openai: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return CopyResult{}, fmt.Errorf("openai: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return CopyResult{}, fmt.Errorf("openai: read body: %w", err)
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return CopyResult{}, fmt.Errorf("openai: decode response: %w", err)
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return CopyResult{}, fmt.Errorf("openai: empty completion")
	}

	result, err := extractCopy(cr.Choices[0].Message.Content)
	if err != nil {
		return CopyResult{}, fmt.Errorf("openai: %w", err)
	}
	return result, nil
}

// extractCopy pulls the first JSON object out of the completion text. Models
// frequently wrap the object in prose or code fences.
func extractCopy(content string) (CopyResult, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return CopyResult{}, fmt.Errorf("no JSON object in completion")
	}

	var result CopyResult
	if err := json.Unmarshal([]byte(content[start:end+1]), &result); err != nil {
		return CopyResult{}, fmt.Errorf("malformed completion JSON: %w", err)
	}
	return result, nil
}
