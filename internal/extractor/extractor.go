// Package extractor is the adapter for the external chunking model. It
// speaks the OpenAI-compatible chat completions protocol and returns only
// untrusted Raw* values; everything it produces passes through the
// extraction validator before use. Timeout policy toward the model lives
// here, not in the pipeline.
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/clauseflow/clauseflow/internal/extraction"
)

// ErrMalformedResponse indicates the model's reply could not be parsed at
// all. This is fatal for the document's pipeline run.
var ErrMalformedResponse = errors.New("malformed chunking model response")

// Client calls the chunking model endpoint.
type Client struct {
	config Config
	http   *http.Client
	logger *slog.Logger
}

// New creates a chunking model client from finalized config.
func New(config Config, logger *slog.Logger) *Client {
	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.Timeout()},
		logger: logger.With("system", "extractor"),
	}
}

// MaxConcurrent reports how many extraction calls may run in parallel for a
// single document.
func (c *Client) MaxConcurrent() int {
	return c.config.MaxConcurrent
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Segment runs the segmentation pass over the full numbered document.
func (c *Client) Segment(ctx context.Context, numberedText string, totalLines int) ([]extraction.RawSection, error) {
	prompt := fmt.Sprintf("%s\n\nDocument (%d total lines):\n---\n%s\n---",
		segmentationPrompt, totalLines, numberedText)

	var envelope struct {
		Sections []extraction.RawSection `json:"sections"`
	}
	if err := c.complete(ctx, prompt, &envelope); err != nil {
		return nil, err
	}

	c.logger.Debug("segmentation pass complete", "sections", len(envelope.Sections))
	return envelope.Sections, nil
}

// ExtractClauses runs the clause extraction pass over one numbered section.
func (c *Client) ExtractClauses(ctx context.Context, numberedSection string) ([]extraction.RawReference, error) {
	prompt := fmt.Sprintf("%s\n\nSection:\n---\n%s\n---", extractionPrompt, numberedSection)

	var envelope struct {
		Clauses []extraction.RawReference `json:"clauses"`
	}
	if err := c.complete(ctx, prompt, &envelope); err != nil {
		return nil, err
	}

	return envelope.Clauses, nil
}

// ExtractLineItems pulls line item metadata from the numbered header section.
func (c *Client) ExtractLineItems(ctx context.Context, numberedHeader string) ([]extraction.RawLineItem, error) {
	prompt := fmt.Sprintf("%s\n\nHeader section:\n---\n%s\n---", lineItemPrompt, numberedHeader)

	var envelope struct {
		LineItems []extraction.RawLineItem `json:"line_items"`
	}
	if err := c.complete(ctx, prompt, &envelope); err != nil {
		return nil, err
	}

	return envelope.LineItems, nil
}

func (c *Client) complete(ctx context.Context, prompt string, out any) error {
	body, err := json.Marshal(chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:    0.1,
		ResponseFormat: &respFormat{Type: "json_object"},
	})
	if err != nil {
		return fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimSuffix(c.config.BaseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call chunking model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("chunking model returned status %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(chat.Choices) == 0 {
		return fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}

	content := stripFences(chat.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return nil
}

// stripFences removes a markdown code fence some models wrap around JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
