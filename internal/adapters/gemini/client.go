package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"tripchat/internal/adapters/observability"
)

// Client wraps the Gemini API behind the LanguageModel port: Extract for
// JSON-constrained output, Complete for free text.
type Client struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}
	c, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: c, model: model}, nil
}

func (c *Client) Close() error { return c.client.Close() }

// Extract asks for a completion constrained to a JSON body.
func (c *Client) Extract(ctx context.Context, system, prompt string) (string, error) {
	m := c.generativeModel(system)
	m.ResponseMIMEType = "application/json"
	return c.generate(ctx, m, "extract", prompt)
}

func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	return c.generate(ctx, c.generativeModel(system), "complete", prompt)
}

func (c *Client) generativeModel(system string) *genai.GenerativeModel {
	m := c.client.GenerativeModel(c.model)
	if system != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	return m
}

func (c *Client) generate(ctx context.Context, m *genai.GenerativeModel, op, prompt string) (string, error) {
	start := time.Now()
	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		observability.ObserveExternal("gemini", op, 0, time.Since(start))
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	observability.ObserveExternal("gemini", op, 200, time.Since(start))

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini generate: empty response")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}
