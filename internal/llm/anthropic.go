package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

const anthropicBaseURL = "https://api.anthropic.com"

// anthropicClient implements the Client interface for Anthropic API.
type anthropicClient struct {
	httpClient *http.Client
	cfg        Config
}

// newAnthropicClient creates a new Anthropic API client.
func newAnthropicClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	cfg = withDefaults(cfg, "claude-3-5-sonnet-latest")
	if cfg.BaseURL == "" {
		cfg.BaseURL = anthropicBaseURL
	}

	return &anthropicClient{
		cfg:        cfg,
		httpClient: newHTTPClient(cfg.Timeout),
	}, nil
}

// Generate sends a messages request to Anthropic.
func (c *anthropicClient) Generate(ctx context.Context, r Request) (Response, error) {
	var content []map[string]any
	if len(r.Image) > 0 {
		content = append(content, map[string]any{
			"type": "image",
			"source": map[string]string{
				"type":       "base64",
				"media_type": pick(r.ImageMIME, "image/jpeg"),
				"data":       base64.StdEncoding.EncodeToString(r.Image),
			},
		})
	}
	content = append(content, map[string]any{"type": "text", "text": r.Prompt})

	system := r.System
	if r.JSON {
		system = strings.TrimSpace(system + "\nRespond with ONLY a valid JSON object, without markdown formatting or commentary.")
	}

	requestBody := map[string]any{
		"model":       c.cfg.Model,
		"max_tokens":  pick(r.MaxTokens, c.cfg.MaxTokens),
		"temperature": pick(r.Temperature, c.cfg.Temperature),
		"messages": []map[string]any{
			{"role": "user", "content": content},
		},
	}
	if system != "" {
		requestBody["system"] = system
	}

	headers := map[string]string{
		"x-api-key":         c.cfg.APIKey,
		"anthropic-version": "2023-06-01",
	}

	var response anthropicResponse
	if err := postJSON(ctx, c.httpClient, "anthropic", c.cfg.BaseURL+"/v1/messages", headers, requestBody, &response); err != nil {
		return Response{}, err
	}

	var text strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return Response{}, ErrEmptyResponse
	}

	return Response{
		Text:         text.String(),
		Model:        response.Model,
		InputTokens:  response.Usage.InputTokens,
		OutputTokens: response.Usage.OutputTokens,
	}, nil
}

// anthropicResponse represents the Anthropic API response structure.
type anthropicResponse struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Role       string `json:"role"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
	Content    []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}
