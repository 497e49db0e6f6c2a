package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
)

const openAIBaseURL = "https://api.openai.com"

// openAIClient implements the Client interface for OpenAI API.
type openAIClient struct {
	httpClient *http.Client
	cfg        Config
}

// newOpenAIClient creates a new OpenAI API client.
func newOpenAIClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	cfg = withDefaults(cfg, "gpt-4o-mini")
	if cfg.BaseURL == "" {
		cfg.BaseURL = openAIBaseURL
	}

	return &openAIClient{
		cfg:        cfg,
		httpClient: newHTTPClient(cfg.Timeout),
	}, nil
}

// Generate sends a chat completion request to OpenAI.
func (c *openAIClient) Generate(ctx context.Context, r Request) (Response, error) {
	var messages []map[string]any
	if r.System != "" {
		messages = append(messages, map[string]any{"role": "system", "content": r.System})
	}

	if len(r.Image) > 0 {
		dataURL := fmt.Sprintf("data:%s;base64,%s", pick(r.ImageMIME, "image/jpeg"), base64.StdEncoding.EncodeToString(r.Image))
		messages = append(messages, map[string]any{
			"role": "user",
			"content": []map[string]any{
				{"type": "text", "text": r.Prompt},
				{"type": "image_url", "image_url": map[string]string{"url": dataURL}},
			},
		})
	} else {
		messages = append(messages, map[string]any{"role": "user", "content": r.Prompt})
	}

	requestBody := map[string]any{
		"model":       c.cfg.Model,
		"messages":    messages,
		"temperature": pick(r.Temperature, c.cfg.Temperature),
		"max_tokens":  pick(r.MaxTokens, c.cfg.MaxTokens),
	}
	if r.JSON {
		requestBody["response_format"] = map[string]string{"type": "json_object"}
	}

	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	var response openAIResponse
	if err := postJSON(ctx, c.httpClient, "OpenAI", c.cfg.BaseURL+"/v1/chat/completions", headers, requestBody, &response); err != nil {
		return Response{}, err
	}

	if len(response.Choices) == 0 || response.Choices[0].Message.Content == "" {
		return Response{}, ErrEmptyResponse
	}

	return Response{
		Text:         response.Choices[0].Message.Content,
		Model:        response.Model,
		InputTokens:  response.Usage.PromptTokens,
		OutputTokens: response.Usage.CompletionTokens,
	}, nil
}

// openAIResponse represents the OpenAI API response structure.
type openAIResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
		Index        int    `json:"index"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Created int64 `json:"created"`
}
