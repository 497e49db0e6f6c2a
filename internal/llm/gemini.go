package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

// geminiClient implements the Client interface for the Gemini generateContent API.
type geminiClient struct {
	httpClient *http.Client
	cfg        Config
}

func newGeminiClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	cfg = withDefaults(cfg, "gemini-1.5-flash")
	if cfg.BaseURL == "" {
		cfg.BaseURL = geminiBaseURL
	}

	return &geminiClient{
		cfg:        cfg,
		httpClient: newHTTPClient(cfg.Timeout),
	}, nil
}

// Generate sends a generateContent request to Gemini.
func (c *geminiClient) Generate(ctx context.Context, r Request) (Response, error) {
	parts := []map[string]any{{"text": r.Prompt}}
	if len(r.Image) > 0 {
		parts = append(parts, map[string]any{
			"inline_data": map[string]string{
				"mime_type": pick(r.ImageMIME, "image/jpeg"),
				"data":      base64.StdEncoding.EncodeToString(r.Image),
			},
		})
	}

	generationConfig := map[string]any{
		"temperature":     pick(r.Temperature, c.cfg.Temperature),
		"maxOutputTokens": pick(r.MaxTokens, c.cfg.MaxTokens),
	}
	if r.JSON {
		generationConfig["responseMimeType"] = "application/json"
	}

	requestBody := map[string]any{
		"contents":         []map[string]any{{"role": "user", "parts": parts}},
		"generationConfig": generationConfig,
	}
	if r.System != "" {
		requestBody["systemInstruction"] = map[string]any{
			"parts": []map[string]string{{"text": r.System}},
		}
	}

	// The key stays out of the URL; transport errors quote it.
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.cfg.BaseURL, url.PathEscape(c.cfg.Model))
	headers := map[string]string{"x-goog-api-key": c.cfg.APIKey}

	var response geminiResponse
	if err := postJSON(ctx, c.httpClient, "gemini", endpoint, headers, requestBody, &response); err != nil {
		return Response{}, err
	}

	if len(response.Candidates) == 0 {
		return Response{}, ErrEmptyResponse
	}
	var text strings.Builder
	for _, p := range response.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	if text.Len() == 0 {
		return Response{}, ErrEmptyResponse
	}

	return Response{
		Text:         text.String(),
		Model:        c.cfg.Model,
		InputTokens:  response.UsageMetadata.PromptTokenCount,
		OutputTokens: response.UsageMetadata.CandidatesTokenCount,
	}, nil
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Role  string `json:"role"`
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}
