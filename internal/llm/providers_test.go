package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "anthropic", config: Config{Provider: "anthropic", APIKey: "k"}},
		{name: "openai mixed case", config: Config{Provider: "OpenAI", APIKey: "k"}},
		{name: "gemini", config: Config{Provider: "gemini", APIKey: "k"}},
		{name: "missing API key", config: Config{Provider: "anthropic"}, wantErr: true},
		{name: "unknown provider", config: Config{Provider: "llama", APIKey: "k"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.config)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

// captureServer records the last request body and answers with reply.
func captureServer(t *testing.T, status int, reply string) (*httptest.Server, *map[string]any, *http.Request) {
	t.Helper()
	body := map[string]any{}
	var last http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last = *r.Clone(context.Background())
		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(raw, &body))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)
	return server, &body, &last
}

func TestAnthropicClient_Generate(t *testing.T) {
	server, body, last := captureServer(t, http.StatusOK, `{
		"model": "claude-test",
		"content": [{"type": "text", "text": "Harika gidiyorsun."}],
		"usage": {"input_tokens": 12, "output_tokens": 4}
	}`)

	client, err := newAnthropicClient(Config{APIKey: "secret", BaseURL: server.URL + "/"})
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), Request{
		System:    "advisor",
		Prompt:    "bakiye 100",
		Image:     []byte{0xff, 0xd8},
		ImageMIME: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Harika gidiyorsun.", resp.Text)
	assert.Equal(t, 12, resp.InputTokens)

	assert.Equal(t, "/v1/messages", last.URL.Path)
	assert.Equal(t, "secret", last.Header.Get("x-api-key"))
	assert.Equal(t, "advisor", (*body)["system"])

	messages := (*body)["messages"].([]any)
	content := messages[0].(map[string]any)["content"].([]any)
	require.Len(t, content, 2)
	image := content[0].(map[string]any)
	assert.Equal(t, "image", image["type"])
	assert.Equal(t, "image/png", image["source"].(map[string]any)["media_type"])
}

func TestOpenAIClient_Generate(t *testing.T) {
	server, body, last := captureServer(t, http.StatusOK, `{
		"model": "gpt-test",
		"choices": [{"message": {"role": "assistant", "content": "{\"amount\": 12}"}}]
	}`)

	client, err := newOpenAIClient(Config{APIKey: "secret", BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), Request{Prompt: "fiş", JSON: true})
	require.NoError(t, err)
	assert.Equal(t, `{"amount": 12}`, resp.Text)

	assert.Equal(t, "/v1/chat/completions", last.URL.Path)
	assert.Equal(t, "Bearer secret", last.Header.Get("Authorization"))
	assert.Equal(t, map[string]any{"type": "json_object"}, (*body)["response_format"])
}

func TestGeminiClient_Generate(t *testing.T) {
	server, body, last := captureServer(t, http.StatusOK, `{
		"candidates": [{"content": {"parts": [{"text": "Tasarruf "}, {"text": "edin."}]}}],
		"usageMetadata": {"promptTokenCount": 3, "candidatesTokenCount": 2}
	}`)

	client, err := newGeminiClient(Config{APIKey: "secret", BaseURL: server.URL, Model: "gemini-test"})
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), Request{System: "sys", Prompt: "p", JSON: true})
	require.NoError(t, err)
	assert.Equal(t, "Tasarruf edin.", resp.Text)
	assert.Equal(t, 2, resp.OutputTokens)

	assert.Equal(t, "/v1beta/models/gemini-test:generateContent", last.URL.Path)
	assert.Equal(t, "secret", last.Header.Get("x-goog-api-key"))
	assert.Empty(t, last.URL.RawQuery)
	cfg := (*body)["generationConfig"].(map[string]any)
	assert.Equal(t, "application/json", cfg["responseMimeType"])
}

func TestGeminiClient_TransportErrorOmitsKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client, err := newGeminiClient(Config{APIKey: "SUPERSECRETKEY123", BaseURL: baseURL})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SUPERSECRETKEY123")
	assert.Contains(t, err.Error(), ":generateContent")
}

func TestClients_ErrorResponses(t *testing.T) {
	tests := []struct {
		name      string
		reply     string
		wantErr   error
		status    int
		temporary bool
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, reply: `{"error":"slow down"}`, temporary: true},
		{name: "server error", status: http.StatusBadGateway, reply: `oops`, temporary: true},
		{name: "bad request", status: http.StatusBadRequest, reply: `{"error":"bad"}`},
		{name: "empty content", status: http.StatusOK, reply: `{"content": []}`, wantErr: ErrEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _, _ := captureServer(t, tt.status, tt.reply)
			client, err := newAnthropicClient(Config{APIKey: "k", BaseURL: server.URL})
			require.NoError(t, err)

			_, err = client.Generate(context.Background(), Request{Prompt: "x"})
			require.Error(t, err)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.temporary, apiErr.Temporary())
		})
	}
}
