package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supportdesk/backend/internal/infrastructure/config"
	"google.golang.org/genai"
)

func TestClient_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req ChatRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}
		assert.Equal(t, "gpt-test", req.Model)
		assert.Equal(t, "hello?", req.Messages[0].Content)

		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"Hi there"}}],"usage":{"total_tokens":7}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/v1/", "sk-test", "gpt-test")
	out, err := c.Generate(context.Background(), "hello?")

	require.NoError(t, err)
	assert.Equal(t, "Hi there", out)
}

func TestClient_GenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"server error", http.StatusInternalServerError, "boom", "status 500"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no choices"},
		{"bad json", http.StatusOK, `{`, "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "k", "m").Generate(context.Background(), "x")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestClient_GenerateHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewClient(srv.URL, "k", "m").Generate(ctx, "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

type fakeModels struct {
	resp   *genai.GenerateContentResponse
	err    error
	model  string
	prompt string
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func TestGeminiClient_Generate(t *testing.T) {
	models := &fakeModels{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: "Hola, "}, {Text: "te ayudo."}}},
		}},
	}}
	c := newGeminiClient(models, "gemini-test")

	out, err := c.Generate(context.Background(), "ayuda")
	require.NoError(t, err)
	assert.Equal(t, "Hola, te ayudo.", out)
	assert.Equal(t, "gemini-test", models.model)
	assert.Equal(t, "ayuda", models.prompt)
}

func TestGeminiClient_NoCandidates(t *testing.T) {
	c := newGeminiClient(&fakeModels{resp: &genai.GenerateContentResponse{}}, "m")
	_, err := c.Generate(context.Background(), "x")
	assert.ErrorContains(t, err, "no response candidates")

	c = newGeminiClient(&fakeModels{err: errors.New("quota")}, "m")
	_, err = c.Generate(context.Background(), "x")
	assert.ErrorContains(t, err, "quota")
}

func TestProvideGenerator(t *testing.T) {
	gen, err := ProvideGenerator(&config.LLMConfig{Provider: config.ProviderNone})
	require.NoError(t, err)
	_, err = gen.Generate(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotConfigured)

	gen, err = ProvideGenerator(&config.LLMConfig{Provider: config.ProviderOpenAI, APIKey: "k", Model: "m"})
	require.NoError(t, err)
	assert.IsType(t, &Client{}, gen)

	_, err = ProvideGenerator(&config.LLMConfig{Provider: "watson"})
	assert.Error(t, err)

	assert.False(t, IsEnabled(&config.LLMConfig{Provider: config.ProviderOpenAI}))
	assert.False(t, IsEnabled(&config.LLMConfig{Provider: config.ProviderGemini}))
	assert.True(t, IsEnabled(&config.LLMConfig{Provider: config.ProviderGemini, GeminiAPIKey: "g"}))

	gen, err = ProvideGenerator(&config.LLMConfig{Provider: config.ProviderGemini})
	require.NoError(t, err)
	assert.IsType(t, disabledGenerator{}, gen)
	assert.False(t, IsEnabled(&config.LLMConfig{Provider: config.ProviderNone}))
}
