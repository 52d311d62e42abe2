package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const generateContentBody = `{
  "candidates": [{
    "content": {"role": "model", "parts": [{"text": "{\"score\": 12}"}]},
    "finishReason": "STOP",
    "index": 0
  }],
  "usageMetadata": {"promptTokenCount": 10, "candidatesTokenCount": 5, "totalTokenCount": 15}
}`

func newGeminiTestServer(t *testing.T, handler http.HandlerFunc) *int32 {
	t.Helper()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	t.Setenv("GOOGLE_GEMINI_BASE_URL", srv.URL)
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_GENAI_USE_VERTEXAI", "")
	return &hits
}

func geminiCompletionRequest() CompletionRequest {
	req := testCompletionRequest()
	req.Model = "gemini-2.5-flash"
	req.Credential = "g-request"
	return req
}

func TestGeminiCompletion_Complete(t *testing.T) {
	var body map[string]any
	var path, apiKey string
	hits := newGeminiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		apiKey = r.Header.Get("x-goog-api-key")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(generateContentBody))
	})

	content, err := NewGeminiCompletion().Complete(context.Background(), geminiCompletionRequest())

	require.NoError(t, err)
	assert.Equal(t, `{"score": 12}`, content)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
	assert.Contains(t, path, "models/gemini-2.5-flash:generateContent")
	assert.Equal(t, "g-request", apiKey)

	system, ok := body["systemInstruction"].(map[string]any)
	require.True(t, ok, "system instruction travels out of band")
	parts := system["parts"].([]any)
	assert.Equal(t, "instruction", parts[0].(map[string]any)["text"])

	contents, ok := body["contents"].([]any)
	require.True(t, ok)
	require.Len(t, contents, 1)
	assert.Equal(t, "user", contents[0].(map[string]any)["role"])

	genConfig, ok := body["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "application/json", genConfig["responseMimeType"])
	assert.InDelta(t, 0.65, genConfig["temperature"], 1e-6)
	assert.InDelta(t, 0.9, genConfig["topP"], 1e-6)
	assert.EqualValues(t, 4096, genConfig["maxOutputTokens"])
}

func TestGeminiCompletion_OmitsUnsetSampling(t *testing.T) {
	var body map[string]any
	newGeminiTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(generateContentBody))
	})

	req := geminiCompletionRequest()
	req.Temperature = nil
	req.TopP = nil

	_, err := NewGeminiCompletion().Complete(context.Background(), req)
	require.NoError(t, err)

	genConfig := body["generationConfig"].(map[string]any)
	assert.NotContains(t, genConfig, "temperature")
	assert.NotContains(t, genConfig, "topP")
}

func TestGeminiCompletion_Errors(t *testing.T) {
	t.Run("no candidates", func(t *testing.T) {
		newGeminiTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"candidates": []}`))
		})

		_, err := NewGeminiCompletion().Complete(context.Background(), geminiCompletionRequest())

		assert.Equal(t, CodeMalformedOutput, ErrorCodeOf(err))
	})

	authTests := []struct {
		name   string
		status int
		body   string
	}{
		{"unauthenticated", http.StatusUnauthorized, `{"error": {"code": 401, "message": "Request had invalid authentication credentials.", "status": "UNAUTHENTICATED"}}`},
		{"permission denied", http.StatusForbidden, `{"error": {"code": 403, "message": "Method doesn't allow unregistered callers.", "status": "PERMISSION_DENIED"}}`},
		{"invalid key", http.StatusBadRequest, `{"error": {"code": 400, "message": "API key not valid. Please pass a valid API key.", "status": "INVALID_ARGUMENT"}}`},
	}
	for _, tt := range authTests {
		t.Run(tt.name, func(t *testing.T) {
			newGeminiTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := NewGeminiCompletion().Complete(context.Background(), geminiCompletionRequest())

			assert.Equal(t, CodeMissingCredential, ErrorCodeOf(err))
		})
	}

	t.Run("other bad request", func(t *testing.T) {
		newGeminiTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": {"code": 400, "message": "Request contains an invalid argument.", "status": "INVALID_ARGUMENT"}}`))
		})

		_, err := NewGeminiCompletion().Complete(context.Background(), geminiCompletionRequest())

		assert.Equal(t, CodeCompletionFailed, ErrorCodeOf(err))
	})

	t.Run("missing credential makes no call", func(t *testing.T) {
		hits := newGeminiTestServer(t, func(w http.ResponseWriter, _ *http.Request) {})

		req := geminiCompletionRequest()
		req.Credential = ""
		_, err := NewGeminiCompletion().Complete(context.Background(), req)

		assert.Equal(t, CodeMissingCredential, ErrorCodeOf(err))
		assert.Equal(t, int32(0), atomic.LoadInt32(hits))
	})
}
