package huggingface_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kbreport/internal/backend/huggingface"
	"kbreport/internal/config"
	"kbreport/internal/errkind"
	"kbreport/internal/logging"
)

func testConfig() config.HuggingFaceConfig {
	return config.HuggingFaceConfig{
		APIKey:          "hf_test",
		Model:           config.DefaultModel,
		PromptByteLimit: config.DefaultPromptByteLimit,
	}
}

func newClient(t *testing.T, handler http.HandlerFunc) *huggingface.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return huggingface.NewWithBaseURL(testConfig(), logging.Discard(), srv.URL)
}

func completionBody(text string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": text}},
		},
	}
}

func TestSummarize(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		require.NoError(t, json.NewEncoder(w).Encode(completionBody("  All on track.\n")))
	})

	sum, err := c.Summarize(context.Background(), "summarize this")
	require.NoError(t, err)

	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer hf_test", gotAuth)
	assert.Equal(t, config.DefaultModel, gotBody["model"])
	assert.EqualValues(t, huggingface.MaxTokens, gotBody["max_tokens"])
	assert.EqualValues(t, huggingface.Temperature, gotBody["temperature"])

	msgs := gotBody["messages"].([]any)
	require.Len(t, msgs, 1)
	msg := msgs[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "summarize this", msg["content"])

	assert.Equal(t, "All on track.", sum.Text)
	assert.Equal(t, config.DefaultModel, sum.Model)
	assert.False(t, sum.GeneratedAt.IsZero())
}

func TestSummarize_PromptTooLarge(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.PromptByteLimit = 10
	c := huggingface.NewWithBaseURL(cfg, logging.Discard(), srv.URL)

	_, err := c.Summarize(context.Background(), "this prompt is longer than ten bytes")
	require.Error(t, err)
	assert.Equal(t, errkind.InputTooLarge, errkind.KindOf(err))
	assert.False(t, called, "oversized prompt must not reach the endpoint")
}

func TestSummarize_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   errkind.Kind
	}{
		{"unauthorized", http.StatusUnauthorized, errkind.Auth},
		{"forbidden", http.StatusForbidden, errkind.Auth},
		{"rate limited", http.StatusTooManyRequests, errkind.QuotaExceeded},
		{"payload too large", http.StatusRequestEntityTooLarge, errkind.InputTooLarge},
		{"unprocessable", http.StatusUnprocessableEntity, errkind.InputTooLarge},
		{"server error", http.StatusInternalServerError, errkind.RemoteUnavailable},
		{"bad gateway", http.StatusBadGateway, errkind.RemoteUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			_, err := c.Summarize(context.Background(), "p")
			require.Error(t, err)
			assert.Equal(t, tt.want, errkind.KindOf(err))
			assert.Equal(t, "summarize", errkind.StepOf(err))
		})
	}
}

func TestSummarize_MalformedResponse(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})
	_, err := c.Summarize(context.Background(), "p")
	require.Error(t, err)
	assert.Equal(t, errkind.MalformedResponse, errkind.KindOf(err))
}

func TestSummarize_EmptyChoices(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"choices": []any{}}))
	})
	_, err := c.Summarize(context.Background(), "p")
	require.Error(t, err)
	assert.Equal(t, errkind.MalformedResponse, errkind.KindOf(err))
}

func TestSummarize_RemoteUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := huggingface.NewWithBaseURL(testConfig(), logging.Discard(), srv.URL)
	_, err := c.Summarize(context.Background(), "p")
	require.Error(t, err)
	assert.Equal(t, errkind.RemoteUnavailable, errkind.KindOf(err))
}
