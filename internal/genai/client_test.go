package genai_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdeck/interview-manager/internal/genai"

	_ "github.com/prepdeck/interview-manager/internal/genai/providers"
)

const openAIResponse = `{
	"model": "test-model",
	"choices": [{"message": {"content": "Question: Q?\nAnswer: A."}, "finish_reason": "stop"}],
	"usage": {"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30}
}`

func fastRetry() genai.RetryConfig {
	return genai.RetryConfig{
		MaxAttempts:       3,
		BackoffBase:       time.Millisecond,
		BackoffMultiplier: 2.0,
		MaxBackoff:        5 * time.Millisecond,
	}
}

func newClient(baseURL string) *genai.Client {
	return genai.NewClient(genai.EndpointConfig{
		Provider: "openai",
		Model:    "test-model",
		BaseURL:  baseURL,
		APIKey:   "test-key",
	}, genai.WithRetryConfig(fastRetry()))
}

func TestClientGenerate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(openAIResponse))
	}))
	defer srv.Close()

	got, err := newClient(srv.URL).Generate(t.Context(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Question: Q?\nAnswer: A.", got)
}

func TestClientGenerate_RetriesTransientErrors(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(openAIResponse))
	}))
	defer srv.Close()

	got, err := newClient(srv.URL).Generate(t.Context(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Question: Q?\nAnswer: A.", got)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClientGenerate_ExhaustsRetries(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).Generate(t.Context(), "prompt")
	require.Error(t, err)
	assert.True(t, genai.IsTransient(err))
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClientGenerate_FatalErrorsAbortImmediately(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).Generate(t.Context(), "prompt")
	require.Error(t, err)
	assert.True(t, genai.IsFatal(err))
	assert.Equal(t, int32(1), attempts.Load(), "fatal errors must not be retried")
}

func TestClientGenerate_EmptyPrompt(t *testing.T) {
	t.Parallel()

	_, err := newClient("http://unused").Generate(t.Context(), "")
	require.Error(t, err)
	assert.True(t, genai.IsFatal(err))
}

func TestClientGenerate_UnknownProvider(t *testing.T) {
	t.Parallel()

	client := genai.NewClient(genai.EndpointConfig{
		Provider: "nope",
		Model:    "test-model",
	}, genai.WithRetryConfig(fastRetry()))

	_, err := client.Generate(t.Context(), "prompt")
	require.Error(t, err)
	assert.True(t, genai.IsFatal(err))
}
