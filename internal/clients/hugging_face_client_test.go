package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spacesedan/mood2emoji/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoAnalyzer answers every request with score for each content id it saw.
func echoAnalyzer(t *testing.T, score float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SentimentAnalysisBatchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		resp := make(models.SentimentAnalysisBatchResponse, 0, len(req))
		for _, item := range req {
			resp = append(resp, models.SentimentAnalysisResponse{
				ContentID:      item.ContentID,
				SentimentScore: score,
				SentimentLabel: "positive",
				Confidence:     0.9,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func newTestHF(url string, attempts int) *HuggingFaceClient {
	return NewHuggingFaceClient(url, WithRetryPolicy(attempts, time.Millisecond))
}

func TestHuggingFaceClient_Polarity(t *testing.T) {
	srv := httptest.NewServer(echoAnalyzer(t, 0.42))
	defer srv.Close()

	score, err := newTestHF(srv.URL+"/analyze_batch", 3).Polarity(context.Background(), "I love sunny days")

	require.NoError(t, err)
	assert.Equal(t, 0.42, score)
}

func TestHuggingFaceClient_SendsTextAndUserAgent(t *testing.T) {
	var gotText, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		var req models.SentimentAnalysisBatchRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotText = req[0].Text
		_ = json.NewEncoder(w).Encode(models.SentimentAnalysisBatchResponse{
			{ContentID: req[0].ContentID, SentimentScore: -0.5},
		})
	}))
	defer srv.Close()

	score, err := newTestHF(srv.URL, 1).Polarity(context.Background(), "rainy day")

	require.NoError(t, err)
	assert.Equal(t, -0.5, score)
	assert.Equal(t, "rainy day", gotText)
	assert.Equal(t, USER_AGENT, gotAgent)
}

func TestHuggingFaceClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	ok := echoAnalyzer(t, 0.1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		ok(w, r)
	}))
	defer srv.Close()

	score, err := newTestHF(srv.URL, 5).Polarity(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, 0.1, score)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHuggingFaceClient_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestHF(srv.URL, 3).Polarity(context.Background(), "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status code 500")
	assert.Equal(t, int32(3), calls.Load())
}

func TestHuggingFaceClient_RetriesTransportErrors(t *testing.T) {
	var calls atomic.Int32
	ok := echoAnalyzer(t, -0.4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			hj, canHijack := w.(http.Hijacker)
			require.True(t, canHijack)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		ok(w, r)
	}))
	defer srv.Close()

	score, err := newTestHF(srv.URL, 3).Polarity(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, -0.4, score)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHuggingFaceClient_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestHF(srv.URL, 5).Polarity(context.Background(), "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Equal(t, int32(1), calls.Load())
}

func TestHuggingFaceClient_MissingResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"content_id":"someone-else","sentiment_score":0.9}]`))
	}))
	defer srv.Close()

	_, err := newTestHF(srv.URL, 1).Polarity(context.Background(), "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no sentiment result")
}

func TestHuggingFaceClient_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := newTestHF(srv.URL, 1).Polarity(context.Background(), "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestHuggingFaceClient_ContextCanceledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	h := NewHuggingFaceClient(srv.URL, WithRetryPolicy(5, time.Minute))
	_, err := h.Polarity(ctx, "hello")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHuggingFaceClient_Healthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	h := newTestHF(srv.URL+"/analyze_batch", 1)
	assert.True(t, h.Healthy(context.Background()))

	srv.Close()
	assert.False(t, h.Healthy(context.Background()))
}

func TestNewHuggingFaceClient_Defaults(t *testing.T) {
	h := NewHuggingFaceClient("")

	assert.Equal(t, HF_SENTIMENT_ANALYSIS_ENDPOINT, h.Endpoint)
	assert.Equal(t, MAX_RETRIES, h.maxRetries)
	assert.Equal(t, RemoteOracleName, h.Name())
}
