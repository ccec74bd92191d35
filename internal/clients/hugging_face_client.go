package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/spacesedan/mood2emoji/internal/models"
)

const (
	HF_SENTIMENT_ANALYSIS_ENDPOINT = "https://spacesedan-sentiment-analyzer.hf.space/analyze_batch"
	RemoteOracleName               = "remote"
)

// HuggingFaceClient talks to the hosted sentiment analyzer and serves as a
// remote polarity oracle.
type HuggingFaceClient struct {
	Client   *http.Client
	Endpoint string

	maxRetries     int
	initialBackoff time.Duration
}

type HuggingFaceOption func(*HuggingFaceClient)

// WithRetryPolicy overrides the attempt count and first backoff delay.
func WithRetryPolicy(attempts int, initialBackoff time.Duration) HuggingFaceOption {
	return func(h *HuggingFaceClient) {
		h.maxRetries = attempts
		h.initialBackoff = initialBackoff
	}
}

func WithHTTPClient(c *http.Client) HuggingFaceOption {
	return func(h *HuggingFaceClient) {
		h.Client = c
	}
}

func NewHuggingFaceClient(endpoint string, opts ...HuggingFaceOption) *HuggingFaceClient {
	if endpoint == "" {
		endpoint = HF_SENTIMENT_ANALYSIS_ENDPOINT
	}

	var timeout time.Duration
	env := os.Getenv("APP_ENV")
	if env == "production" {
		timeout = 10 * time.Second
	} else {
		timeout = 60 * time.Second
	}

	h := &HuggingFaceClient{
		Client:         &http.Client{Timeout: timeout},
		Endpoint:       endpoint,
		maxRetries:     MAX_RETRIES,
		initialBackoff: INITIAL_BACKOFF,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.maxRetries < 1 {
		h.maxRetries = 1
	}
	if h.initialBackoff <= 0 {
		h.initialBackoff = INITIAL_BACKOFF
	}

	slog.Info("[HuggingFaceClient] Initializing Client",
		slog.String("endpoint", h.Endpoint),
		slog.Duration("timeout", h.Client.Timeout),
		slog.String("env", env))

	return h
}

func (h *HuggingFaceClient) Name() string { return RemoteOracleName }

// Polarity sends text to the analyzer as a batch of one and returns its
// score.
func (h *HuggingFaceClient) Polarity(ctx context.Context, text string) (float64, error) {
	req := models.SentimentAnalysisBatchRequest{
		{ContentID: uuid.NewString(), Text: text},
	}

	scores, err := h.GetBatchedSentimentAnalysis(ctx, req)
	if err != nil {
		return 0, err
	}

	for _, s := range scores {
		if s.ContentID == req[0].ContentID {
			return s.SentimentScore, nil
		}
	}

	return 0, fmt.Errorf("[HuggingFaceClient] no sentiment result for content id %s", req[0].ContentID)
}

func (h *HuggingFaceClient) GetBatchedSentimentAnalysis(ctx context.Context, input models.SentimentAnalysisBatchRequest) (models.SentimentAnalysisBatchResponse, error) {
	var result models.SentimentAnalysisBatchResponse
	slog.Debug("[HuggingFaceClient] Requesting sentiment analysis from sentiment analysis service",
		slog.Int("batch_size", len(input)))
	start := time.Now()

	err := h.postJSON(ctx, h.Endpoint, input, &result)
	if err != nil {
		slog.Error("[HuggingFaceClient] Sentiment Analysis request failed",
			slog.Duration("elapsed", time.Since(start)))
		return result, err
	}

	slog.Debug("[HuggingFaceClient] Sentiment Analysis request successful",
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

// Healthy probes the analyzer's /health route.
func (h *HuggingFaceClient) Healthy(ctx context.Context) bool {
	healthURL, err := h.healthURL()
	if err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := h.Client.Do(req)
	if err != nil {
		slog.Warn("[HuggingFaceClient] Health check failed",
			slog.String("error", err.Error()))
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

func (h *HuggingFaceClient) healthURL() (string, error) {
	u, err := url.Parse(h.Endpoint)
	if err != nil {
		return "", err
	}
	u.Path = "/health"
	u.RawQuery = ""
	return u.String(), nil
}

// DoWithRetry posts body to endpoint, retrying transport errors and 5xx
// responses with exponential backoff. Any other response is returned as is.
func (h *HuggingFaceClient) DoWithRetry(ctx context.Context, body []byte, endpoint string) (*http.Response, error) {
	var resp *http.Response
	attempt := 0
	backoff := retry.WithMaxRetries(uint64(h.maxRetries-1), retry.NewExponential(h.initialBackoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", USER_AGENT)

		r, err := h.Client.Do(req)
		if err == nil && r.StatusCode < 500 {
			resp = r
			return nil
		}

		msg := errMsg(err, r)
		if r != nil {
			r.Body.Close()
		}
		if err == nil {
			err = fmt.Errorf("server error: %s", msg)
		}

		slog.Warn("[HuggingFaceClient] Request failed",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", h.maxRetries),
			slog.String("error", msg))

		return retry.RetryableError(err)
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (h *HuggingFaceClient) postJSON(ctx context.Context, endpoint string, input interface{}, output interface{}) error {
	body, err := json.Marshal(input)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to marshal input",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	resp, err := h.DoWithRetry(ctx, body, endpoint)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed request after retries",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))

		return fmt.Errorf("request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to read response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("[HuggingFaceClient] Unexpected status",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			getPreview(respBody))
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Error("[HuggingFaceClient] Failed to unmarshal response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			getPreview(respBody),
			slog.Int("raw_response_length", len(respBody)))

		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
