package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
)

const HugotOracleName = "hugot"

type labelScore struct {
	Label string
	Score float64
}

// HugotOracle scores text with a local Hugging Face text-classification
// model run through hugot.
type HugotOracle struct {
	mu       sync.Mutex
	classify func(text string) ([]labelScore, error)
	destroy  func()
}

// NewHugotOracle loads model from modelDir, downloading it from the
// Hugging Face hub on first use.
func NewHugotOracle(model, modelDir string) (*HugotOracle, error) {
	modelPath, err := ensureModel(model, modelDir)
	if err != nil {
		return nil, err
	}

	session, err := newHugotSession()
	if err != nil {
		return nil, fmt.Errorf("[HugotOracle] failed to initialize hugot session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "moodClassificationPipeline",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		session.Destroy()
		return nil, fmt.Errorf("[HugotOracle] failed to initialize pipeline: %w", err)
	}

	slog.Info("[HugotOracle] Pipeline ready", slog.String("model", modelPath))

	return &HugotOracle{
		classify: func(text string) ([]labelScore, error) {
			output, err := pipeline.RunPipeline([]string{text})
			if err != nil {
				return nil, err
			}
			if len(output.ClassificationOutputs) == 0 {
				return nil, fmt.Errorf("[HugotOracle] empty pipeline output")
			}
			scores := make([]labelScore, 0, len(output.ClassificationOutputs[0]))
			for _, o := range output.ClassificationOutputs[0] {
				scores = append(scores, labelScore{Label: o.Label, Score: float64(o.Score)})
			}
			return scores, nil
		},
		destroy: func() { session.Destroy() },
	}, nil
}

func ensureModel(model, modelDir string) (string, error) {
	localPath := filepath.Join(modelDir, strings.ReplaceAll(model, "/", "_"))
	if _, err := os.Stat(localPath); err == nil {
		slog.Info("[HugotOracle] Using existing model", slog.String("path", localPath))
		return localPath, nil
	}

	if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("[HugotOracle] failed to create model directory: %w", err)
	}

	slog.Info("[HugotOracle] Model not found, downloading...", slog.String("model", model))
	modelPath, err := hugot.DownloadModel(model, modelDir, hugot.NewDownloadOptions())
	if err != nil {
		return "", fmt.Errorf("[HugotOracle] failed to download model %s: %w", model, err)
	}
	return modelPath, nil
}

func (h *HugotOracle) Name() string { return HugotOracleName }

// Polarity runs the model and converts its labels to a score in [-1, 1].
func (h *HugotOracle) Polarity(ctx context.Context, text string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	h.mu.Lock()
	scores, err := h.classify(text)
	h.mu.Unlock()
	if err != nil {
		return 0, fmt.Errorf("[HugotOracle] classification failed: %w", err)
	}
	return polarityFromLabels(scores), nil
}

// Healthy always holds once the pipeline is loaded.
func (h *HugotOracle) Healthy(context.Context) bool { return true }

func (h *HugotOracle) Close() {
	if h.destroy != nil {
		h.destroy()
	}
}

// polarityFromLabels returns P(positive) - P(negative). A model that only
// reports its top label is treated as binary, so the remaining mass goes to
// the opposite class.
func polarityFromLabels(scores []labelScore) float64 {
	var pos, neg float64
	var sawPos, sawNeg bool
	for _, s := range scores {
		switch label := strings.ToLower(s.Label); {
		case strings.HasPrefix(label, "pos"):
			pos, sawPos = s.Score, true
		case strings.HasPrefix(label, "neg"):
			neg, sawNeg = s.Score, true
		}
	}

	switch {
	case sawPos && !sawNeg && len(scores) == 1:
		neg = 1 - pos
	case sawNeg && !sawPos && len(scores) == 1:
		pos = 1 - neg
	}
	return clampUnit(pos - neg)
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
