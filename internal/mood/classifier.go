package mood

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
)

type Label string

const (
	Happy   Label = "happy"
	Sad     Label = "sad"
	Neutral Label = "neutral"
)

const (
	MsgEmptyInput = "Please enter some text!"
	MsgKindWords  = "Let's use kind words!"

	msgHappy   = "Sounds happy! This sentence has positive words."
	msgSad     = "Sounds a bit sad. This sentence has negative words."
	msgNeutral = "Sounds neutral. Not too happy, not too sad."
)

const (
	happyThreshold = 0.1
	sadThreshold   = -0.1
	forcedScore    = 0.3
	negationDamp   = 0.8
)

var ErrOracleUnavailable = errors.New("sentiment oracle unavailable")

// Oracle maps a piece of text to a polarity score in [-1, 1].
type Oracle interface {
	Polarity(ctx context.Context, text string) (float64, error)
}

// OracleFunc adapts a plain function to Oracle.
type OracleFunc func(ctx context.Context, text string) (float64, error)

func (f OracleFunc) Polarity(ctx context.Context, text string) (float64, error) {
	return f(ctx, text)
}

type Result struct {
	Label       Label   `json:"label"`
	Explanation string  `json:"explanation"`
	Score       float64 `json:"score"`
}

type Classifier struct {
	oracle  Oracle
	lexicon Lexicon
}

func NewClassifier(oracle Oracle, lexicon Lexicon) *Classifier {
	return &Classifier{
		oracle:  oracle,
		lexicon: lexicon.clone(),
	}
}

// Classify runs the mood pipeline on text. Empty and unkind input are
// answered without consulting the oracle. The only error is an oracle
// failure, wrapped in ErrOracleUnavailable.
func (c *Classifier) Classify(ctx context.Context, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{Label: Neutral, Explanation: MsgEmptyInput, Score: 0.0}, nil
	}

	lower := strings.ToLower(text)
	if containsAny(lower, c.lexicon.BadWords) {
		return Result{Label: Neutral, Explanation: MsgKindWords, Score: 0.0}, nil
	}

	polarity, err := c.oracle.Polarity(ctx, text)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrOracleUnavailable, err)
	}
	if math.IsNaN(polarity) {
		return Result{}, fmt.Errorf("%w: oracle returned NaN", ErrOracleUnavailable)
	}

	score := clamp(c.adjust(lower, polarity), -1.0, 1.0)
	label := LabelFor(score)

	return Result{Label: label, Explanation: Explain(label), Score: score}, nil
}

// FilterReason reports which early exit, if any, text would take. It returns
// "empty", "filtered" or "" when the oracle would be consulted.
func (c *Classifier) FilterReason(text string) string {
	if strings.TrimSpace(text) == "" {
		return "empty"
	}
	if containsAny(strings.ToLower(text), c.lexicon.BadWords) {
		return "filtered"
	}
	return ""
}

func (c *Classifier) adjust(lower string, score float64) float64 {
	neg := countPresent(lower, c.lexicon.NegativeKeywords)
	pos := countPresent(lower, c.lexicon.PositiveKeywords)

	switch {
	case neg > pos && score > sadThreshold:
		score = -forcedScore
	case pos > neg && score < happyThreshold:
		score = forcedScore
	}

	if score > 0 && containsAny(lower, c.lexicon.NegationMarkers) {
		score = -abs(score) * negationDamp
	}

	return score
}

// LabelFor buckets a score. Both thresholds are strict, so exactly 0.1 and
// -0.1 are neutral.
func LabelFor(score float64) Label {
	switch {
	case score > happyThreshold:
		return Happy
	case score < sadThreshold:
		return Sad
	default:
		return Neutral
	}
}

func Explain(label Label) string {
	switch label {
	case Happy:
		return msgHappy
	case Sad:
		return msgSad
	default:
		return msgNeutral
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
