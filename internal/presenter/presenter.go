// Package presenter turns classifier results into what the widget shows:
// the emoji, the explanation, and in teacher mode the score and a 0..1
// progress value.
package presenter

import (
	"fmt"
	"strings"

	"github.com/spacesedan/mood2emoji/internal/mood"
)

const (
	EmojiHappy   = "😀"
	EmojiSad     = "😞"
	EmojiNeutral = "😐"
)

type View struct {
	Emoji       string     `json:"emoji"`
	Label       mood.Label `json:"label"`
	Explanation string     `json:"explanation"`
	Text        string     `json:"text"`
	Score       *float64   `json:"score,omitempty"`
	Progress    *float64   `json:"progress,omitempty"`
}

func Emoji(label mood.Label) string {
	switch label {
	case mood.Happy:
		return EmojiHappy
	case mood.Sad:
		return EmojiSad
	default:
		return EmojiNeutral
	}
}

// Progress maps a score in [-1, 1] onto [0, 1], clamping anything outside.
func Progress(score float64) float64 {
	p := (score + 1) / 2
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func Build(res mood.Result, text string, teacherMode bool) View {
	v := View{
		Emoji:       Emoji(res.Label),
		Label:       res.Label,
		Explanation: res.Explanation,
		Text:        text,
	}
	if teacherMode {
		score := res.Score
		progress := Progress(score)
		v.Score = &score
		v.Progress = &progress
	}
	return v
}

const barWidth = 20

// RenderText formats a view for a terminal.
func RenderText(v View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", v.Emoji, v.Explanation)
	if v.Text != "" {
		fmt.Fprintf(&b, "Your sentence: %s\n", v.Text)
	}
	if v.Score != nil {
		fmt.Fprintf(&b, "Polarity Score: %.2f\n", *v.Score)
	}
	if v.Progress != nil {
		filled := int(*v.Progress*barWidth + 0.5)
		fmt.Fprintf(&b, "[%s%s]\n", strings.Repeat("#", filled), strings.Repeat("-", barWidth-filled))
	}
	return b.String()
}
