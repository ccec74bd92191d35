package presenter

import (
	"fmt"
	"strings"

	"github.com/spacesedan/mood2emoji/internal/mood"
)

type Example struct {
	Label mood.Label `json:"label"`
	Emoji string     `json:"emoji"`
	Text  string     `json:"text"`
}

type Examples struct {
	Quick       []Example `json:"quick"`
	Suggestions []string  `json:"suggestions"`
}

func GetExamples() Examples {
	return Examples{
		Quick: []Example{
			{Label: mood.Happy, Emoji: EmojiHappy, Text: "I love learning new things!"},
			{Label: mood.Sad, Emoji: EmojiSad, Text: "I lost my favorite book"},
			{Label: mood.Neutral, Emoji: EmojiNeutral, Text: "The sky is blue"},
		},
		Suggestions: []string{
			"I love sunny days!",
			"I'm excited about the party",
			"This homework is boring",
			"The movie was okay",
		},
	}
}

type Threshold struct {
	Label mood.Label `json:"label"`
	Emoji string     `json:"emoji"`
	Rule  string     `json:"rule"`
}

type TeacherPanel struct {
	Title      string      `json:"title"`
	Steps      []string    `json:"steps"`
	Thresholds []Threshold `json:"thresholds"`
	About      []string    `json:"about"`
	Objectives []string    `json:"objectives"`
}

func GetTeacherPanel() TeacherPanel {
	return TeacherPanel{
		Title: "Teacher Mode: How It Works",
		Steps: []string{
			"User input",
			"Safety check (filter unkind words)",
			"Text analysis (the analyzer scores the words)",
			"Keyword and negation adjustments",
			"Sentiment score (-1.0 to +1.0)",
			"Emoji assignment",
		},
		Thresholds: []Threshold{
			{Label: mood.Happy, Emoji: EmojiHappy, Rule: "score > 0.1"},
			{Label: mood.Sad, Emoji: EmojiSad, Rule: "score < -0.1"},
			{Label: mood.Neutral, Emoji: EmojiNeutral, Rule: "anything in between"},
		},
		About: []string{
			"The analyzer gives each sentence a polarity score from -1 (very negative) to +1 (very positive).",
			`Example: "I love ice cream" scores clearly positive.`,
			`Example: "I don't like rain" scores negative because "don't" flips "like".`,
		},
		Objectives: []string{
			"Understand basic sentiment analysis",
			"Learn about polarity scores",
			"Build interactive web apps",
			"Implement content filtering for safety",
			"Explore real-world AI applications",
		},
	}
}

func RenderTeacherPanel(p TeacherPanel) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", p.Title)
	for i, step := range p.Steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	b.WriteString("\n")
	for _, t := range p.Thresholds {
		fmt.Fprintf(&b, "  %s %-7s %s\n", t.Emoji, t.Label, t.Rule)
	}
	b.WriteString("\n")
	for _, line := range p.About {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	b.WriteString("\nLearning objectives:\n")
	for _, o := range p.Objectives {
		fmt.Fprintf(&b, "  * %s\n", o)
	}
	return b.String()
}
