package sentiment

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

const VaderOracleName = "vader"

var (
	analyzer = govader.NewSentimentIntensityAnalyzer()

	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]+>`)
)

// Scores is the full VADER breakdown for a piece of text.
type Scores struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
	Compound float64 `json:"compound"`
}

// VaderOracle scores text with the shared VADER analyzer. The lexicon is
// read-only after init, so it is safe for concurrent use.
type VaderOracle struct{}

func NewVaderOracle() *VaderOracle {
	return &VaderOracle{}
}

func (v *VaderOracle) Name() string { return VaderOracleName }

// Polarity returns the VADER compound score, which is already in [-1, 1].
func (v *VaderOracle) Polarity(ctx context.Context, text string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return v.Scores(text).Compound, nil
}

func (v *VaderOracle) Scores(text string) Scores {
	s := analyzer.PolarityScores(PlainText(text))
	return Scores{
		Positive: s.Positive,
		Neutral:  s.Neutral,
		Negative: s.Negative,
		Compound: s.Compound,
	}
}

// Healthy always holds for the in-process analyzer.
func (v *VaderOracle) Healthy(context.Context) bool { return true }

// RemoveLinks keeps the text of markdown links and drops bare URLs.
func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1")
	return urlPattern.ReplaceAllString(input, "")
}

// PlainText renders markdown to HTML, strips the tags and links and
// collapses whitespace.
func PlainText(input string) string {
	// Smartypants stays off so "don't" keeps the ASCII apostrophe VADER's
	// negation rules look for. Renderers hold state, so one per call.
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.UseXHTML,
	})
	output := blackfriday.Run([]byte(input),
		blackfriday.WithNoExtensions(),
		blackfriday.WithRenderer(renderer))
	stripped := tagPattern.ReplaceAllString(string(output), " ")
	plainText := strings.Join(strings.Fields(html.UnescapeString(stripped)), " ")

	return strings.TrimSpace(strings.Join(strings.Fields(RemoveLinks(plainText)), " "))
}
