package score

import (
	"math"
	"strings"

	"github.com/jonreiter/govader"
)

// SentimentScorer maps free text to a polarity in [-1, 1].
type SentimentScorer interface {
	Score(text string) float64
}

// Vader scores text with the VADER compound polarity.
type Vader struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVader returns a VADER scorer. overrides set word valences (-4..+4) on top
// of the stock lexicon; non-finite values are ignored.
func NewVader(overrides map[string]float64) *Vader {
	analyzer := govader.NewSentimentIntensityAnalyzer()
	if len(overrides) > 0 {
		lexicon := make(map[string]float64, len(analyzer.Lexicon)+len(overrides))
		for w, v := range analyzer.Lexicon {
			lexicon[w] = v
		}
		for w, v := range overrides {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lexicon[strings.ToLower(strings.TrimSpace(w))] = v
		}
		analyzer.Lexicon = lexicon
	}
	return &Vader{analyzer: analyzer}
}

// Score returns the compound polarity of text. Blank text scores 0.
func (v *Vader) Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	c := v.analyzer.PolarityScores(text).Compound
	if math.IsNaN(c) {
		return 0
	}
	return clamp(c, -1, 1)
}
