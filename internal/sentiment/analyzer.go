// Package sentiment rates candidate answers with VADER, a lexicon and rule
// based polarity model. The result is deterministic for a given input.
package sentiment

import (
	"strings"
	"sync"

	"github.com/jonreiter/govader"
)

// Score is a four-component polarity measurement. Positive, Negative and
// Neutral are proportions in [0,1]; Compound is the normalized sum in [-1,1].
type Score struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Compound float64 `json:"compound"`
}

// Analyzer is safe for concurrent use.
type Analyzer struct {
	mu    sync.Mutex
	vader *govader.SentimentIntensityAnalyzer
}

// New loads the VADER lexicon bundled with govader.
func New() *Analyzer {
	return &Analyzer{vader: govader.NewSentimentIntensityAnalyzer()}
}

// Score computes the polarity of text. Blank text scores zero everywhere.
func (a *Analyzer) Score(text string) Score {
	if strings.TrimSpace(text) == "" {
		return Score{}
	}

	a.mu.Lock()
	s := a.vader.PolarityScores(text)
	a.mu.Unlock()

	return Score{
		Positive: s.Positive,
		Negative: s.Negative,
		Neutral:  s.Neutral,
		Compound: s.Compound,
	}
}
