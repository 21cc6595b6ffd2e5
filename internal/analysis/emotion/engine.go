// Package emotion turns free text into a normalized distribution over the
// seven canonical emotions.
package emotion

import (
	"context"
	"fmt"
	"log/slog"

	model "github.com/zhouzirui/z-mood/backend/internal/model/emotion"
	"github.com/zhouzirui/z-mood/backend/internal/service/sentiment"
)

const (
	// keywordWeight is the share of the distribution split across keyword hits.
	keywordWeight = 0.9
	// keywordNeutral is the fixed neutral share on the keyword path.
	keywordNeutral = 0.1
	// scoreDecimals is the precision of externally visible scores.
	scoreDecimals = 3
)

// Path records which branch produced a result.
type Path string

const (
	PathKeyword   Path = "keyword"
	PathSentiment Path = "sentiment"
)

// PolarityClassifier is the part of sentiment.Classifier the engine needs.
type PolarityClassifier interface {
	Classify(ctx context.Context, text string) (sentiment.Polarity, error)
}

// Result is the outcome of a single analysis.
type Result struct {
	Dominant model.Emotion
	Scores   model.Scores
	Path     Path
}

// Engine combines keyword counts with the polarity classifier.
type Engine struct {
	lexicon    *Lexicon
	classifier PolarityClassifier
}

// NewEngine returns an engine. A nil lexicon selects DefaultLexicon.
func NewEngine(lexicon *Lexicon, classifier PolarityClassifier) *Engine {
	if lexicon == nil {
		lexicon = DefaultLexicon
	}
	return &Engine{lexicon: lexicon, classifier: classifier}
}

// Analyze scores text. The classifier is consulted only when no keyword matches.
func (e *Engine) Analyze(ctx context.Context, text string) (Result, error) {
	counts, total := e.lexicon.Count(text)

	var raw model.Scores
	path := PathKeyword
	if total > 0 {
		raw = keywordScores(counts, total)
	} else {
		path = PathSentiment
		if e.classifier == nil {
			return Result{}, fmt.Errorf("no polarity classifier configured: %w", sentiment.ErrUnavailable)
		}
		polarity, err := e.classifier.Classify(ctx, text)
		if err != nil {
			return Result{}, fmt.Errorf("classify polarity: %w", err)
		}
		raw = polarityScores(polarity)
		slog.Debug("sentiment fallback", "component", "emotion", "label", polarity.Label, "confidence", polarity.Confidence)
	}

	normalized := normalize(raw)
	// Dominant is taken from the unrounded scores.
	return Result{
		Dominant: normalized.Dominant(),
		Scores:   normalized.Rounded(scoreDecimals),
		Path:     path,
	}, nil
}

func keywordScores(counts [model.Count]int, total int) model.Scores {
	var s model.Scores
	for i, e := range model.Canonical {
		if e == model.Neutral {
			continue
		}
		s[i] = float64(counts[i]) / float64(total) * keywordWeight
	}
	s.Set(model.Neutral, keywordNeutral)
	return s
}

func polarityScores(p sentiment.Polarity) model.Scores {
	c := p.Confidence
	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}

	var s model.Scores
	switch p.Label {
	case sentiment.Positive:
		s.Set(model.Joy, 0.6*c)
		s.Set(model.Surprise, 0.2*c)
	default:
		s.Set(model.Sadness, 0.4*c)
		s.Set(model.Fear, 0.3*c)
		s.Set(model.Anger, 0.2*c)
	}
	s.Set(model.Neutral, 1-c)
	return s
}

func normalize(s model.Scores) model.Scores {
	sum := s.Sum()
	if sum <= 0 {
		var out model.Scores
		out.Set(model.Neutral, 1)
		return out
	}
	for i := range s {
		s[i] /= sum
	}
	return s
}
