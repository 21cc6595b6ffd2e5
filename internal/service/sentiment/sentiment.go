// Package sentiment provides the binary polarity classifiers used when a text
// carries no emotion keywords.
package sentiment

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Label is the binary polarity reported by a classifier.
type Label string

const (
	Positive Label = "POSITIVE"
	Negative Label = "NEGATIVE"
)

// ParseLabel accepts the usual spellings of both polarities.
func ParseLabel(raw string) (Label, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "POSITIVE", "POS", "LABEL_1":
		return Positive, true
	case "NEGATIVE", "NEG", "LABEL_0":
		return Negative, true
	default:
		return "", false
	}
}

// Polarity is a single classification: a label and the confidence in it.
type Polarity struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
}

var (
	// ErrUnavailable means the classifier is not ready, failed to initialise,
	// or did not answer in time.
	ErrUnavailable = errors.New("sentiment classifier unavailable")
	// ErrClassification means the classifier failed on the given input.
	ErrClassification = errors.New("sentiment classification failed")
)

// Classifier is the polarity capability consumed by the emotion engine.
// Warmup is idempotent; Classify must not be used to trigger initialisation.
type Classifier interface {
	Classify(ctx context.Context, text string) (Polarity, error)
	Ready() bool
	Warmup(ctx context.Context) error
}

// Backend names accepted by New.
const (
	BackendVader = "vader"
	BackendArk   = "ark"
)

// New builds the classifier for the named backend. The ark backend needs a
// chat model factory; see NewArkClassifier.
func New(backend string, factory ChatModelFactory) (Classifier, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendVader:
		return NewVaderClassifier(), nil
	case BackendArk:
		if factory == nil {
			return nil, fmt.Errorf("ark backend requires a chat model factory")
		}
		return NewArkClassifier(factory), nil
	default:
		return nil, fmt.Errorf("unknown classifier backend %q", backend)
	}
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
