package sentiment

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/jonreiter/govader"
)

// VaderClassifier scores polarity locally with the VADER lexicon. The
// compound score decides the label; its magnitude maps onto [0.5, 1].
type VaderClassifier struct {
	once     sync.Once
	mu       sync.RWMutex
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderClassifier returns a classifier that becomes ready after Warmup.
func NewVaderClassifier() *VaderClassifier {
	return &VaderClassifier{}
}

// Warmup loads the VADER lexicon once.
func (c *VaderClassifier) Warmup(_ context.Context) error {
	c.once.Do(func() {
		analyzer := govader.NewSentimentIntensityAnalyzer()
		c.mu.Lock()
		c.analyzer = analyzer
		c.mu.Unlock()
	})
	return nil
}

// Ready reports whether the lexicon is loaded.
func (c *VaderClassifier) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.analyzer != nil
}

// Classify returns POSITIVE for a non-negative compound score and NEGATIVE otherwise.
func (c *VaderClassifier) Classify(ctx context.Context, text string) (Polarity, error) {
	c.mu.RLock()
	analyzer := c.analyzer
	c.mu.RUnlock()
	if analyzer == nil {
		return Polarity{}, fmt.Errorf("vader: %w", ErrUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return Polarity{}, fmt.Errorf("vader: %w", ErrUnavailable)
	}

	scores := analyzer.PolarityScores(text)
	label := Positive
	if scores.Compound < 0 {
		label = Negative
	}
	return Polarity{
		Label:      label,
		Confidence: clampConfidence(0.5 + math.Abs(scores.Compound)/2),
	}, nil
}
