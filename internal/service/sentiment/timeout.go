package sentiment

import (
	"context"
	"fmt"
	"time"
)

type timeoutClassifier struct {
	Classifier
	timeout time.Duration
}

// WithTimeout bounds every Classify call on c. A call still running when the
// deadline passes is abandoned and reported as ErrUnavailable. A non-positive
// timeout returns c unchanged.
func WithTimeout(c Classifier, timeout time.Duration) Classifier {
	if timeout <= 0 {
		return c
	}
	return &timeoutClassifier{Classifier: c, timeout: timeout}
}

type classifyResult struct {
	polarity Polarity
	err      error
}

func (t *timeoutClassifier) Classify(ctx context.Context, text string) (Polarity, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	done := make(chan classifyResult, 1)
	go func() {
		p, err := t.Classifier.Classify(ctx, text)
		done <- classifyResult{polarity: p, err: err}
	}()

	select {
	case res := <-done:
		return res.polarity, res.err
	case <-ctx.Done():
		return Polarity{}, fmt.Errorf("classify after %s: %w", t.timeout, ErrUnavailable)
	}
}
