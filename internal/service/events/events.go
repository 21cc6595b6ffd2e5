// Package events fans finished analyses out to live feeds and external
// subscribers.
package events

import (
	"context"
	"errors"

	model "github.com/zhouzirui/z-mood/backend/internal/model/emotion"
)

// previewLength bounds the text carried by an event.
const previewLength = 100

// Event is the wire form of one analysis.
type Event struct {
	Type            string        `json:"type"`
	ID              string        `json:"id"`
	DominantEmotion model.Emotion `json:"dominant_emotion"`
	Scores          model.Scores  `json:"scores"`
	Timestamp       int64         `json:"timestamp"`
	TextPreview     string        `json:"text_preview"`
}

// FromEntry builds the analysis event for entry.
func FromEntry(entry model.Entry) Event {
	return Event{
		Type:            "analysis",
		ID:              entry.ID,
		DominantEmotion: entry.DominantEmotion,
		Scores:          entry.Scores,
		Timestamp:       entry.Timestamp,
		TextPreview:     entry.Preview(previewLength),
	}
}

// Publisher delivers events to one destination.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Fanout publishes to every publisher and joins their errors.
type Fanout []Publisher

// Publish implements Publisher.
func (f Fanout) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
