// Package analyze orchestrates a single analysis: validate the text, score
// it, record the entry, and derive the trend for the response.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	analysis "github.com/zhouzirui/z-mood/backend/internal/analysis/emotion"
	"github.com/zhouzirui/z-mood/backend/internal/analysis/trend"
	"github.com/zhouzirui/z-mood/backend/internal/metrics"
	model "github.com/zhouzirui/z-mood/backend/internal/model/emotion"
	"github.com/zhouzirui/z-mood/backend/internal/service/events"
	"github.com/zhouzirui/z-mood/backend/internal/service/history"
	"github.com/zhouzirui/z-mood/backend/internal/service/sentiment"
)

const (
	// Disclaimer accompanies every analysis response.
	Disclaimer = "This is an emotional indicator, not a medical diagnosis"
	// Version is reported by the status endpoint.
	Version = "1.0.0"

	DefaultMaxTextLength = 5000
	DefaultTrendWindow   = 10

	// lineChartThreshold is the history size from which trends are worth charting.
	lineChartThreshold = 5
)

// Validation details surfaced to clients.
const (
	DetailsTextRequired = "Text field is required and must be a string"
	DetailsTextEmpty    = "Text cannot be empty"
)

// ValidationError reports input that was rejected before any work was done.
type ValidationError struct {
	Details string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + e.Details
}

// TextAnalyzer scores a single text.
type TextAnalyzer interface {
	Analyze(ctx context.Context, text string) (analysis.Result, error)
}

// Options configures a Service. Zero values select the defaults.
type Options struct {
	MaxTextLength int
	TrendWindow   int
	Clock         clockwork.Clock
	Publisher     events.Publisher
	Metrics       *metrics.Analysis
	// Ready reports whether the polarity classifier can serve requests.
	Ready func() bool
}

// Service is the analysis orchestrator. It is safe for concurrent use.
type Service struct {
	analyzer  TextAnalyzer
	store     *history.Store
	clock     clockwork.Clock
	publisher events.Publisher
	metrics   *metrics.Analysis
	ready     func() bool
	maxLength int
	window    int
}

// NewService wires the analyzer and the history store into an orchestrator.
func NewService(analyzer TextAnalyzer, store *history.Store, opts Options) *Service {
	s := &Service{
		analyzer:  analyzer,
		store:     store,
		clock:     opts.Clock,
		publisher: opts.Publisher,
		metrics:   opts.Metrics,
		ready:     opts.Ready,
		maxLength: opts.MaxTextLength,
		window:    opts.TrendWindow,
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if s.maxLength <= 0 {
		s.maxLength = DefaultMaxTextLength
	}
	if s.window <= 0 {
		s.window = DefaultTrendWindow
	}
	if s.ready == nil {
		s.ready = func() bool { return true }
	}
	return s
}

// Response is the payload returned for a successful analysis.
type Response struct {
	DominantEmotion  model.Emotion    `json:"dominant_emotion"`
	Scores           model.Scores     `json:"scores"`
	Trend            string           `json:"trend"`
	TrendConfidence  trend.Confidence `json:"trend_confidence"`
	ChangePercentage float64          `json:"change_percentage"`
	VisualHint       string           `json:"visual_hint"`
	Timestamp        int64            `json:"timestamp"`
	TotalEntries     int              `json:"total_entries"`
	Disclaimer       string           `json:"disclaimer"`
}

// ValidateText checks the trimmed and raw length of text.
func (s *Service) ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Details: DetailsTextEmpty}
	}
	if utf8.RuneCountInString(text) > s.maxLength {
		return &ValidationError{Details: fmt.Sprintf("Text exceeds maximum length of %d characters", s.maxLength)}
	}
	return nil
}

// Analyze scores text, appends the entry to history and reports the trend of
// its dominant emotion. On any error nothing is stored.
func (s *Service) Analyze(ctx context.Context, text string) (Response, error) {
	if err := s.ValidateText(text); err != nil {
		s.metrics.ObserveFailure("validation")
		return Response{}, err
	}

	start := s.clock.Now()
	result, err := s.analyzer.Analyze(ctx, text)
	if err != nil {
		s.metrics.ObserveFailure(failureReason(err))
		return Response{}, fmt.Errorf("analyze text: %w", err)
	}

	now := s.clock.Now()
	entry := model.Entry{
		ID:              uuid.NewString(),
		Text:            text,
		DominantEmotion: result.Dominant,
		Scores:          result.Scores,
		Timestamp:       now.UnixMilli(),
	}
	s.store.Add(entry)

	recent, older := s.store.Windows(s.window)
	total := s.store.Count()
	tr := trend.Analyze(recent, older, result.Dominant)

	s.metrics.ObserveSuccess(string(result.Path), string(result.Dominant), now.Sub(start).Seconds(), total)
	s.publish(ctx, entry)

	slog.Info("text analyzed",
		"component", "analyze",
		"id", entry.ID,
		"path", result.Path,
		"dominant", result.Dominant,
		"trend", tr.Trend,
		"entries", total,
	)

	hint := "bar_chart"
	if total >= lineChartThreshold {
		hint = "line_chart"
	}

	return Response{
		DominantEmotion:  result.Dominant,
		Scores:           result.Scores,
		Trend:            tr.Trend,
		TrendConfidence:  tr.Confidence,
		ChangePercentage: tr.ChangePercentage,
		VisualHint:       hint,
		Timestamp:        entry.Timestamp,
		TotalEntries:     total,
		Disclaimer:       Disclaimer,
	}, nil
}

func (s *Service) publish(ctx context.Context, entry model.Entry) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), events.FromEntry(entry)); err != nil {
		slog.Warn("failed to publish analysis event", "component", "analyze", "id", entry.ID, "error", err)
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, sentiment.ErrUnavailable):
		return "classifier_unavailable"
	case errors.Is(err, sentiment.ErrClassification):
		return "classification"
	default:
		return "internal"
	}
}

// Status describes the analyze endpoint.
type Status struct {
	Status       string `json:"status"`
	Endpoint     string `json:"endpoint"`
	Method       string `json:"method"`
	ModelReady   bool   `json:"model_ready"`
	TotalEntries int    `json:"total_entries"`
	Version      string `json:"version"`
}

// Status reports classifier readiness and the history size.
func (s *Service) Status() Status {
	return Status{
		Status:       "ok",
		Endpoint:     "/api/analyze",
		Method:       "POST",
		ModelReady:   s.ready(),
		TotalEntries: s.store.Count(),
		Version:      Version,
	}
}

// Clear empties the history store.
func (s *Service) Clear() {
	s.store.Clear()
	s.metrics.SetEntries(0)
	slog.Info("history cleared", "component", "analyze")
}
