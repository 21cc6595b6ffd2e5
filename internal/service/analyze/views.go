package analyze

import (
	"strconv"
	"strings"

	"github.com/zhouzirui/z-mood/backend/internal/analysis/trend"
	model "github.com/zhouzirui/z-mood/backend/internal/model/emotion"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100

	previewLength = 100
	statsDecimals = 2

	emptyStatsMessage = "No entries yet. Submit text to /api/analyze to get started."
)

// ParseLimit reads a history limit. Anything that is not an integer in
// [1, MaxHistoryLimit] falls back to DefaultHistoryLimit.
func ParseLimit(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultHistoryLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > MaxHistoryLimit {
		return DefaultHistoryLimit
	}
	return n
}

// HistoryItem is the public view of an entry.
type HistoryItem struct {
	ID              string        `json:"id"`
	DominantEmotion model.Emotion `json:"dominant_emotion"`
	Scores          model.Scores  `json:"scores"`
	Timestamp       int64         `json:"timestamp"`
	TextPreview     string        `json:"text_preview"`
}

// History is the payload of the history endpoint.
type History struct {
	Entries []HistoryItem `json:"entries"`
	Total   int           `json:"total"`
	Limit   int           `json:"limit"`
}

// History returns the last limit entries, oldest first.
func (s *Service) History(limit int) History {
	entries := s.store.Recent(limit)
	items := make([]HistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, HistoryItem{
			ID:              e.ID,
			DominantEmotion: e.DominantEmotion,
			Scores:          e.Scores,
			Timestamp:       e.Timestamp,
			TextPreview:     e.Preview(previewLength),
		})
	}
	return History{
		Entries: items,
		Total:   s.store.Count(),
		Limit:   limit,
	}
}

// Stats summarises every retained entry. AverageScores and Message are
// mutually exclusive: the former is set when there is data, the latter when
// there is none.
type Stats struct {
	TotalEntries        int                       `json:"total_entries"`
	EmotionDistribution map[model.Emotion]float64 `json:"emotion_distribution"`
	AverageScores       *model.Scores             `json:"average_scores,omitempty"`
	MostCommonEmotion   *model.Emotion            `json:"most_common_emotion"`
	VisualHint          string                    `json:"visual_hint"`
	Message             string                    `json:"message,omitempty"`
}

// Stats computes the dominant-emotion distribution and average scores. The
// most common emotion is tie-broken by canonical order.
func (s *Service) Stats() Stats {
	entries := s.store.All()
	total := len(entries)
	if total == 0 {
		return Stats{
			TotalEntries:        0,
			EmotionDistribution: map[model.Emotion]float64{},
			VisualHint:          "no_data",
			Message:             emptyStatsMessage,
		}
	}

	var counts [model.Count]int
	for _, e := range entries {
		if i := e.DominantEmotion.Index(); i >= 0 {
			counts[i]++
		}
	}

	distribution := make(map[model.Emotion]float64)
	mostCommon := model.Canonical[0]
	maxCount := 0
	for i, e := range model.Canonical {
		if counts[i] == 0 {
			continue
		}
		distribution[e] = model.Round(float64(counts[i])/float64(total), statsDecimals)
		if counts[i] > maxCount {
			maxCount = counts[i]
			mostCommon = e
		}
	}

	avg := trend.Average(entries).Rounded(statsDecimals)
	return Stats{
		TotalEntries:        total,
		EmotionDistribution: distribution,
		AverageScores:       &avg,
		MostCommonEmotion:   &mostCommon,
		VisualHint:          "pie_chart",
	}
}

// Window reports the sizes of the windows a trend was computed from.
type Window struct {
	Size   int `json:"size"`
	Recent int `json:"recent"`
	Older  int `json:"older"`
}

// Trends is the payload of the trends endpoint.
type Trends struct {
	trend.Overview
	Window      Window         `json:"window"`
	Target      *model.Emotion `json:"target,omitempty"`
	TargetTrend *trend.Result  `json:"target_trend,omitempty"`
}

// Trends runs the comprehensive trend analysis over the current windows. A
// non-empty target is folded onto the canonical set and analyzed on its own.
func (s *Service) Trends(target string) Trends {
	recent, older := s.store.Windows(s.window)
	out := Trends{
		Overview: trend.Comprehensive(recent, older),
		Window:   Window{Size: s.window, Recent: len(recent), Older: len(older)},
	}
	if strings.TrimSpace(target) != "" {
		e := model.CanonicalLabel(target)
		tr := trend.Analyze(recent, older, e)
		out.Target = &e
		out.TargetTrend = &tr
	}
	return out
}
