// Package trend compares a recent and an older window of analyses to report
// how one emotion is moving.
package trend

import (
	"math"

	model "github.com/zhouzirui/z-mood/backend/internal/model/emotion"
)

// Confidence is a coarse tier of the size of a change, not a statistical interval.
type Confidence string

const (
	Low    Confidence = "low"
	Medium Confidence = "medium"
	High   Confidence = "high"
)

const (
	highThreshold   = 30.0
	mediumThreshold = 15.0
	moveThreshold   = 10.0
)

// Result describes the direction of one emotion between two windows.
type Result struct {
	Trend            string     `json:"trend"`
	Confidence       Confidence `json:"confidence"`
	ChangePercentage float64    `json:"change_percentage"`
}

// Overview is the per-emotion breakdown plus the trend of whichever emotion
// dominates the recent window.
type Overview struct {
	Primary  Result                  `json:"primary_trend"`
	Dominant model.Emotion           `json:"dominant_emotion,omitempty"`
	All      map[model.Emotion]Result `json:"all_emotions"`
}

// Average returns the per-emotion mean over entries. An empty slice averages to zero.
func Average(entries []model.Entry) model.Scores {
	var avg model.Scores
	if len(entries) == 0 {
		return avg
	}
	for _, entry := range entries {
		for i, v := range entry.Scores {
			avg[i] += v
		}
	}
	n := float64(len(entries))
	for i := range avg {
		avg[i] /= n
	}
	return avg
}

// Analyze reports the trend of target between the older and recent windows.
//
// When the older average for target is exactly zero the change percentage is
// reported as 0 even if the recent score is not. That keeps the division
// guarded at the cost of hiding growth from a zero baseline.
func Analyze(recent, older []model.Entry, target model.Emotion) Result {
	if len(recent) < 2 {
		return Result{Trend: string(target) + " detected", Confidence: Low}
	}

	recentScore := Average(recent).Get(target)

	if len(older) == 0 {
		return Result{Trend: string(target) + " present", Confidence: Low}
	}

	olderScore := Average(older).Get(target)

	change := recentScore - olderScore
	pct := 0.0
	if olderScore > 0 {
		pct = change / olderScore * 100
	}

	return Result{
		Trend:            direction(target, pct),
		Confidence:       tier(pct),
		ChangePercentage: model.Round(pct, 1),
	}
}

// Comprehensive runs Analyze for every emotion and picks the primary trend
// from the emotion dominating the recent averages.
func Comprehensive(recent, older []model.Entry) Overview {
	if len(recent) == 0 {
		return Overview{
			Primary: Result{Trend: "no data", Confidence: Low},
			All:     map[model.Emotion]Result{},
		}
	}

	all := make(map[model.Emotion]Result, model.Count)
	for _, e := range model.Canonical {
		all[e] = Analyze(recent, older, e)
	}

	dominant := Average(recent).Dominant()
	return Overview{
		Primary:  all[dominant],
		Dominant: dominant,
		All:      all,
	}
}

func tier(pct float64) Confidence {
	abs := math.Abs(pct)
	switch {
	case abs > highThreshold:
		return High
	case abs > mediumThreshold:
		return Medium
	default:
		return Low
	}
}

func direction(target model.Emotion, pct float64) string {
	switch {
	case pct > moveThreshold:
		return string(target) + " increasing"
	case pct < -moveThreshold:
		return string(target) + " decreasing"
	default:
		return string(target) + " stable"
	}
}
