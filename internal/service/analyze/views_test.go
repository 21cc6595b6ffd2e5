package analyze

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/zhouzirui/z-mood/backend/internal/model/emotion"
)

func TestParseLimit(t *testing.T) {
	cases := map[string]int{
		"":     DefaultHistoryLimit,
		"5":    5,
		" 7 ":  7,
		"100":  100,
		"101":  DefaultHistoryLimit,
		"0":    DefaultHistoryLimit,
		"-3":   DefaultHistoryLimit,
		"ten":  DefaultHistoryLimit,
		"2.5":  DefaultHistoryLimit,
		"1e2":  DefaultHistoryLimit,
		"0005": 5,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseLimit(raw), "raw=%q", raw)
	}
}

func TestHistoryLimitAndPreview(t *testing.T) {
	env := newTestEnv(t, fixedClassifier{})
	ctx := context.Background()

	long := "happy " + strings.Repeat("x", 200)
	for _, text := range []string{"I am sad", "I am angry", long} {
		_, err := env.svc.Analyze(ctx, text)
		require.NoError(t, err)
	}

	h := env.svc.History(2)
	assert.Equal(t, 3, h.Total)
	assert.Equal(t, 2, h.Limit)
	require.Len(t, h.Entries, 2)
	assert.Equal(t, model.Anger, h.Entries[0].DominantEmotion)
	assert.Equal(t, "I am angry", h.Entries[0].TextPreview)
	assert.Equal(t, model.Joy, h.Entries[1].DominantEmotion)
	assert.Equal(t, 103, len([]rune(h.Entries[1].TextPreview)))
	assert.True(t, strings.HasSuffix(h.Entries[1].TextPreview, "..."))

	data, err := json.Marshal(h.Entries[0])
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"text"`)
}

func TestHistoryEmpty(t *testing.T) {
	env := newTestEnv(t, fixedClassifier{})

	data, err := json.Marshal(env.svc.History(DefaultHistoryLimit))
	require.NoError(t, err)
	assert.JSONEq(t, `{"entries":[],"total":0,"limit":10}`, string(data))
}

func TestStatsEmpty(t *testing.T) {
	env := newTestEnv(t, fixedClassifier{})

	data, err := json.Marshal(env.svc.Stats())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"total_entries": 0,
		"emotion_distribution": {},
		"most_common_emotion": null,
		"visual_hint": "no_data",
		"message": "No entries yet. Submit text to /api/analyze to get started."
	}`, string(data))
}

func TestStatsDistribution(t *testing.T) {
	env := newTestEnv(t, fixedClassifier{})
	ctx := context.Background()

	for _, text := range []string{"so happy", "I am sad", "so happy", "I am sad", "wow"} {
		_, err := env.svc.Analyze(ctx, text)
		require.NoError(t, err)
	}

	st := env.svc.Stats()
	assert.Equal(t, 5, st.TotalEntries)
	assert.Equal(t, "pie_chart", st.VisualHint)
	assert.Empty(t, st.Message)
	assert.Equal(t, map[model.Emotion]float64{
		model.Joy:      0.4,
		model.Sadness:  0.4,
		model.Surprise: 0.2,
	}, st.EmotionDistribution)

	require.NotNil(t, st.MostCommonEmotion)
	assert.Equal(t, model.Joy, *st.MostCommonEmotion, "ties resolve to the earlier emotion")

	require.NotNil(t, st.AverageScores)
	assert.Equal(t, 0.36, st.AverageScores.Get(model.Joy))
	assert.Equal(t, 0.36, st.AverageScores.Get(model.Sadness))
	assert.Equal(t, 0.18, st.AverageScores.Get(model.Surprise))
	assert.Equal(t, 0.1, st.AverageScores.Get(model.Neutral))
	assert.Equal(t, 0.0, st.AverageScores.Get(model.Fear))
}

func TestTrendsWithTarget(t *testing.T) {
	env := newTestEnv(t, fixedClassifier{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := env.svc.Analyze(ctx, "so happy")
		require.NoError(t, err)
	}

	tr := env.svc.Trends("Happy")
	assert.Equal(t, Window{Size: DefaultTrendWindow, Recent: 3, Older: 0}, tr.Window)
	assert.Equal(t, model.Joy, tr.Dominant)
	assert.Equal(t, "joy present", tr.Primary.Trend)
	require.NotNil(t, tr.Target)
	assert.Equal(t, model.Joy, *tr.Target)
	require.NotNil(t, tr.TargetTrend)
	assert.Equal(t, "joy present", tr.TargetTrend.Trend)

	plain := env.svc.Trends("")
	assert.Nil(t, plain.Target)
	assert.Nil(t, plain.TargetTrend)
}

func TestTrendsEmpty(t *testing.T) {
	env := newTestEnv(t, fixedClassifier{})

	tr := env.svc.Trends("")
	assert.Equal(t, "no data", tr.Primary.Trend)
	assert.Equal(t, Window{Size: DefaultTrendWindow}, tr.Window)
}
