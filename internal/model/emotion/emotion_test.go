package emotion

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDominantPrefersCanonicalOrderOnTies(t *testing.T) {
	var s Scores
	s.Set(Fear, 0.4)
	s.Set(Anger, 0.4)
	s.Set(Neutral, 0.2)

	assert.Equal(t, Anger, s.Dominant())
}

func TestDominantAllZeroIsNeutral(t *testing.T) {
	assert.Equal(t, Neutral, Scores{}.Dominant())
}

func TestScoresMarshalKeepsAllKeysInOrder(t *testing.T) {
	var s Scores
	s.Set(Joy, 0.9)
	s.Set(Neutral, 0.1)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"joy":0.9,"sadness":0,"anger":0,"fear":0,"disgust":0,"surprise":0,"neutral":0.1}`, string(data))

	var decoded Scores
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, s, decoded)
}

func TestScoresUnmarshalRejectsUnknownKey(t *testing.T) {
	var s Scores
	err := json.Unmarshal([]byte(`{"joy":1,"boredom":0}`), &s)
	assert.Error(t, err)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.333, Round(1.0/3.0, 3))
	assert.Equal(t, 50.0, Round(49.96, 1))
	assert.Equal(t, -12.3, Round(-12.345, 1))
}

func TestCanonicalLabel(t *testing.T) {
	cases := map[string]Emotion{
		"joy":            Joy,
		"Gratitude":      Joy,
		"  grief ":       Sadness,
		"annoyance":      Anger,
		"curiosity":      Surprise,
		"nervousness":    Fear,
		"SCARED":         Fear,
		"disgust":        Disgust,
		"something-else": Neutral,
		"":               Neutral,
	}
	for raw, want := range cases {
		assert.Equal(t, want, CanonicalLabel(raw), raw)
	}
}

func TestEntryPreview(t *testing.T) {
	short := Entry{Text: "hello"}
	assert.Equal(t, "hello", short.Preview(100))

	long := Entry{Text: strings.Repeat("a", 120)}
	preview := long.Preview(100)
	assert.Equal(t, strings.Repeat("a", 100)+"...", preview)
}
