package emotion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Emotion is one of the seven labels reported by the analyzer.
type Emotion string

const (
	Joy      Emotion = "joy"
	Sadness  Emotion = "sadness"
	Anger    Emotion = "anger"
	Fear     Emotion = "fear"
	Disgust  Emotion = "disgust"
	Surprise Emotion = "surprise"
	Neutral  Emotion = "neutral"
)

// Canonical is the fixed order used for iteration, serialization and
// tie-breaking. Earlier entries win ties.
var Canonical = [...]Emotion{Joy, Sadness, Anger, Fear, Disgust, Surprise, Neutral}

// Count is the number of emotions in the closed set.
const Count = len(Canonical)

// Index returns the canonical position of e, or -1 when e is not one of the seven labels.
func (e Emotion) Index() int {
	for i, c := range Canonical {
		if c == e {
			return i
		}
	}
	return -1
}

// Valid reports whether e belongs to the closed set.
func (e Emotion) Valid() bool {
	return e.Index() >= 0
}

func (e Emotion) String() string {
	return string(e)
}

// Scores holds one value per emotion in canonical order. Being an array it is
// never sparse and copies by value.
type Scores [Count]float64

// Get returns the score for e. Unknown emotions read as zero.
func (s Scores) Get(e Emotion) float64 {
	i := e.Index()
	if i < 0 {
		return 0
	}
	return s[i]
}

// Set assigns v to e. Unknown emotions are ignored.
func (s *Scores) Set(e Emotion, v float64) {
	if i := e.Index(); i >= 0 {
		s[i] = v
	}
}

// Sum adds every score.
func (s Scores) Sum() float64 {
	var total float64
	for _, v := range s {
		total += v
	}
	return total
}

// Dominant returns the emotion with the strictly greatest score. Iteration
// follows Canonical and only a strictly greater value replaces the current
// best, so ties resolve to the earlier emotion. An all-zero distribution is
// neutral.
func (s Scores) Dominant() Emotion {
	best := Neutral
	max := 0.0
	for i, e := range Canonical {
		if s[i] > max {
			max = s[i]
			best = e
		}
	}
	return best
}

// Rounded returns a copy with every score rounded to the given number of decimals.
func (s Scores) Rounded(decimals int) Scores {
	var out Scores
	for i, v := range s {
		out[i] = Round(v, decimals)
	}
	return out
}

// Map converts the scores into a label keyed map.
func (s Scores) Map() map[Emotion]float64 {
	out := make(map[Emotion]float64, Count)
	for i, e := range Canonical {
		out[e] = s[i]
	}
	return out
}

// MarshalJSON writes an object with all seven keys in canonical order.
func (s Scores) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range Canonical {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(string(e)))
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(s[i], 'f', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keyed by emotion label. Unknown keys are rejected.
func (s *Scores) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Scores
	for key, v := range raw {
		e := Emotion(key)
		if !e.Valid() {
			return fmt.Errorf("unknown emotion %q", key)
		}
		out.Set(e, v)
	}
	*s = out
	return nil
}

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
