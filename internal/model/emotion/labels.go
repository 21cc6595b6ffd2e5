package emotion

import "strings"

// labelTable folds richer classifier taxonomies (go_emotions and common
// aliases) onto the seven canonical labels.
var labelTable = map[string]Emotion{
	"joy":      Joy,
	"sadness":  Sadness,
	"anger":    Anger,
	"fear":     Fear,
	"disgust":  Disgust,
	"surprise": Surprise,
	"neutral":  Neutral,

	"admiration": Joy,
	"amusement":  Joy,
	"approval":   Joy,
	"caring":     Joy,
	"desire":     Joy,
	"excitement": Joy,
	"gratitude":  Joy,
	"love":       Joy,
	"optimism":   Joy,
	"pride":      Joy,
	"relief":     Joy,

	"disappointment": Sadness,
	"embarrassment":  Sadness,
	"grief":          Sadness,
	"remorse":        Sadness,

	"annoyance":   Anger,
	"disapproval": Anger,

	"confusion":   Surprise,
	"curiosity":   Surprise,
	"realization": Surprise,

	"nervousness": Fear,

	"happy":  Joy,
	"sad":    Sadness,
	"angry":  Anger,
	"scared": Fear,
}

// CanonicalLabel maps a classifier label onto the closed set. Matching is
// case-insensitive; unmapped labels fall back to neutral.
func CanonicalLabel(raw string) Emotion {
	if e, ok := labelTable[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return e
	}
	return Neutral
}
