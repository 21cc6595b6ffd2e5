package emotion

import (
	"regexp"
	"strings"

	model "github.com/zhouzirui/z-mood/backend/internal/model/emotion"
)

// keywordBuckets lists the whole-word cues for each non-neutral emotion.
var keywordBuckets = map[model.Emotion][]string{
	model.Joy: {
		"happy", "joy", "excited", "wonderful", "amazing", "love", "great", "excellent",
		"fantastic", "delighted", "pleased", "cheerful", "thrilled",
	},
	model.Sadness: {
		"sad", "unhappy", "depressed", "disappointed", "down", "miserable", "heartbroken",
		"grief", "sorrow", "crying", "tears",
	},
	model.Anger: {
		"angry", "mad", "furious", "annoyed", "irritated", "frustrated", "rage", "hate",
		"pissed", "outraged", "livid",
	},
	model.Fear: {
		"scared", "afraid", "terrified", "worried", "anxious", "frightened", "nervous",
		"panic", "dread", "horror",
	},
	model.Disgust: {
		"disgusting", "gross", "revolting", "nasty", "awful", "terrible", "horrible",
		"repulsive", "sickening",
	},
	model.Surprise: {
		"surprised", "shocked", "amazed", "astonished", "wow", "unbelievable", "unexpected",
		"stunned",
	},
}

// Lexicon counts keyword matches per emotion. It is built once and safe for
// concurrent use.
type Lexicon struct {
	patterns [model.Count]*regexp.Regexp
}

// DefaultLexicon is compiled from keywordBuckets at package init.
var DefaultLexicon = NewLexicon(keywordBuckets)

// NewLexicon compiles one case-insensitive whole-word pattern per emotion.
// Neutral never carries keywords and is skipped.
func NewLexicon(buckets map[model.Emotion][]string) *Lexicon {
	lex := &Lexicon{}
	for i, e := range model.Canonical {
		if e == model.Neutral {
			continue
		}
		words := make([]string, 0, len(buckets[e]))
		for _, w := range buckets[e] {
			w = strings.TrimSpace(w)
			if w == "" {
				continue
			}
			words = append(words, regexp.QuoteMeta(strings.ToLower(w)))
		}
		if len(words) == 0 {
			continue
		}
		lex.patterns[i] = regexp.MustCompile(`(?i)\b(?:` + strings.Join(words, "|") + `)\b`)
	}
	return lex
}

// Count returns raw match counts per emotion and their total.
func (l *Lexicon) Count(text string) (counts [model.Count]int, total int) {
	for i, re := range l.patterns {
		if re == nil {
			continue
		}
		n := len(re.FindAllStringIndex(text, -1))
		counts[i] = n
		total += n
	}
	return counts, total
}
