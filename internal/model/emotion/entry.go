package emotion

// Entry records a single successful analysis. Entries are immutable once
// created; the history store hands out copies.
type Entry struct {
	ID              string  `json:"id"`
	Text            string  `json:"text"`
	DominantEmotion Emotion `json:"dominant_emotion"`
	Scores          Scores  `json:"scores"`
	Timestamp       int64   `json:"timestamp"`
}

// Preview returns at most limit characters of the entry text, suffixed with
// "..." when the text was cut.
func (e Entry) Preview(limit int) string {
	runes := []rune(e.Text)
	if len(runes) <= limit {
		return e.Text
	}
	return string(runes[:limit]) + "..."
}
