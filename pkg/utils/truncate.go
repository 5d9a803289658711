package utils

// TruncateText returns at most 'limit' characters of the input. Summaries
// sent to the LLM for concept extraction, profiling and variation grounding
// are clipped this way; the full text is only needed for batch generation.
// This is a simple rune-based clip. Ideally, use a tokenizer-aware limit.
func TruncateText(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
