// Package text provides rune-aware helpers shared by the extractor, the
// summarization client, and the pipeline: counting, display capping,
// whitespace collapsing, and Unicode normalization.
package text

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Every length threshold in the service is measured with this function, so
// multi-byte characters and emoji count as one character each.
//
// Examples:
//
//	CountRunes("hello")    // returns 5
//	CountRunes("héllo")    // returns 5
//	CountRunes("Hello👋")  // returns 6
//	CountRunes("")         // returns 0
func CountRunes(text string) int {
	return len([]rune(text))
}
