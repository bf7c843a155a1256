package prompt

import (
	"strings"
	"unicode/utf8"
)

// Interrogative and filler words carrying no retrieval signal.
var stopWords = map[string]bool{
	"как": true, "что": true, "где": true, "когда": true, "нужно": true,
	"можно": true, "надо": true, "нужны": true, "какие": true, "какой": true,
}

// NoRelevantInfo is the sentinel line returned when no context line contains
// any query keyword.
const NoRelevantInfo = "Релевантная информация в контексте не найдена."

// ExtractKeywords lowercases the query, strips edge punctuation from each
// token, removes stop words, and keeps tokens longer than 3 runes. Original
// order is preserved and duplicates are not removed.
func ExtractKeywords(query string) []string {
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		word = strings.Trim(word, "?,!.")
		if stopWords[word] {
			continue
		}
		if utf8.RuneCountInString(word) > 3 {
			keywords = append(keywords, word)
		}
	}
	return keywords
}

// RelevantLines returns every context line containing at least one keyword
// (case-insensitive substring match), each prefixed with "- ". When nothing
// matches it returns the single NoRelevantInfo sentinel line.
func RelevantLines(keywords []string, context string) []string {
	var relevant []string
	for _, line := range strings.Split(context, "\n") {
		lower := strings.ToLower(line)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				relevant = append(relevant, "- "+line)
				break
			}
		}
	}
	if len(relevant) == 0 {
		return []string{NoRelevantInfo}
	}
	return relevant
}
