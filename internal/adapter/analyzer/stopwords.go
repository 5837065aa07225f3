package analyzer

import "strings"

// StopwordSet is a read-only set of lower-case stopwords.
type StopwordSet map[string]struct{}

// NewStopwordSet builds a set from words, lower-casing and trimming each one.
// Blank entries are skipped.
func NewStopwordSet(words ...string) StopwordSet {
	set := make(StopwordSet, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

// Contains reports exact membership of token.
func (s StopwordSet) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// Len returns the number of stopwords.
func (s StopwordSet) Len() int {
	return len(s)
}

// DefaultStopwords returns a small set of common English stopwords, used
// when no stopword file is configured.
func DefaultStopwords() StopwordSet {
	return NewStopwordSet(
		"a", "an", "and", "are", "as", "at", "be", "by", "for",
		"from", "has", "he", "in", "is", "it", "its", "of", "on",
		"that", "the", "to", "was", "were", "will", "with", "this",
		"have", "had", "but", "not", "you", "your", "we", "our",
		"they", "their", "she", "her", "his", "if", "or", "so",
		"no", "can", "do", "does", "did", "been", "being", "would",
		"could", "should", "may", "might", "must", "shall", "which",
		"who", "whom", "what", "when", "where", "why", "how", "all",
		"each", "every", "both", "few", "more", "most", "other",
		"some", "such", "than", "too", "very", "just", "also",
	)
}
