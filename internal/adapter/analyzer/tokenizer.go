package analyzer

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	wordRun       = regexp.MustCompile(`\w+`)
)

// Tokenizer selects how text is split into lower-cased word tokens.
type Tokenizer int

const (
	// WhitespaceSplit splits on runs of whitespace. Punctuation stays
	// attached, so "text." is a single token.
	WhitespaceSplit Tokenizer = iota
	// WordPattern extracts maximal runs of [A-Za-z0-9_] and drops
	// everything else.
	WordPattern
)

// ParseTokenizer maps a configuration name to a Tokenizer.
func ParseTokenizer(name string) (Tokenizer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "whitespace", "whitespace-split":
		return WhitespaceSplit, nil
	case "word", "word-pattern":
		return WordPattern, nil
	default:
		return 0, fmt.Errorf("unknown tokenizer: %q (want whitespace or word)", name)
	}
}

// Tokenizers lists every variant: whitespace first, then word pattern.
var Tokenizers = []Tokenizer{WhitespaceSplit, WordPattern}

// ParseTokenizers is ParseTokenizer that also accepts "both", which selects
// every variant in Tokenizers order.
func ParseTokenizers(name string) ([]Tokenizer, error) {
	if strings.EqualFold(strings.TrimSpace(name), "both") {
		return append([]Tokenizer(nil), Tokenizers...), nil
	}
	tok, err := ParseTokenizer(name)
	if err != nil {
		return nil, err
	}
	return []Tokenizer{tok}, nil
}

func (t Tokenizer) String() string {
	switch t {
	case WhitespaceSplit:
		return "whitespace"
	case WordPattern:
		return "word"
	default:
		return fmt.Sprintf("tokenizer(%d)", int(t))
	}
}

// Tokenize lower-cases text and splits it into tokens.
//
// Both variants return an empty slice for empty or whitespace-only input,
// never a single empty token. WordPattern also returns an empty slice for
// input without word characters, e.g. "!@#$". An empty result therefore does
// not imply an empty text; callers that need that test check the text itself.
func (t Tokenizer) Tokenize(text string) []string {
	text = strings.ToLower(text)
	switch t {
	case WordPattern:
		return splitWords(text)
	default:
		return splitWhitespace(text)
	}
}

// splitWhitespace splits on whitespace runs and drops the empty segments a
// leading or trailing run would produce.
func splitWhitespace(text string) []string {
	parts := whitespaceRun.Split(text, -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

func splitWords(text string) []string {
	words := wordRun.FindAllString(text, -1)
	if words == nil {
		return []string{}
	}
	return words
}
