package analyzer

import (
	"regexp"
	"strings"
)

// Fixed patterns shared by every feature function. \s and \d are ASCII only.
var (
	capsPattern         = regexp.MustCompile(`[A-Z]`)
	specialCharsPattern = regexp.MustCompile(`[^a-zA-Z\d\s]`)
	numbersPattern      = regexp.MustCompile(`\d`)
	emoticonPattern     = regexp.MustCompile(`:-\)|;-\)|:\)|;\)|:-\(|:\(`)
	endsEmoticonPattern = regexp.MustCompile(`(?::-\)|;-\)|:\)|;\)|:-\(|:\()$`)
	endsCodePattern     = regexp.MustCompile(`[){;]$`)
	endsPunctPattern    = regexp.MustCompile(`[.!?:,]$`)
	threeLettersPattern = regexp.MustCompile(`^\s*[a-zA-Z]{3}`)
)

// TextLength is the byte length of s. Every ratio uses it as denominator.
func TextLength(s string) int {
	return len(s)
}

// CapsCount counts uppercase ASCII letters.
func CapsCount(s string) int {
	return countMatches(capsPattern, s)
}

// SpecialCharsCount counts characters that are not an ASCII letter, digit or
// whitespace. A multi-byte character counts once.
func SpecialCharsCount(s string) int {
	return countMatches(specialCharsPattern, s)
}

// NumbersCount counts ASCII digits.
func NumbersCount(s string) int {
	return countMatches(numbersPattern, s)
}

// WordsCount is the number of whitespace runs plus one, so the empty string
// counts as one word. Ratio features depend on this denominator never being 0.
func WordsCount(s string) int {
	return countMatches(whitespaceRun, s) + 1
}

// StopwordsCount counts tokens of s, split by tok, that are in stopwords.
func StopwordsCount(s string, tok Tokenizer, stopwords StopwordSet) int {
	n := 0
	for _, token := range tok.Tokenize(s) {
		if stopwords.Contains(token) {
			n++
		}
	}
	return n
}

// CapsRatio is CapsCount over TextLength.
func CapsRatio(s string) float64 {
	return Ratio(CapsCount(s), TextLength(s))
}

// SpecialCharsRatio is SpecialCharsCount over TextLength.
func SpecialCharsRatio(s string) float64 {
	return Ratio(SpecialCharsCount(s), TextLength(s))
}

// NumbersRatio is NumbersCount over TextLength.
func NumbersRatio(s string) float64 {
	return Ratio(NumbersCount(s), TextLength(s))
}

// StopwordsRatio is StopwordsCount over WordsCount.
func StopwordsRatio(s string, tok Tokenizer, stopwords StopwordSet) float64 {
	return Ratio(StopwordsCount(s, tok, stopwords), WordsCount(s))
}

// AverageWordLength is TextLength over WordsCount.
func AverageWordLength(s string) float64 {
	return Ratio(TextLength(s), WordsCount(s))
}

// EndsWithCodeChar reports whether s ends with ')', '{' or ';'. A trailing
// emoticon such as ":)" is not a code character.
func EndsWithCodeChar(s string) bool {
	if endsEmoticonPattern.MatchString(s) {
		return false
	}
	return endsCodePattern.MatchString(s)
}

// EndsWithPunctuation reports whether s ends with '.', '!', '?', ':' or ','.
func EndsWithPunctuation(s string) bool {
	return endsPunctPattern.MatchString(s)
}

// StartsWithThreeLetters reports whether s, after leading whitespace, starts
// with at least three ASCII letters.
func StartsWithThreeLetters(s string) bool {
	return threeLettersPattern.MatchString(s)
}

// EmoticonsCount counts non-overlapping emoticons, scanning left to right and
// preferring the nose variant (":-)" over ":)").
func EmoticonsCount(s string) int {
	return countMatches(emoticonPattern, s)
}

// StartsWithAt reports whether the first character is '@'.
func StartsWithAt(s string) bool {
	return strings.HasPrefix(s, "@")
}

// Ratio divides n by d, returning 0 when d is 0.
func Ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func countMatches(re *regexp.Regexp, s string) int {
	if s == "" {
		return 0
	}
	return len(re.FindAllStringIndex(s, -1))
}
