package usecase

import (
	"nlon/internal/adapter/analyzer"
	"nlon/internal/domain"
)

// FeatureGenerator computes the NLoN feature table for batches of text.
// It holds no mutable state and may be shared between goroutines.
type FeatureGenerator struct {
	stopwords analyzer.StopwordSet
	tokenizer analyzer.Tokenizer
}

// NewFeatureGenerator creates a generator bound to a stopword set and a
// tokenizer variant. A nil stopword set behaves as an empty one.
func NewFeatureGenerator(stopwords analyzer.StopwordSet, tokenizer analyzer.Tokenizer) *FeatureGenerator {
	if stopwords == nil {
		stopwords = analyzer.StopwordSet{}
	}
	return &FeatureGenerator{
		stopwords: stopwords,
		tokenizer: tokenizer,
	}
}

// Tokenizer returns the configured tokenizer variant.
func (g *FeatureGenerator) Tokenizer() analyzer.Tokenizer {
	return g.tokenizer
}

// WithTokenizer returns a generator sharing g's stopwords but splitting with
// tok. Pairing a whitespace and a word-pattern generator yields both stopword
// ratios for the same texts.
func (g *FeatureGenerator) WithTokenizer(tok analyzer.Tokenizer) *FeatureGenerator {
	return &FeatureGenerator{stopwords: g.stopwords, tokenizer: tok}
}

// Stopwords returns the configured stopword set.
func (g *FeatureGenerator) Stopwords() analyzer.StopwordSet {
	return g.stopwords
}

// Generate computes one feature row per text, in input order.
func (g *FeatureGenerator) Generate(texts []string) domain.FeatureTable {
	rows := make([]domain.FeatureRow, len(texts))
	for i, text := range texts {
		rows[i] = g.Row(text)
	}
	return domain.FeatureTable{Rows: rows}
}

// GenerateNullable is Generate for columns with missing values; nil entries
// are treated as empty strings.
func (g *FeatureGenerator) GenerateNullable(texts []*string) domain.FeatureTable {
	values := make([]string, len(texts))
	for i, text := range texts {
		if text != nil {
			values[i] = *text
		}
	}
	return g.Generate(values)
}

// Row computes the features of a single text.
func (g *FeatureGenerator) Row(text string) domain.FeatureRow {
	row := domain.FeatureRow{
		Text:                   text,
		TextLength:             analyzer.TextLength(text),
		CapsCount:              analyzer.CapsCount(text),
		SpecialCharsCount:      analyzer.SpecialCharsCount(text),
		NumbersCount:           analyzer.NumbersCount(text),
		WordsCount:             analyzer.WordsCount(text),
		StopwordsCount:         analyzer.StopwordsCount(text, g.tokenizer, g.stopwords),
		EndsWithCodeChar:       analyzer.EndsWithCodeChar(text),
		EndsWithPunctuation:    analyzer.EndsWithPunctuation(text),
		StartsWithThreeLetters: analyzer.StartsWithThreeLetters(text),
		EmoticonsCount:         analyzer.EmoticonsCount(text),
		StartsWithAt:           analyzer.StartsWithAt(text),
	}

	// Ratios derive from the counts above rather than rescanning the text.
	row.CapsRatio = analyzer.Ratio(row.CapsCount, row.TextLength)
	row.SpecialCharsRatio = analyzer.Ratio(row.SpecialCharsCount, row.TextLength)
	row.NumbersRatio = analyzer.Ratio(row.NumbersCount, row.TextLength)
	row.StopwordsRatio = analyzer.Ratio(row.StopwordsCount, row.WordsCount)
	row.AverageWordLength = analyzer.Ratio(row.TextLength, row.WordsCount)

	return row
}
