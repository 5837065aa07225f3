package domain

import "time"

// Feature column names, in table order.
const (
	ColText                   = "text"
	ColTextLength             = "text_length"
	ColCapsCount              = "caps_count"
	ColSpecialCharsCount      = "special_chars_count"
	ColNumbersCount           = "numbers_count"
	ColWordsCount             = "words_count"
	ColStopwordsCount         = "stopwords_count"
	ColEndsWithCodeChar       = "ends_with_code_char"
	ColEndsWithPunctuation    = "ends_with_punctuation"
	ColStartsWithThreeLetters = "starts_with_three_letters"
	ColEmoticonsCount         = "emoticons_count"
	ColStartsWithAt           = "starts_with_at"
	ColCapsRatio              = "caps_ratio"
	ColSpecialCharsRatio      = "special_chars_ratio"
	ColNumbersRatio           = "numbers_ratio"
	ColStopwordsRatio         = "stopwords_ratio"
	ColAverageWordLength      = "average_word_length"
)

// ColumnType is the scalar type held by a feature column.
type ColumnType int

const (
	TypeString ColumnType = iota
	TypeInt
	TypeFloat
	TypeBool
)

func (t ColumnType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Column describes one named feature column.
type Column struct {
	Name string
	Type ColumnType
}

// Columns is the fixed, ordered column set of every feature table.
var Columns = []Column{
	{ColText, TypeString},
	{ColTextLength, TypeInt},
	{ColCapsCount, TypeInt},
	{ColSpecialCharsCount, TypeInt},
	{ColNumbersCount, TypeInt},
	{ColWordsCount, TypeInt},
	{ColStopwordsCount, TypeInt},
	{ColEndsWithCodeChar, TypeBool},
	{ColEndsWithPunctuation, TypeBool},
	{ColStartsWithThreeLetters, TypeBool},
	{ColEmoticonsCount, TypeInt},
	{ColStartsWithAt, TypeBool},
	{ColCapsRatio, TypeFloat},
	{ColSpecialCharsRatio, TypeFloat},
	{ColNumbersRatio, TypeFloat},
	{ColStopwordsRatio, TypeFloat},
	{ColAverageWordLength, TypeFloat},
}

// ColumnNames returns the ordered column names.
func ColumnNames() []string {
	names := make([]string, len(Columns))
	for i, c := range Columns {
		names[i] = c.Name
	}
	return names
}

// FeatureRow holds every feature computed for one text value.
type FeatureRow struct {
	Text                   string  `json:"text"`
	TextLength             int     `json:"text_length"`
	CapsCount              int     `json:"caps_count"`
	SpecialCharsCount      int     `json:"special_chars_count"`
	NumbersCount           int     `json:"numbers_count"`
	WordsCount             int     `json:"words_count"`
	StopwordsCount         int     `json:"stopwords_count"`
	EndsWithCodeChar       bool    `json:"ends_with_code_char"`
	EndsWithPunctuation    bool    `json:"ends_with_punctuation"`
	StartsWithThreeLetters bool    `json:"starts_with_three_letters"`
	EmoticonsCount         int     `json:"emoticons_count"`
	StartsWithAt           bool    `json:"starts_with_at"`
	CapsRatio              float64 `json:"caps_ratio"`
	SpecialCharsRatio      float64 `json:"special_chars_ratio"`
	NumbersRatio           float64 `json:"numbers_ratio"`
	StopwordsRatio         float64 `json:"stopwords_ratio"`
	AverageWordLength      float64 `json:"average_word_length"`
}

// Values returns the row's values in Columns order. Each value is a string,
// int, float64 or bool matching the column type.
func (r FeatureRow) Values() []any {
	return []any{
		r.Text,
		r.TextLength,
		r.CapsCount,
		r.SpecialCharsCount,
		r.NumbersCount,
		r.WordsCount,
		r.StopwordsCount,
		r.EndsWithCodeChar,
		r.EndsWithPunctuation,
		r.StartsWithThreeLetters,
		r.EmoticonsCount,
		r.StartsWithAt,
		r.CapsRatio,
		r.SpecialCharsRatio,
		r.NumbersRatio,
		r.StopwordsRatio,
		r.AverageWordLength,
	}
}

// FeatureTable is an ordered sequence of rows, row i computed from input i.
type FeatureTable struct {
	Rows []FeatureRow `json:"rows"`
}

// Len returns the number of rows.
func (t FeatureTable) Len() int {
	return len(t.Rows)
}

// Dataset is one column of text values read from a labeled dataset file.
type Dataset struct {
	Name   string
	Path   string
	Texts  []string
	Labels []string // Empty when the source has no label column
}

// HasLabels reports whether every text carries a label.
func (d Dataset) HasLabels() bool {
	return len(d.Labels) > 0 && len(d.Labels) == len(d.Texts)
}

// Run is a persisted feature generation result. Listings leave Table and
// Labels empty; Rows always carries the row count.
type Run struct {
	ID            string       `json:"id"`
	Dataset       string       `json:"dataset"`
	Source        string       `json:"source"`
	Tokenizer     string       `json:"tokenizer"`
	Stopwords     int          `json:"stopwords"`
	CreatedAt     time.Time    `json:"created_at"`
	SchemaVersion int          `json:"schema_version"`
	Rows          int          `json:"rows"`
	Labels        []string     `json:"labels,omitempty"`
	Table         FeatureTable `json:"table"`
}
