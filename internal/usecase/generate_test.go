package usecase

import (
	"bytes"
	"encoding/json"
	"testing"

	"nlon/internal/adapter/analyzer"
	"nlon/internal/domain"
)

func testGenerator(tok analyzer.Tokenizer) *FeatureGenerator {
	return NewFeatureGenerator(analyzer.NewStopwordSet("this", "is", "some", "isn't", "t", "world"), tok)
}

func TestGenerate_PreservesOrder(t *testing.T) {
	gen := testGenerator(analyzer.WhitespaceSplit)
	input := []string{"", "text", "123", "!@#$", "This is some text.", "This isn't some text.", "This is."}

	table := gen.Generate(input)
	if table.Len() != len(input) {
		t.Fatalf("expected %d rows, got %d", len(input), table.Len())
	}
	for i, row := range table.Rows {
		if row.Text != input[i] {
			t.Errorf("row %d: text = %q, want %q", i, row.Text, input[i])
		}
	}
}

func TestGenerate_StopwordsPerTokenizer(t *testing.T) {
	input := []string{"", "text", "123", "!@#$", "This is some text.", "This isn't some text.", "This is."}

	tests := []struct {
		tok      analyzer.Tokenizer
		expected []int
	}{
		{analyzer.WhitespaceSplit, []int{0, 0, 0, 0, 3, 3, 1}},
		{analyzer.WordPattern, []int{0, 0, 0, 0, 3, 3, 2}},
	}

	for _, tt := range tests {
		table := testGenerator(tt.tok).Generate(input)
		for i, row := range table.Rows {
			if row.StopwordsCount != tt.expected[i] {
				t.Errorf("%s: row %d (%q) stopwords_count = %d, want %d",
					tt.tok, i, input[i], row.StopwordsCount, tt.expected[i])
			}
		}
	}
}

func TestGenerate_AverageWordLength(t *testing.T) {
	input := []string{"", "123", "123 123", "1", "!2c$", "abc def!", "1 234"}
	expected := []float64{0, 3, 3.5, 1, 4, 4, 2.5}

	table := testGenerator(analyzer.WhitespaceSplit).Generate(input)
	for i, row := range table.Rows {
		if row.AverageWordLength != expected[i] {
			t.Errorf("row %d (%q): average_word_length = %v, want %v", i, input[i], row.AverageWordLength, expected[i])
		}
	}
}

func TestGenerate_EmptyString(t *testing.T) {
	row := testGenerator(analyzer.WordPattern).Row("")

	if row.TextLength != 0 || row.CapsCount != 0 || row.SpecialCharsCount != 0 || row.NumbersCount != 0 {
		t.Errorf("expected zero counts, got %+v", row)
	}
	if row.WordsCount != 1 {
		t.Errorf("expected words_count 1 for empty string, got %d", row.WordsCount)
	}
	if row.CapsRatio != 0 || row.SpecialCharsRatio != 0 || row.NumbersRatio != 0 ||
		row.StopwordsRatio != 0 || row.AverageWordLength != 0 {
		t.Errorf("expected zero ratios, got %+v", row)
	}
	if row.EndsWithCodeChar || row.EndsWithPunctuation || row.StartsWithThreeLetters || row.StartsWithAt {
		t.Errorf("expected all flags false, got %+v", row)
	}
}

func TestGenerate_Row(t *testing.T) {
	row := testGenerator(analyzer.WhitespaceSplit).Row("Hello World")

	if row.TextLength != 11 {
		t.Errorf("text_length = %d, want 11", row.TextLength)
	}
	if row.CapsCount != 2 {
		t.Errorf("caps_count = %d, want 2", row.CapsCount)
	}
	if row.WordsCount != 2 {
		t.Errorf("words_count = %d, want 2", row.WordsCount)
	}
	if row.StopwordsRatio != 0.5 {
		t.Errorf("stopwords_ratio = %v, want 0.5", row.StopwordsRatio)
	}
	if row.CapsRatio != 2.0/11.0 {
		t.Errorf("caps_ratio = %v, want %v", row.CapsRatio, 2.0/11.0)
	}
	if !row.StartsWithThreeLetters {
		t.Error("expected starts_with_three_letters")
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	gen := testGenerator(analyzer.WordPattern)
	input := []string{"@bob ping :-)", "for (i = 0; i < n; i++) {", "Sounds good, thanks!", ""}

	first, err := json.Marshal(gen.Generate(input))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(gen.Generate(input))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("repeated generation differs:\n%s\n%s", first, second)
	}
}

func TestGenerateNullable(t *testing.T) {
	gen := testGenerator(analyzer.WhitespaceSplit)
	text := "This is."

	table := gen.GenerateNullable([]*string{nil, &text})
	if table.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", table.Len())
	}
	if table.Rows[0] != gen.Row("") {
		t.Errorf("nil entry should equal empty string row, got %+v", table.Rows[0])
	}
	if table.Rows[1].Text != text {
		t.Errorf("row 1 text = %q, want %q", table.Rows[1].Text, text)
	}
}

func TestGenerate_NilStopwords(t *testing.T) {
	gen := NewFeatureGenerator(nil, analyzer.WhitespaceSplit)
	row := gen.Row("the cat")
	if row.StopwordsCount != 0 {
		t.Errorf("expected no stopwords, got %d", row.StopwordsCount)
	}
}

func TestFeatureRow_ValuesMatchColumns(t *testing.T) {
	row := testGenerator(analyzer.WhitespaceSplit).Row("foo();")
	values := row.Values()
	if len(values) != len(domain.Columns) {
		t.Fatalf("expected %d values, got %d", len(domain.Columns), len(values))
	}
	for i, col := range domain.Columns {
		var ok bool
		switch col.Type {
		case domain.TypeString:
			_, ok = values[i].(string)
		case domain.TypeInt:
			_, ok = values[i].(int)
		case domain.TypeFloat:
			_, ok = values[i].(float64)
		case domain.TypeBool:
			_, ok = values[i].(bool)
		}
		if !ok {
			t.Errorf("column %s: value %v (%T) does not match type %s", col.Name, values[i], values[i], col.Type)
		}
	}
}

func TestWithTokenizer(t *testing.T) {
	ws := testGenerator(analyzer.WhitespaceSplit)
	word := ws.WithTokenizer(analyzer.WordPattern)

	if word.Tokenizer() != analyzer.WordPattern || ws.Tokenizer() != analyzer.WhitespaceSplit {
		t.Fatalf("unexpected tokenizers %s / %s", ws.Tokenizer(), word.Tokenizer())
	}
	if word.Stopwords().Len() != ws.Stopwords().Len() {
		t.Errorf("stopwords not shared")
	}

	a, b := ws.Row("This is."), word.Row("This is.")
	if a.StopwordsCount != 1 || b.StopwordsCount != 2 {
		t.Errorf("stopwords_count = %d / %d, want 1 / 2", a.StopwordsCount, b.StopwordsCount)
	}
	if a.WordsCount != b.WordsCount || a.StopwordsRatio != 0.5 || b.StopwordsRatio != 1 {
		t.Errorf("stopwords_ratio = %v / %v, want 0.5 / 1", a.StopwordsRatio, b.StopwordsRatio)
	}
}
