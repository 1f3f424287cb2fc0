package textstat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizer_HeadlineExample(t *testing.T) {
	tok := NewTokenizer(NewStopwords("the"))

	got := tok.Tokens("Typhoon Haiyan: the Philippines' worst disaster?")

	assert.Equal(t, []string{"typhoon", "haiyan", "philippines", "worst", "disaster"}, got)
	assert.NotContains(t, got, "the")
}

func TestTokenizer_DropsEmptyAndPunctuationOnly(t *testing.T) {
	tok := NewTokenizer(nil)

	got := tok.Tokens("  Duterte – “war on drugs” | (analysis) ... ")

	assert.Equal(t, []string{"duterte", "war", "on", "drugs", "analysis"}, got)
}

func TestTokenizer_StopwordsCompareAfterLowercase(t *testing.T) {
	tok := NewTokenizer(EnglishStopwords().With("says", "Say"))

	got := tok.Tokens("The President SAYS Manila will say THE rest")

	assert.Equal(t, []string{"president", "manila", "rest"}, got)
}

func TestTokenizer_KeepsInnerPunctuation(t *testing.T) {
	tok := NewTokenizer(nil)

	got := tok.Tokens("Covid-19: what's next for U.S.-Philippine ties")

	assert.Equal(t, []string{"covid-19", "what's", "next", "for", "u.s.-philippine", "ties"}, got)
}

func TestTermFrequency_CountAllSumsPerHeadline(t *testing.T) {
	tok := NewTokenizer(NewStopwords("the", "in"))

	tf := tok.CountAll([]string{
		"Typhoon Haiyan hits the Philippines",
		"Haiyan death toll rises in the Philippines",
		"Typhoon Haiyan: aid arrives",
	})

	assert.Equal(t, 3, tf.Count("haiyan"))
	assert.Equal(t, 2, tf.Count("typhoon"))
	assert.Equal(t, 2, tf.Count("philippines"))
	assert.Equal(t, 0, tf.Count("the"))
	assert.Equal(t, 13, tf.Total())
}

func TestTermFrequency_MostCommonTieOrder(t *testing.T) {
	tf := NewTermFrequency()
	for _, term := range []string{"b", "a", "c", "a", "c", "d"} {
		tf.Inc(term)
	}

	got := tf.MostCommon(3)

	require.Len(t, got, 3)
	assert.Equal(t, []TermCount{{"a", 2}, {"c", 2}, {"b", 1}}, got)
	assert.Len(t, tf.MostCommon(0), 4)
	assert.Len(t, tf.MostCommon(100), 4)
}

func TestTermFrequency_AddKeepsFirstSeenOrder(t *testing.T) {
	first := NewTermFrequency()
	first.Inc("x")
	first.Inc("y")
	second := NewTermFrequency()
	second.Inc("z")
	second.Inc("y")

	first.Add(second)
	first.Add(nil)

	assert.Equal(t, []TermCount{{"y", 2}, {"x", 1}, {"z", 1}}, first.MostCommon(0))
	assert.Equal(t, 3, first.Len())
}

func TestTermFrequency_Empty(t *testing.T) {
	tf := NewTokenizer(EnglishStopwords()).CountAll(nil)
	assert.Empty(t, tf.MostCommon(10))
	assert.Equal(t, 0, tf.Total())
}

func TestEnglishStopwords(t *testing.T) {
	sw := EnglishStopwords()
	assert.Len(t, sw, 179)
	assert.True(t, sw.Contains("the"))
	assert.True(t, sw.Contains("wouldn't"))
	assert.False(t, sw.Contains("philippines"))

	extended := sw.With("happened")
	assert.True(t, extended.Contains("happened"))
	assert.False(t, sw.Contains("happened"))
}

func TestLoadStopwordsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stop.txt")
	require.NoError(t, os.WriteFile(path, []byte("# custom\nManila\n\n  says \n"), 0o644))

	sw, err := LoadStopwordsFile(path)
	require.NoError(t, err)
	assert.Len(t, sw, 2)
	assert.True(t, sw.Contains("manila"))
	assert.True(t, sw.Contains("says"))

	_, err = LoadStopwordsFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestReadStopwords(t *testing.T) {
	sw, err := ReadStopwords(strings.NewReader("a\nb\n#c\n"))
	require.NoError(t, err)
	assert.Len(t, sw, 2)
}
