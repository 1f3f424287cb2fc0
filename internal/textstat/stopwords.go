// Package textstat разбивает заголовки на нормализованные термины и считает их частоту.
package textstat

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed english.txt
var englishList string

// Stopwords - множество терминов, исключаемых из подсчета. Сравнение идет в нижнем регистре.
type Stopwords map[string]struct{}

// NewStopwords создает множество из переданных слов.
func NewStopwords(words ...string) Stopwords {
	s := make(Stopwords, len(words))
	for _, w := range words {
		s.add(w)
	}
	return s
}

// EnglishStopwords возвращает встроенный английский список стоп-слов.
func EnglishStopwords() Stopwords {
	s, _ := ReadStopwords(strings.NewReader(englishList))
	return s
}

// ReadStopwords читает список по одному слову в строке. Пустые строки и строки,
// начинающиеся с '#', пропускаются.
func ReadStopwords(r io.Reader) (Stopwords, error) {
	s := Stopwords{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s.add(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stopwords: %w", err)
	}
	return s, nil
}

// LoadStopwordsFile читает список стоп-слов из файла.
func LoadStopwordsFile(path string) (Stopwords, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stopwords file %s: %w", path, err)
	}
	defer f.Close()
	return ReadStopwords(f)
}

// With возвращает копию множества, дополненную словами extra. Исходное множество не меняется.
func (s Stopwords) With(extra ...string) Stopwords {
	out := make(Stopwords, len(s)+len(extra))
	for w := range s {
		out[w] = struct{}{}
	}
	for _, w := range extra {
		out.add(w)
	}
	return out
}

// Contains сообщает, входит ли термин в множество.
func (s Stopwords) Contains(term string) bool {
	_, ok := s[term]
	return ok
}

func (s Stopwords) add(w string) {
	w = strings.ToLower(strings.TrimSpace(w))
	if w != "" {
		s[w] = struct{}{}
	}
}
