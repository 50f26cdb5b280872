package recommend

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents removes combining marks so that "clássica" and "classica"
// tokenize identically. Transformer chains carry state, so each call
// builds its own.
func stripAccents() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Catalog descriptions are Portuguese; these carry no signal.
var stopWordList = []string{
	"a", "o", "e", "de", "do", "da", "em", "um", "uma", "que", "é",
	"para", "com", "não", "no", "na", "os", "as", "por", "mais", "menos",
	"seu", "sua", "isso", "também", "ou", "mas", "se", "então", "quando",
	"onde", "como", "porque",
}

var stopWords = buildStopWords()

func buildStopWords() map[string]bool {
	set := make(map[string]bool, len(stopWordList))
	for _, w := range stopWordList {
		set[foldAccents(w)] = true
	}
	return set
}

func foldAccents(s string) string {
	folded, _, err := transform.String(stripAccents(), s)
	if err != nil {
		return s
	}
	return folded
}

// Tokenize splits text into normalized tokens: lowercased, accents folded,
// short words and stop words dropped.
func Tokenize(text string) []string {
	f := func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsNumber(c)
	}
	fields := strings.FieldsFunc(foldAccents(text), f)
	var tokens []string
	for _, field := range fields {
		if len(field) <= 2 { // skip very short words
			continue
		}
		token := strings.ToLower(field)
		if stopWords[token] {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}
