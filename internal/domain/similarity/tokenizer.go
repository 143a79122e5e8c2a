// Package similarity implements the pure text-similarity functions behind
// duplicate detection: normalization, tokenization with stemming, Jaccard
// over token sets, two-document TF-IDF cosine, and normalized edit distance.
package similarity

import (
	"regexp"
	"strings"
)

var (
	nonWordRe    = regexp.MustCompile(`[^a-z0-9\s]+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// stopwords is the fixed list dropped during tokenization.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "is": {},
	"are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"to": {}, "of": {}, "in": {}, "on": {}, "at": {}, "by": {}, "for": {},
	"with": {}, "from": {}, "near": {}, "this": {}, "that": {}, "these": {},
	"those": {}, "it": {}, "its": {}, "there": {}, "here": {}, "have": {},
	"has": {}, "had": {}, "not": {}, "no": {}, "very": {}, "too": {},
	"please": {}, "our": {}, "my": {}, "your": {}, "we": {}, "they": {},
}

// Normalize lowercases the text, strips non-word characters, and collapses
// whitespace.
func Normalize(text string) string {
	s := strings.ToLower(text)
	s = nonWordRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Tokenize normalizes the text, splits on whitespace, stems each token, and
// drops stopwords and tokens of length <= 2.
func Tokenize(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}
	raw := strings.Fields(normalized)
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		if _, stop := stopwords[tok]; stop {
			continue
		}
		stemmed := stem(tok)
		if len(stemmed) <= 2 {
			continue
		}
		if _, stop := stopwords[stemmed]; stop {
			continue
		}
		out = append(out, stemmed)
	}
	return out
}

// stem applies Porter-style suffix stripping.  It covers the common
// inflections seen in complaint text; a full Porter implementation is not
// required for matching near-identical reports.
func stem(word string) string {
	if len(word) <= 3 {
		return word
	}

	switch {
	case strings.HasSuffix(word, "sses"):
		word = strings.TrimSuffix(word, "es")
	case strings.HasSuffix(word, "ies"):
		word = strings.TrimSuffix(word, "ies") + "i"
	case strings.HasSuffix(word, "ss"):
		// keep
	case strings.HasSuffix(word, "s"):
		word = strings.TrimSuffix(word, "s")
	}

	switch {
	case strings.HasSuffix(word, "eed"):
		if len(word) > 4 {
			word = strings.TrimSuffix(word, "d")
		}
	case strings.HasSuffix(word, "ing") && hasVowel(strings.TrimSuffix(word, "ing")):
		word = strings.TrimSuffix(word, "ing")
		word = fixStem(word)
	case strings.HasSuffix(word, "ed") && hasVowel(strings.TrimSuffix(word, "ed")):
		word = strings.TrimSuffix(word, "ed")
		word = fixStem(word)
	}

	switch {
	case strings.HasSuffix(word, "ly") && len(word) > 4:
		word = strings.TrimSuffix(word, "ly")
	case strings.HasSuffix(word, "ful") && len(word) > 5:
		word = strings.TrimSuffix(word, "ful")
	case strings.HasSuffix(word, "ness") && len(word) > 5:
		word = strings.TrimSuffix(word, "ness")
	case strings.HasSuffix(word, "ment") && len(word) > 6:
		word = strings.TrimSuffix(word, "ment")
	case strings.HasSuffix(word, "tion") && len(word) > 5:
		word = strings.TrimSuffix(word, "tion") + "t"
	}

	return word
}

// fixStem repairs stems left malformed by ing/ed stripping: restore a final
// "e" after common consonant pairs and undo doubled consonants.
func fixStem(word string) string {
	if len(word) < 2 {
		return word
	}
	switch {
	case strings.HasSuffix(word, "at"), strings.HasSuffix(word, "bl"), strings.HasSuffix(word, "iz"):
		return word + "e"
	}
	n := len(word)
	if n >= 2 && word[n-1] == word[n-2] && !isVowelByte(word[n-1]) {
		switch word[n-1] {
		case 'l', 's', 'z':
			return word
		}
		return word[:n-1]
	}
	return word
}

func hasVowel(s string) bool {
	for i := 0; i < len(s); i++ {
		if isVowelByte(s[i]) {
			return true
		}
	}
	return false
}

func isVowelByte(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
