// Package textmatch finds whole-word, case-insensitive occurrences of words and
// multi-word phrases in free text.
//
// A match must not be directly preceded or followed by a letter. Letters are
// Unicode letters, so Swedish å, ä and ö (and the Danish/Norwegian æ and ø) count
// as word characters, unlike the ASCII \b of the regexp package.
package textmatch

import (
	"strings"
	"unicode"
)

// Text is a searchable text. Build it once and reuse it for many patterns.
type Text struct {
	runes []rune
}

func NewText(s string) Text {
	return Text{runes: []rune(s)}
}

// Join concatenates parts with a single space, the way title and description are
// combined before searching.
func Join(parts ...string) Text {
	return NewText(strings.Join(parts, " "))
}

func (t Text) IsBlank() bool {
	for _, r := range t.runes {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// Slice returns the original text between rune offsets start and end.
func (t Text) Slice(start, end int) string {
	return string(t.runes[start:end])
}

func (t Text) String() string {
	return string(t.runes)
}

// Pattern is a compiled word or phrase. Any run of whitespace inside the phrase
// matches one or more whitespace characters in the text.
type Pattern struct {
	phrase string
	words  [][]rune
}

func Compile(phrase string) Pattern {
	fields := strings.Fields(phrase)
	words := make([][]rune, 0, len(fields))
	for _, field := range fields {
		words = append(words, []rune(strings.ToLower(field)))
	}
	return Pattern{phrase: phrase, words: words}
}

func CompileAll(phrases []string) []Pattern {
	patterns := make([]Pattern, 0, len(phrases))
	for _, phrase := range phrases {
		patterns = append(patterns, Compile(phrase))
	}
	return patterns
}

func (p Pattern) String() string {
	return p.phrase
}

func (p Pattern) IsEmpty() bool {
	return len(p.words) == 0
}

// Len is the number of runes of the phrase with single spaces between its words.
func (p Pattern) Len() int {
	if len(p.words) == 0 {
		return 0
	}
	n := len(p.words) - 1
	for _, word := range p.words {
		n += len(word)
	}
	return n
}

// Find returns the rune offsets of the first whole-word occurrence of p in t.
func (p Pattern) Find(t Text) (start, end int, ok bool) {
	if p.IsEmpty() {
		return 0, 0, false
	}

	for i := range t.runes {
		if i > 0 && isWordRune(t.runes[i-1]) {
			continue
		}
		if j, matched := p.matchAt(t.runes, i); matched {
			return i, j, true
		}
	}
	return 0, 0, false
}

func (p Pattern) In(t Text) bool {
	_, _, ok := p.Find(t)
	return ok
}

func (p Pattern) MatchString(s string) bool {
	return p.In(NewText(s))
}

// AnyIn reports whether at least one of the patterns occurs in t.
func AnyIn(patterns []Pattern, t Text) bool {
	for _, p := range patterns {
		if p.In(t) {
			return true
		}
	}
	return false
}

func (p Pattern) matchAt(text []rune, i int) (int, bool) {
	j := i
	for w, word := range p.words {
		if w > 0 {
			spaces := 0
			for j < len(text) && unicode.IsSpace(text[j]) {
				j++
				spaces++
			}
			if spaces == 0 {
				return 0, false
			}
		}
		for _, r := range word {
			if j >= len(text) || unicode.ToLower(text[j]) != r {
				return 0, false
			}
			j++
		}
	}

	if j < len(text) && isWordRune(text[j]) {
		return 0, false
	}
	return j, true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r)
}
