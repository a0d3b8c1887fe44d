// Package arabic holds the letter tables and glyph-form logic used by the
// alphabet grid content: diacritic detection for QA, unit classification
// for imports, and positional form construction for header rows.
package arabic

import (
	"strings"
)

// Harakat and structural characters
const (
	Tatweel = 'ـ' // elongation joiner between letter forms
	Fatha   = 'َ'
	Damma   = 'ُ'
	Kasra   = 'ِ'
)

// diacritics covers the harakat, tanwin, shadda, sukun and the
// superscript alef used in the book's fully-vocalized text
var diacritics = map[rune]bool{
	'ً': true, // fathatan
	'ٌ': true, // dammatan
	'ٍ': true, // kasratan
	'َ': true, // fatha
	'ُ': true, // damma
	'ِ': true, // kasra
	'ّ': true, // shadda
	'ْ': true, // sukun
	'ٓ': true, // maddah
	'ٔ': true, // hamza above
	'ٕ': true, // hamza below
	'ٰ': true, // superscript alef
}

// Alphabet lists the 28 letters in book order
var Alphabet = []rune{
	'ا', 'ب', 'ت', 'ث', 'ج', 'ح', 'خ', 'د', 'ذ', 'ر',
	'ز', 'س', 'ش', 'ص', 'ض', 'ط', 'ظ', 'ع', 'غ', 'ف',
	'ق', 'ك', 'ل', 'م', 'ن', 'ه', 'و', 'ي',
}

// rightJoinOnly marks letters that never connect to the following letter,
// so they take no trailing tatweel in beginning/middle position
var rightJoinOnly = map[rune]bool{
	'ا': true,
	'د': true,
	'ذ': true,
	'ر': true,
	'ز': true,
	'و': true,
}

// Position within a word for glyph-form purposes. The values match the
// alphabet grid columns on header rows.
type Position int

const (
	Beginning Position = 0
	Middle    Position = 1
	End       Position = 2
)

// HarakahFor returns the vowel mark paired with a grid column:
// beginning rows drill fatha, middle kasra, end damma.
func HarakahFor(pos Position) rune {
	switch pos {
	case Beginning:
		return Fatha
	case Middle:
		return Kasra
	default:
		return Damma
	}
}

// IsDiacritic reports whether r is an Arabic diacritical mark
func IsDiacritic(r rune) bool {
	return diacritics[r]
}

// HasDiacritics reports whether text carries at least one harakah
func HasDiacritics(text string) bool {
	for _, r := range text {
		if diacritics[r] {
			return true
		}
	}
	return false
}

// CountDiacritics counts the diacritical marks in text
func CountDiacritics(text string) int {
	n := 0
	for _, r := range text {
		if diacritics[r] {
			n++
		}
	}
	return n
}

// HasArabic reports whether text contains any character from the
// Arabic Unicode block
func HasArabic(text string) bool {
	for _, r := range text {
		if r >= 0x0600 && r <= 0x06FF {
			return true
		}
	}
	return false
}

// StripDiacritics removes all diacritical marks from text
func StripDiacritics(text string) string {
	var b strings.Builder
	for _, r := range text {
		if !diacritics[r] {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// BaseLetterCount counts non-diacritic, non-space, non-tatweel runes
func BaseLetterCount(text string) int {
	n := 0
	for _, r := range text {
		if diacritics[r] || r == ' ' || r == Tatweel {
			continue
		}
		n++
	}
	return n
}

// IsolatedForm builds the isolated drill glyph: letter plus harakah
func IsolatedForm(letter, harakah rune) string {
	return string(letter) + string(harakah)
}

// PositionalForm builds the joined drill glyph for a letter at a word
// position, using tatweel to show the connection. Right-join-only
// letters never take a trailing tatweel; their beginning form is the
// isolated form.
func PositionalForm(letter rune, pos Position, harakah rune) string {
	var b strings.Builder

	if pos == Middle || pos == End {
		b.WriteRune(Tatweel)
	}
	b.WriteRune(letter)
	b.WriteRune(harakah)
	if (pos == Beginning || pos == Middle) && !rightJoinOnly[letter] {
		b.WriteRune(Tatweel)
	}

	return b.String()
}

// Substitution is one (letter, position) rewrite from the isolated
// grid glyph to the positional one
type Substitution struct {
	Letter rune
	Col    int    // grid column: 0=beginning, 1=middle, 2=end
	From   string // isolated form with the column's harakah
	To     string // positional form
}

// Substitutions enumerates every header-row rewrite. Pairs where the
// positional form equals the isolated form (beginning position of
// right-join-only letters) are omitted.
func Substitutions() []Substitution {
	var subs []Substitution
	for _, letter := range Alphabet {
		for _, pos := range []Position{Beginning, Middle, End} {
			harakah := HarakahFor(pos)
			from := IsolatedForm(letter, harakah)
			to := PositionalForm(letter, pos, harakah)
			if from == to {
				continue
			}
			subs = append(subs, Substitution{
				Letter: letter,
				Col:    int(pos),
				From:   from,
				To:     to,
			})
		}
	}
	return subs
}

// ClassifyUnitType guesses a unit type for imported text: one or two
// base letters is a letter drill, a single word stays a word, anything
// longer is a sentence
func ClassifyUnitType(text string) string {
	trimmed := strings.TrimSpace(text)
	words := strings.Fields(trimmed)

	switch {
	case len(words) == 0:
		return "divider"
	case len(words) == 1 && BaseLetterCount(trimmed) <= 2:
		return "letter"
	case len(words) == 1:
		return "word"
	default:
		return "sentence"
	}
}
