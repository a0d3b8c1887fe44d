package arabic

import (
	"strings"
	"testing"
)

func TestAlphabetSize(t *testing.T) {
	if len(Alphabet) != 28 {
		t.Fatalf("Expected 28 letters, got %d", len(Alphabet))
	}
}

func TestHarakahFor(t *testing.T) {
	if HarakahFor(Beginning) != Fatha {
		t.Error("Beginning column should drill fatha")
	}
	if HarakahFor(Middle) != Kasra {
		t.Error("Middle column should drill kasra")
	}
	if HarakahFor(End) != Damma {
		t.Error("End column should drill damma")
	}
}

func TestPositionalFormDualJoining(t *testing.T) {
	// ب joins on both sides
	begin := PositionalForm('ب', Beginning, Fatha)
	if begin != "بَـ" {
		t.Errorf("Beginning form of ب: got %q, want %q", begin, "بَـ")
	}

	middle := PositionalForm('ب', Middle, Kasra)
	if middle != "ـبِـ" {
		t.Errorf("Middle form of ب: got %q, want %q", middle, "ـبِـ")
	}

	end := PositionalForm('ب', End, Damma)
	if end != "ـبُ" {
		t.Errorf("End form of ب: got %q, want %q", end, "ـبُ")
	}
}

func TestPositionalFormRightJoinOnly(t *testing.T) {
	// د never joins to the following letter, so no trailing tatweel
	begin := PositionalForm('د', Beginning, Fatha)
	if begin != IsolatedForm('د', Fatha) {
		t.Errorf("Beginning form of د should equal its isolated form, got %q", begin)
	}

	middle := PositionalForm('د', Middle, Kasra)
	if !strings.HasPrefix(middle, string(Tatweel)) {
		t.Errorf("Middle form of د should start with tatweel, got %q", middle)
	}
	if strings.HasSuffix(middle, string(Tatweel)) {
		t.Errorf("Middle form of د must not end with tatweel, got %q", middle)
	}
}

func TestSubstitutionsCount(t *testing.T) {
	subs := Substitutions()

	// 22 dual-joining letters get all 3 positions; the 6 right-join-only
	// letters skip the beginning position (it equals the isolated form)
	want := 22*3 + 6*2
	if len(subs) != want {
		t.Fatalf("Expected %d substitutions, got %d", want, len(subs))
	}
}

func TestSubstitutionsAreIdempotent(t *testing.T) {
	subs := Substitutions()

	// No substitution's target may appear as another's source in the
	// same column, otherwise a second run would rewrite patched text
	fromByCol := map[int]map[string]bool{}
	for _, s := range subs {
		if fromByCol[s.Col] == nil {
			fromByCol[s.Col] = map[string]bool{}
		}
		fromByCol[s.Col][s.From] = true
	}
	for _, s := range subs {
		if fromByCol[s.Col][s.To] {
			t.Errorf("Substitution target %q (col %d) collides with a source", s.To, s.Col)
		}
	}
}

func TestSubstitutionsDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range Substitutions() {
		key := string(s.Letter) + ":" + string(rune('0'+s.Col))
		if seen[key] {
			t.Errorf("Duplicate substitution for letter %c col %d", s.Letter, s.Col)
		}
		seen[key] = true

		if s.From == s.To {
			t.Errorf("No-op substitution for letter %c col %d", s.Letter, s.Col)
		}
	}
}

func TestStripDiacritics(t *testing.T) {
	stripped := StripDiacritics("بَـ")
	if stripped != "بـ" {
		t.Errorf("StripDiacritics: got %q, want %q", stripped, "بـ")
	}
}

func TestCountDiacritics(t *testing.T) {
	if n := CountDiacritics("بِسْمِ"); n != 3 {
		t.Errorf("Expected 3 diacritics in بِسْمِ, got %d", n)
	}
	if n := CountDiacritics("abc"); n != 0 {
		t.Errorf("Expected 0 diacritics in latin text, got %d", n)
	}
}

func TestHasArabic(t *testing.T) {
	if !HasArabic("بسم الله") {
		t.Error("Expected Arabic text to be detected")
	}
	if HasArabic("hello 123") {
		t.Error("Latin text misdetected as Arabic")
	}
}

func TestClassifyUnitType(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"بَـ", "letter"},
		{"بسم", "word"},
		{"بسم الله الرحمن الرحيم", "sentence"},
	}
	for _, c := range cases {
		if got := ClassifyUnitType(c.text); got != c.want {
			t.Errorf("ClassifyUnitType(%q) = %q, want %q", c.text, got, c.want)
		}
	}
}

func TestBaseLetterCount(t *testing.T) {
	// Tatweel and harakat don't count as base letters
	if n := BaseLetterCount("ـبِـ"); n != 1 {
		t.Errorf("Expected 1 base letter in middle form, got %d", n)
	}
}
