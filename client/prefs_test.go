package client

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *FilePrefsStore {
	t.Helper()
	return NewFilePrefsStore(filepath.Join(t.TempDir(), "prefs.json"))
}

func TestPrefsDefaults(t *testing.T) {
	store := newTestStore(t)

	prefs := store.Get()
	if prefs.Theme != ThemeSystem {
		t.Errorf("Default theme should be system, got %s", prefs.Theme)
	}
	if prefs.Locale != LocaleUzbek {
		t.Errorf("Default locale should be uz, got %s", prefs.Locale)
	}
}

func TestPrefsPersistAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")

	store := NewFilePrefsStore(path)
	if err := store.SetTheme(ThemeDark); err != nil {
		t.Fatalf("SetTheme failed: %v", err)
	}
	if err := store.SetLocale(LocaleRussian); err != nil {
		t.Fatalf("SetLocale failed: %v", err)
	}

	// A fresh store over the same file sees the saved values
	reopened := NewFilePrefsStore(path)
	prefs := reopened.Get()
	if prefs.Theme != ThemeDark {
		t.Errorf("Expected dark theme after reopen, got %s", prefs.Theme)
	}
	if prefs.Locale != LocaleRussian {
		t.Errorf("Expected ru locale after reopen, got %s", prefs.Locale)
	}
}

func TestPrefsRejectUnknownValues(t *testing.T) {
	store := newTestStore(t)

	if err := store.SetTheme("neon"); err != ErrInvalidTheme {
		t.Errorf("Expected ErrInvalidTheme, got %v", err)
	}
	if err := store.SetLocale("fr"); err != ErrInvalidLocale {
		t.Errorf("Expected ErrInvalidLocale, got %v", err)
	}

	// The file stays on defaults
	prefs := store.Get()
	if prefs.Theme != ThemeSystem || prefs.Locale != LocaleUzbek {
		t.Errorf("Rejected writes must not change stored prefs: %+v", prefs)
	}
}

func TestPrefsEveryEnumValueRoundTrips(t *testing.T) {
	store := newTestStore(t)

	for _, theme := range []Theme{ThemeLight, ThemeDark, ThemeSystem} {
		if err := store.SetTheme(theme); err != nil {
			t.Fatalf("SetTheme(%s) failed: %v", theme, err)
		}
		if got := store.Get().Theme; got != theme {
			t.Errorf("Theme %s did not round-trip, got %s", theme, got)
		}
	}

	for _, locale := range []Locale{LocaleUzbek, LocaleUzbekCyr, LocaleRussian, LocaleEnglish, LocaleArabic} {
		if err := store.SetLocale(locale); err != nil {
			t.Fatalf("SetLocale(%s) failed: %v", locale, err)
		}
		if got := store.Get().Locale; got != locale {
			t.Errorf("Locale %s did not round-trip, got %s", locale, got)
		}
	}
}

func TestPrefsCorruptedFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewFilePrefsStore(path)
	prefs := store.Get()
	if prefs.Theme != ThemeSystem || prefs.Locale != LocaleUzbek {
		t.Errorf("Corrupted file should fall back to defaults, got %+v", prefs)
	}
}

func TestPrefsUnknownStoredValueFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	if err := os.WriteFile(path, []byte(`{"theme":"sepia","locale":"uz_Cyrl"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	prefs := NewFilePrefsStore(path).Get()
	if prefs.Theme != ThemeSystem {
		t.Errorf("Unknown stored theme should fall back to system, got %s", prefs.Theme)
	}
	if prefs.Locale != LocaleUzbekCyr {
		t.Errorf("Valid stored locale should survive, got %s", prefs.Locale)
	}
}

func TestPrefsLastWriteWins(t *testing.T) {
	store := newTestStore(t)

	if err := store.SetTheme(ThemeLight); err != nil {
		t.Fatal(err)
	}
	if err := store.SetTheme(ThemeDark); err != nil {
		t.Fatal(err)
	}

	if got := store.Get().Theme; got != ThemeDark {
		t.Errorf("Expected the later write to win, got %s", got)
	}
}
