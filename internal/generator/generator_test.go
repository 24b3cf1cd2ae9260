package generator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode"
)

func TestGenerateIsDeterministicForSeed(t *testing.T) {
	a := NewSeeded(42).Text(DefaultWords, 20, 0.3, 0.3, []rune(DefaultPunct))
	b := NewSeeded(42).Text(DefaultWords, 20, 0.3, 0.3, []rune(DefaultPunct))
	if a != b {
		t.Fatalf("expected equal output for equal seeds:\n%s\n%s", a, b)
	}
	if got := len(strings.Fields(a)); got != 20 {
		t.Fatalf("expected 20 words, got %d", got)
	}
}

func TestGenerateCapsAndPunct(t *testing.T) {
	words := NewSeeded(1).Generate([]string{"cat"}, 10, 1, 1, []rune("!"))
	for _, w := range words {
		if w != "Cat!" {
			t.Fatalf("expected Cat!, got %q", w)
		}
	}
	plain := NewSeeded(1).Generate([]string{"cat"}, 5, 0, 0, nil)
	for _, w := range plain {
		if w != "cat" || unicode.IsUpper([]rune(w)[0]) {
			t.Fatalf("expected untouched word, got %q", w)
		}
	}
}

func TestGenerateEmpty(t *testing.T) {
	if got := NewSeeded(1).Generate(nil, 5, 0, 0, nil); got != nil {
		t.Fatalf("expected nil for empty word list, got %v", got)
	}
}

func TestLoadWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("# comment\nalpha\n\n  beta  \n"), 0o644); err != nil {
		t.Fatalf("write words: %v", err)
	}
	words, err := LoadWords(path)
	if err != nil {
		t.Fatalf("load words: %v", err)
	}
	if len(words) != 2 || words[0] != "alpha" || words[1] != "beta" {
		t.Fatalf("unexpected words: %v", words)
	}
}

func TestLoadWordsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("\n# only comments\n"), 0o644); err != nil {
		t.Fatalf("write words: %v", err)
	}
	if _, err := LoadWords(path); err == nil {
		t.Fatalf("expected error for empty word list")
	}
}

func TestPlanSpacing(t *testing.T) {
	strokes := Plan("abcde", PlanConfig{CPS: 5})
	if len(strokes) != 5 {
		t.Fatalf("expected 5 strokes, got %d", len(strokes))
	}
	for i, s := range strokes {
		want := time.Duration(i) * 200 * time.Millisecond
		if s.At != want {
			t.Fatalf("stroke %d at %v, want %v", i, s.At, want)
		}
	}
	if strokes[2].Key != "c" {
		t.Fatalf("unexpected key %q", strokes[2].Key)
	}
	if End(strokes) != 800*time.Millisecond {
		t.Fatalf("unexpected end %v", End(strokes))
	}
}

func TestPlanPause(t *testing.T) {
	strokes := Plan("abcd", PlanConfig{CPS: 2, PauseAfter: 2, Pause: 3 * time.Second})
	want := []time.Duration{0, 500 * time.Millisecond, 4 * time.Second, 4500 * time.Millisecond}
	for i, s := range strokes {
		if s.At != want[i] {
			t.Fatalf("stroke %d at %v, want %v", i, s.At, want[i])
		}
	}
}

func TestPlanInvalidPace(t *testing.T) {
	if Plan("abc", PlanConfig{}) != nil {
		t.Fatalf("expected nil plan for zero pace")
	}
	if End(nil) != 0 {
		t.Fatalf("expected zero end for empty plan")
	}
}
