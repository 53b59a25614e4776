package wordlist

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEncodable(t *testing.T) {
	for _, word := range []string{"hello", "CQ", "73", "don't"} {
		if !Encodable(word) {
			t.Fatalf("expected %q to be encodable", word)
		}
	}
	for _, word := range []string{"", "résumé", "naïve", "a b", "#tag"} {
		if Encodable(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestFilterAppliesAll(t *testing.T) {
	got := Filter([]string{"sos", "naïve", "antenna", "cq"}, Encodable, MaxLen(3))
	if len(got) != 2 || got[0] != "sos" || got[1] != "cq" {
		t.Fatalf("unexpected filtered words: %v", got)
	}
}

func TestLoadWordsSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("alpha\n\n  bravo  \n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	words, err := LoadWords(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(words) != 2 || words[1] != "BRAVO" {
		t.Fatalf("unexpected words: %v", words)
	}
	empty := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadWords(empty); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestParseCommentsAndDuplicates(t *testing.T) {
	words, err := Parse(strings.NewReader("# calls\ncq de k1abc  # station\nCQ 73\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := strings.Join(words, ","); got != "CQ,DE,K1ABC,73" {
		t.Fatalf("unexpected words: %s", got)
	}
}
