package history

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"curriculum-cli/internal/curriculum"
)

func TestStoreAppendAndTopics(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "topics.jsonl")
	s := &Store{Path: path}

	if got, err := s.Topics(); err != nil || len(got) != 0 {
		t.Fatalf("Topics on missing file: got=%v err=%v", got, err)
	}
	if err := s.Append(curriculum.KindMCQ, "   "); err != nil {
		t.Fatalf("Append whitespace: %v", err)
	}
	for _, topic := range []string{"React", "Go", "react"} {
		if err := s.Append(curriculum.KindProject, topic); err != nil {
			t.Fatalf("Append %s: %v", topic, err)
		}
	}

	got, err := s.Topics()
	if err != nil {
		t.Fatalf("Topics: %v", err)
	}
	if want := []string{"react", "Go"}; !slices.Equal(got, want) {
		t.Fatalf("Topics = %v, want %v", got, want)
	}
}

func TestStoreSkipsCorruptLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "topics.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join([]string{
		`{"topic":"HTML","kind":"mcq","ts":"2025-01-01T00:00:00Z"}`,
		`{not json}`,
		`{"topic":"","ts":"2025-01-01T00:00:00Z"}`,
		`{"topic":"CSS","ts":"2025-01-02T00:00:00Z"}`,
		"",
	}, "\n")), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	entries, err := (&Store{Path: path}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 2 || entries[0].Kind != curriculum.KindMCQ || entries[1].Topic != "CSS" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestStoreErrors(t *testing.T) {
	t.Parallel()

	var s *Store
	if err := s.Append(curriculum.KindMCQ, "hi"); err == nil {
		t.Fatalf("expected error for nil store")
	}
	s = &Store{}
	if err := s.Append(curriculum.KindMCQ, "hi"); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestSuggest(t *testing.T) {
	topics := []string{"React", "Redux", "Go", "Rust"}
	if got := Suggest("", topics, 2); !slices.Equal(got, []string{"React", "Redux"}) {
		t.Fatalf("Suggest(empty) = %v", got)
	}
	got := Suggest("rct", topics, 0)
	if len(got) == 0 || got[0] != "React" {
		t.Fatalf("Suggest(rct) = %v, want React first", got)
	}
	if got := Suggest("zzz", topics, 0); len(got) != 0 {
		t.Fatalf("Suggest(zzz) = %v, want none", got)
	}
}

func TestFilter(t *testing.T) {
	topics := []string{"HTML basics", "React hooks", "Go routines"}
	key := func(i int) string { return topics[i] }
	if got := Filter("", len(topics), key); !slices.Equal(got, []int{0, 1, 2}) {
		t.Fatalf("Filter(empty) = %v", got)
	}
	if got := Filter("hooks", len(topics), key); !slices.Equal(got, []int{1}) {
		t.Fatalf("Filter(hooks) = %v", got)
	}
}
