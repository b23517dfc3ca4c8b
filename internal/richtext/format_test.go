package richtext

import (
	"strings"
	"testing"

	"curriculum-cli/internal/curriculum"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "bold only", raw: "**A**", want: "<b>A</b>"},
		{name: "plain", raw: "What is Go?", want: "What is Go?"},
		{name: "double newline", raw: "Q1\n\nQ2", want: "Q1<br/><br/>Q2"},
		{name: "single newline", raw: "a\nb", want: "a<br/>b"},
		{name: "three newlines", raw: "a\n\n\nb", want: "a<br/><br/><br/>b"},
		{name: "list marker", raw: "Options:* A* B", want: "Options:<br/> A<br/> B"},
		{
			name: "question block",
			raw:  "**1. What is React?**\na) A library\nb) A database",
			want: "<b>1. What is React?</b><br/>a) A library<br/>b) A database",
		},
		{name: "unbalanced bold", raw: "x **y", want: "x <b>y</b>"},
		{name: "empty", raw: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(curriculum.RawResponse(tt.raw))
			if string(got) != tt.want {
				t.Fatalf("Format(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFormat_Deterministic(t *testing.T) {
	raw := curriculum.RawResponse("**Q1.** pick one\n* A\n* B\n\n**Answer:** A")
	first := Format(raw)
	for i := 0; i < 5; i++ {
		if got := Format(raw); got != first {
			t.Fatalf("run %d: Format = %q, want %q", i, got, first)
		}
	}
}

func TestFormat_OutputIsFixedPoint(t *testing.T) {
	raw := curriculum.RawResponse("**Title**\n\n* one\n* two\nend")
	once := Format(raw)
	if strings.ContainsAny(string(once), "*\n") {
		t.Fatalf("Format output still has markup: %q", once)
	}
	if twice := Format(curriculum.RawResponse(once)); twice != once {
		t.Fatalf("Format(Format(x)) = %q, want %q", twice, once)
	}
	// The newline replacements alone must also leave it untouched.
	again := strings.ReplaceAll(string(once), "\n\n", LineBreak+LineBreak)
	again = strings.ReplaceAll(again, "\n", LineBreak)
	if again != string(once) {
		t.Fatalf("newline pass altered output: %q", again)
	}
}

func TestFormat_DoubleNewlineProducesOneDoubleBreak(t *testing.T) {
	got := string(Format("before\n\nafter"))
	if n := strings.Count(got, LineBreak+LineBreak); n != 1 {
		t.Fatalf("double breaks = %d in %q, want 1", n, got)
	}
	if !strings.HasPrefix(got, "before"+LineBreak+LineBreak) {
		t.Fatalf("double break not at newline position: %q", got)
	}
}

func TestFormatProjects(t *testing.T) {
	got := FormatProjects([]curriculum.Project{
		{Title: "## Todo App", Description: "Build a todo list\nwith hooks", URL: "https://example.test/1"},
		{Title: "**Weather**", Description: "", URL: "https://example.test/2"},
	})
	want := "<b>Todo App</b><br/>Build a todo list<br/>with hooks<br/>https://example.test/1" +
		"<br/><br/>" +
		"<b>Weather</b><br/>https://example.test/2"
	if string(got) != want {
		t.Fatalf("FormatProjects =\n%q\nwant\n%q", got, want)
	}
	if got := FormatProjects(nil); got != "" {
		t.Fatalf("FormatProjects(nil) = %q, want empty", got)
	}
}

func TestFormat_NoAsteriskSurvives(t *testing.T) {
	for _, raw := range []string{"**1. Q** *a* ***b***", "** 2. x", "a*b**c***d****"} {
		if got := Format(curriculum.RawResponse(raw)); strings.Contains(string(got), "*") {
			t.Fatalf("Format(%q) = %q still contains an asterisk", raw, got)
		}
	}
}
