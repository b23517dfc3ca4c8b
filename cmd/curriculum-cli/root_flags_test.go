package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseRootArgs(t *testing.T) {
	root, rest, err := parseRootArgs([]string{"-c", "url=http://x", "-c", "language=zh", "--config", "/tmp/c.toml", "mcq", "--topic", "Go"})
	if err != nil {
		t.Fatalf("parseRootArgs: %v", err)
	}
	if diff := cmp.Diff([]string{"url=http://x", "language=zh"}, root.overrides); diff != "" {
		t.Fatalf("overrides mismatch (-want +got):\n%s", diff)
	}
	if root.cfgPath != "/tmp/c.toml" {
		t.Fatalf("cfgPath = %q", root.cfgPath)
	}
	if diff := cmp.Diff([]string{"mcq", "--topic", "Go"}, rest); diff != "" {
		t.Fatalf("rest mismatch (-want +got):\n%s", diff)
	}
}

func TestWithOverridesDoesNotAlias(t *testing.T) {
	base := rootArgs{overrides: make([]string, 1, 4)}
	base.overrides[0] = "url=a"
	a := base.withOverrides("interval=1")
	b := base.withOverrides("interval=2")
	if a.overrides[1] != "interval=1" || b.overrides[1] != "interval=2" {
		t.Fatalf("overrides aliased: %v %v", a.overrides, b.overrides)
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	err := dispatch(rootArgs{}, []string{"frobnicate"}, strings.NewReader(""), &out)
	if err == nil || !strings.Contains(err.Error(), `unknown command "frobnicate"`) {
		t.Fatalf("dispatch error = %v", err)
	}
}

func TestCompletion(t *testing.T) {
	var out bytes.Buffer
	if err := runCompletion([]string{"zsh"}, &out); err != nil {
		t.Fatalf("runCompletion: %v", err)
	}
	if !strings.Contains(out.String(), "compdef _curriculum_cli curriculum-cli") {
		t.Fatalf("zsh completion missing compdef")
	}
	if err := runCompletion([]string{"fish"}, &out); err == nil {
		t.Fatalf("fish should be unsupported")
	}
}
