package main

import (
	"bytes"
	"strings"
	"testing"

	"curriculum-cli/internal/config"
)

func TestConfigSetPersists(t *testing.T) {
	root := testRoot(t, "http://127.0.0.1:1")

	var out bytes.Buffer
	if err := runConfig(root, []string{"set", "language=zh", "max_items=5"}, &out); err != nil {
		t.Fatalf("config set: %v", err)
	}
	if got, want := out.String(), "saved "+root.cfgPath+"\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
	cfg, err := config.Load(root.cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Language != "zh" || cfg.MaxItems != 5 || cfg.URL != "http://127.0.0.1:1" {
		t.Fatalf("unexpected config after set: %+v", cfg)
	}
}

func TestConfigShowAppliesOverrides(t *testing.T) {
	root := testRoot(t, "http://127.0.0.1:1").withOverrides("interval_ms=20")
	t.Setenv("CURRICULUM_TOKEN", "secret-token")

	var out bytes.Buffer
	if err := runConfig(root, nil, &out); err != nil {
		t.Fatalf("config show: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "interval_ms = 20") {
		t.Fatalf("show output missing override:\n%s", got)
	}
	if strings.Contains(got, "secret-token") {
		t.Fatalf("show output leaks token:\n%s", got)
	}
}

func TestConfigSetRejectsBareKey(t *testing.T) {
	root := testRoot(t, "http://127.0.0.1:1")
	var out bytes.Buffer
	if err := runConfig(root, []string{"set", "language"}, &out); err == nil {
		t.Fatalf("expected error for missing value")
	}
}
