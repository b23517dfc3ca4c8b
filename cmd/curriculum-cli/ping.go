package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"curriculum-cli/internal/client"
)

func runPing(root rootArgs, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("ping", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var baseURLOverride string
	var timeoutSeconds int
	fs.StringVar(&baseURLOverride, "base-url", "", "Override base URL (default from config)")
	fs.IntVar(&timeoutSeconds, "timeout", 5, "Timeout seconds")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	baseURL := strings.TrimSpace(baseURLOverride)
	if baseURL == "" {
		baseURL = cfg.URL
	}
	if timeoutSeconds <= 0 {
		timeoutSeconds = 5
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSeconds)*time.Second)
	defer cancel()
	start := time.Now()
	if err := client.CheckBaseURLReachable(ctx, baseURL); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "ok: %s reachable in %s\n", baseURL, time.Since(start).Round(time.Millisecond))
	return err
}
