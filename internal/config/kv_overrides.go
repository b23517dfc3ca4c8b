package config

import (
	"strconv"
	"strings"
)

// ApplyKVOverrides applies free-form -c key=value overrides. Unknown keys and
// unparsable numbers are ignored.
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	if len(overrides) == 0 {
		return cfg
	}
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		switch key {
		case "url", "base_url":
			cfg.URL = strings.TrimRight(val, "/")
		case "token":
			cfg.Token = val
		case "auth_path":
			cfg.AuthPath = val
		case "language", "lang":
			cfg.Language = val
		case "log_level":
			cfg.LogLevel = val
		case "interval_ms", "interval":
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				cfg.IntervalMS = n
			}
		case "timeout_seconds", "timeout":
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				cfg.TimeoutSeconds = n
			}
		case "max_items":
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				cfg.MaxItems = n
			}
		}
	}
	return cfg
}
