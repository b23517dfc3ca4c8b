package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"curriculum-cli/internal/config"

	"github.com/pelletier/go-toml/v2"
)

// runConfig: show 打印生效配置，set 将 key=value 写回配置文件，path 打印文件位置。
func runConfig(root rootArgs, args []string, out io.Writer) error {
	sub := "show"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}
	switch sub {
	case "show":
		cfg, err := loadConfig(root)
		if err != nil {
			return err
		}
		data, err := toml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	case "path":
		path := root.cfgPath
		if path == "" {
			path = config.DefaultPath()
		}
		_, err := fmt.Fprintln(out, path)
		return err
	case "set":
		if len(args) == 0 {
			return errors.New("usage: curriculum-cli config set key=value...")
		}
		for _, kv := range args {
			if !strings.Contains(kv, "=") {
				return fmt.Errorf("invalid setting %q (want key=value)", kv)
			}
		}
		cfg, err := config.Load(root.cfgPath)
		if err != nil {
			return err
		}
		cfg = config.ApplyKVOverrides(cfg, args)
		if err := config.Save(cfg.Source, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		log.WithField("path", cfg.Source).Infof("config updated: %s", strings.Join(args, " "))
		_, err = fmt.Fprintf(out, "saved %s\n", cfg.Source)
		return err
	default:
		return fmt.Errorf("unknown config command %q (use show, set or path)", sub)
	}
}
