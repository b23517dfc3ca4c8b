package main

import (
	"flag"
	"io"
)

type rootArgs struct {
	overrides []string
	cfgPath   string
	// httpLogPath 为空时请求日志写入全局 logger。
	httpLogPath string
}

func parseRootArgs(args []string) (rootArgs, []string, error) {
	fs := flag.NewFlagSet("curriculum-cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var overrides stringSlice
	var cfgPath string
	fs.Var(&overrides, "c", "Override config value key=value (repeatable, applied after env)")
	fs.StringVar(&cfgPath, "config", "", "Path to config file (default ~/.curriculum/config.toml)")
	if err := fs.Parse(args); err != nil {
		return rootArgs{}, nil, err
	}
	return rootArgs{overrides: append([]string{}, overrides...), cfgPath: cfgPath}, fs.Args(), nil
}

// withOverrides 在 root 的 -c 之后追加子命令给出的覆盖项。
func (r rootArgs) withOverrides(extra ...string) rootArgs {
	merged := append([]string{}, r.overrides...)
	r.overrides = append(merged, extra...)
	return r
}
