package main

import (
	"errors"
	"io"
	"time"

	"curriculum-cli/internal/client"
	"curriculum-cli/internal/config"
	"curriculum-cli/internal/events"
	"curriculum-cli/internal/generation"
	"curriculum-cli/internal/history"
	"curriculum-cli/internal/i18n"
	"curriculum-cli/internal/logger"
	"curriculum-cli/internal/playback"
	"curriculum-cli/internal/session"
)

// runtime 汇总一次命令运行所需的配置、会话与服务客户端。
type runtime struct {
	cfg     config.Config
	lang    i18n.Language
	session session.Session
	client  *client.Client
	topics  *history.Store
	player  *playback.Player
	closers []io.Closer
}

func loadConfig(root rootArgs) (config.Config, error) {
	cfg, err := config.Load(root.cfgPath)
	if err != nil {
		return cfg, err
	}
	cfg = config.ApplyKVOverrides(cfg, root.overrides)
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		log.Warnf("ignoring log_level %q: %v", cfg.LogLevel, err)
	}
	return cfg, nil
}

func loadRuntime(root rootArgs) (*runtime, error) {
	cfg, err := loadConfig(root)
	if err != nil {
		return nil, err
	}
	sess, err := session.Load(cfg.ResolvedAuthPath(), cfg.Token)
	if err != nil {
		return nil, err
	}

	rt := &runtime{
		cfg:     cfg,
		lang:    i18n.Normalize(cfg.Language),
		session: sess,
		topics:  &history.Store{Path: cfg.TopicsPath()},
		player: playback.New(playback.Options{
			Interval: time.Duration(cfg.IntervalMS) * time.Millisecond,
			Log:      logger.Named("playback"),
		}),
	}

	httpLog := logger.Named("client")
	if root.httpLogPath != "" {
		if entry, closer, _, err := logger.SetupComponentFile("client", root.httpLogPath); err != nil {
			log.Warnf("failed to initialize http log (%s): %v", root.httpLogPath, err)
		} else {
			httpLog = entry
			rt.closers = append(rt.closers, closer)
		}
	}

	cl, err := client.New(client.Options{
		BaseURL: cfg.URL,
		Session: sess,
		Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		Log:     httpLog,
	})
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.client = cl
	return rt, nil
}

func (rt *runtime) newBoard(bus *events.Bus) *generation.Board {
	return generation.NewBoard(generation.Options{
		Generator: rt.client,
		Bus:       bus,
		Topics:    rt.topics,
		MaxItems:  rt.cfg.MaxItems,
		Language:  rt.lang,
		Timeout:   time.Duration(rt.cfg.TimeoutSeconds) * time.Second,
		Log:       logger.Named("board"),
	})
}

// requireSession 在请求前给出可读的登录提示。
func (rt *runtime) requireSession() error {
	if rt.session.Authenticated() && !rt.session.Expired(time.Now()) {
		return nil
	}
	return errors.New(i18n.Text(rt.lang, i18n.MsgUnauthorized) + " (curriculum-cli login)")
}

func (rt *runtime) Close() {
	for _, c := range rt.closers {
		_ = c.Close()
	}
	rt.closers = nil
}
