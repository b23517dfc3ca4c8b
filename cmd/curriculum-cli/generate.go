package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"curriculum-cli/internal/client"
	"curriculum-cli/internal/curriculum"
	"curriculum-cli/internal/generation"
	"curriculum-cli/internal/playback"
	"curriculum-cli/internal/richtext"
	"curriculum-cli/internal/tui/render"
)

const (
	formatHTML = "html"
	formatText = "text"
	formatANSI = "ansi"
)

func runGenerate(root rootArgs, kind curriculum.Kind, args []string, out io.Writer) error {
	name := string(kind)
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	defaultCount := 3
	if kind == curriculum.KindProject {
		defaultCount = 1
	}
	var topic string
	var count int
	var format string
	var instant bool
	var overrides stringSlice
	fs.StringVar(&topic, "topic", "", "Topic to generate for (or pass it as arguments)")
	fs.IntVar(&count, "n", defaultCount, "Number of questions or ideas")
	fs.StringVar(&format, "format", formatText, "Output format: html, text or ansi")
	fs.BoolVar(&instant, "instant", false, "Print the whole response at once instead of word by word")
	fs.Var(&overrides, "c", "Override config value key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(topic) == "" {
		topic = strings.Join(fs.Args(), " ")
	}
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case formatHTML, formatText, formatANSI:
	default:
		return fmt.Errorf("unknown format %q (use html, text or ansi)", format)
	}

	rt, err := loadRuntime(root.withOverrides(overrides...))
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	board := rt.newBoard(nil)
	defer board.Close()

	slot, err := board.Submit(generation.Request{Kind: kind, Topic: topic, Count: count})
	if err != nil {
		var verr *generation.ValidationError
		if errors.As(err, &verr) {
			return errors.New(verr.Message(rt.lang))
		}
		return err
	}
	fmt.Fprintln(out, slot.Request.Prompt(rt.lang))

	slot, err = board.Fetch(ctx, slot.Index)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		log.WithField("error_kind", client.KindOf(err)).Warnf("%s failed: %v", name, err)
		return errors.New(client.UserMessage(err, rt.lang))
	}

	w := newTokenWriter(out, format)
	if instant {
		w.write(string(slot.Response))
		return w.flush()
	}
	if err := play(ctx, rt.player, string(slot.Response), w.write); err != nil {
		return err
	}
	return w.flush()
}

// play 逐词播放 formatted；token 先进入与 token 数等长的缓冲通道，
// 写出在调用方 goroutine 完成，回调不会阻塞。
func play(ctx context.Context, player *playback.Player, formatted string, emit func(string)) error {
	ch := make(chan string, len(playback.Tokenize(formatted)))
	h := player.Play(ctx, formatted, func(tok string) { ch <- tok })
	for {
		select {
		case tok := <-ch:
			emit(tok)
		case <-h.Done():
			for {
				select {
				case tok := <-ch:
					emit(tok)
				default:
					if h.Cancelled() {
						return context.Cause(ctx)
					}
					return nil
				}
			}
		}
	}
}

// tokenWriter 将 FormattedResponse 的 token 按输出格式写出。
// text/ansi 通过 Decoder 解析跨 token 的标记。
type tokenWriter struct {
	out    io.Writer
	format string
	dec    richtext.Decoder
	err    error
}

func newTokenWriter(out io.Writer, format string) *tokenWriter {
	return &tokenWriter{out: out, format: format}
}

func (w *tokenWriter) write(tok string) {
	if w.format == formatHTML {
		w.emitString(tok)
		return
	}
	w.emit(w.dec.Feed(tok))
}

func (w *tokenWriter) flush() error {
	if w.format != formatHTML {
		w.emit(w.dec.Flush())
	}
	w.emitString("\n")
	return w.err
}

func (w *tokenWriter) emit(spans richtext.Spans) {
	for _, sp := range spans {
		switch sp.Kind {
		case richtext.SpanLineBreak:
			w.emitString("\n")
		case richtext.SpanBold:
			if w.format == formatANSI {
				w.emitString(render.BoldStyle.Render(sp.Text))
				continue
			}
			w.emitString(sp.Text)
		default:
			w.emitString(sp.Text)
		}
	}
}

func (w *tokenWriter) emitString(s string) {
	if w.err != nil || s == "" {
		return
	}
	_, w.err = io.WriteString(w.out, s)
}
