package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"curriculum-cli/internal/curriculum"
	"curriculum-cli/internal/events"
	"curriculum-cli/internal/logger"
	"curriculum-cli/internal/tui"
)

var log = logger.Named("cli")

func main() {
	logger.Configure()
	if logFile, _, err := logger.SetupFile(logger.DefaultLogPath); err != nil {
		log.Warnf("failed to initialize log file: %v", err)
	} else {
		defer logFile.Close()
	}

	root, rest, err := parseRootArgs(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprint(os.Stdout, usage)
			return
		}
		log.Fatalf("parse args: %v", err)
	}
	root.httpLogPath = logger.DefaultHTTPLogPath

	if err := dispatch(root, rest, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func dispatch(root rootArgs, rest []string, in io.Reader, out io.Writer) error {
	if len(rest) == 0 {
		return runInteractive(root)
	}
	switch cmd := rest[0]; cmd {
	case "mcq", "mcqs", "quiz", "projects", "project", "ideas":
		kind, _ := curriculum.ParseKind(cmd)
		return runGenerate(root, kind, rest[1:], out)
	case "history":
		return runHistory(root, rest[1:], out)
	case "detail":
		return runDetail(root, rest[1:], out)
	case "login":
		return runLogin(root, rest[1:], in, out)
	case "logout":
		return runLogout(root, rest[1:], out)
	case "whoami":
		return runWhoami(root, rest[1:], out)
	case "ping":
		return runPing(root, rest[1:], out)
	case "config":
		return runConfig(root, rest[1:], out)
	case "completion":
		return runCompletion(rest[1:], out)
	case "help", "-h", "--help":
		_, err := fmt.Fprint(out, usage)
		return err
	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, strings.TrimSpace(usage))
	}
}

func runInteractive(root rootArgs) error {
	rt, err := loadRuntime(root)
	if err != nil {
		return err
	}
	defer rt.Close()

	bus := events.NewBus()
	defer bus.Close()
	board := rt.newBoard(bus)
	defer board.Close()

	topics, err := rt.topics.Topics()
	if err != nil {
		log.Warnf("failed to read topic history: %v", err)
	}
	return tui.Run(tui.Options{
		Board:    board,
		Bus:      bus,
		Player:   rt.player,
		Remote:   rt.client,
		Topics:   topics,
		Language: rt.lang,
		User:     rt.session.DisplayName(),
		BaseURL:  rt.client.BaseURL(),
		Log:      logger.Named("tui"),
	})
}

const usage = `Usage: curriculum-cli [-c key=value]... [--config path] <command> [flags]

Commands:
  (none)                         open the interactive TUI
  mcq --topic T -n N             generate multiple-choice questions
  projects --topic T -n N        generate project ideas
  history [--filter q] [--details]
  detail <id>                    show the PDF of a previous request
  login [--with-token]           store a bearer token
  logout                         forget the stored token
  whoami                         show the signed-in user
  ping                           check the service is reachable
  config [show|set k=v...|path]  inspect or persist settings
  completion [bash|zsh]          print shell completions
`
