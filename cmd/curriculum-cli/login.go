package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"curriculum-cli/internal/session"
)

func runLogin(root rootArgs, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var withToken bool
	var name, email string
	fs.BoolVar(&withToken, "with-token", false, "Read the token from stdin without prompting")
	fs.StringVar(&name, "name", "", "Display name to store with the token")
	fs.StringVar(&email, "email", "", "E-mail to store with the token")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if !withToken {
		fmt.Fprint(out, "Paste the token from the curriculum web app: ")
	}
	token, err := readToken(in)
	if err != nil {
		return err
	}

	sess := session.New(token, session.Profile{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)})
	if sess.Expired(time.Now()) {
		return fmt.Errorf("token expired at %s", sess.Claims.ExpiresAt.Format(time.RFC3339))
	}
	path := cfg.ResolvedAuthPath()
	if err := session.Save(path, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	log.WithField("path", path).Info("session saved")
	_, err = fmt.Fprintf(out, "Logged in as %s.\n", sess.DisplayName())
	return err
}

func readToken(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return "", errors.New("no token provided")
	}
	return token, nil
}

func runLogout(root rootArgs, args []string, out io.Writer) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if err := session.Clear(cfg.ResolvedAuthPath()); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	_, err = fmt.Fprintln(out, "Logged out and cleared stored token.")
	return err
}

func runWhoami(root rootArgs, args []string, out io.Writer) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	sess, err := session.Load(cfg.ResolvedAuthPath(), cfg.Token)
	if err != nil {
		return err
	}
	if !sess.Authenticated() {
		_, err := fmt.Fprintln(out, "not logged in")
		return err
	}
	lines := []string{sess.DisplayName()}
	if sess.Profile.Email != "" && sess.Profile.Email != sess.DisplayName() {
		lines = append(lines, sess.Profile.Email)
	}
	switch {
	case sess.Claims.ExpiresAt.IsZero():
		lines = append(lines, "token: no expiry")
	case sess.Expired(time.Now()):
		lines = append(lines, "token: expired "+sess.Claims.ExpiresAt.UTC().Format(time.RFC3339))
	default:
		lines = append(lines, "token: expires "+sess.Claims.ExpiresAt.UTC().Format(time.RFC3339))
	}
	_, err = fmt.Fprintln(out, strings.Join(lines, "\n"))
	return err
}
