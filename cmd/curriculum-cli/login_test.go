package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestLoginWhoamiLogout(t *testing.T) {
	root := testRoot(t, "http://127.0.0.1:1")

	var out bytes.Buffer
	if err := runLogin(root, []string{"--with-token", "--name", "Asha"}, strings.NewReader("opaque-token\n"), &out); err != nil {
		t.Fatalf("runLogin: %v", err)
	}
	if got := out.String(); got != "Logged in as Asha.\n" {
		t.Fatalf("login output = %q", got)
	}

	out.Reset()
	if err := runWhoami(root, nil, &out); err != nil {
		t.Fatalf("runWhoami: %v", err)
	}
	if got := out.String(); got != "Asha\ntoken: no expiry\n" {
		t.Fatalf("whoami output = %q", got)
	}

	out.Reset()
	if err := runLogout(root, nil, &out); err != nil {
		t.Fatalf("runLogout: %v", err)
	}
	out.Reset()
	if err := runWhoami(root, nil, &out); err != nil {
		t.Fatalf("runWhoami: %v", err)
	}
	if got := out.String(); got != "not logged in\n" {
		t.Fatalf("whoami after logout = %q", got)
	}
}

func TestLoginRejectsExpiredJWT(t *testing.T) {
	root := testRoot(t, "http://127.0.0.1:1")
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "s1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	var out bytes.Buffer
	err = runLogin(root, []string{"--with-token"}, strings.NewReader(token), &out)
	if err == nil || !strings.Contains(err.Error(), "token expired") {
		t.Fatalf("error = %v", err)
	}
}

func TestLoginEmptyToken(t *testing.T) {
	root := testRoot(t, "http://127.0.0.1:1")
	var out bytes.Buffer
	if err := runLogin(root, []string{"--with-token"}, strings.NewReader("\n"), &out); err == nil {
		t.Fatalf("expected error for empty token")
	}
}
