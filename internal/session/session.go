// Package session carries the caller's authentication state. It is loaded once
// by the command layer and passed explicitly to the client; nothing below cmd/
// reads credentials from disk or the environment on its own.
package session

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Profile is the user's public profile as returned at login.
type Profile struct {
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	PictureURL string `json:"profile_picture,omitempty"`
}

// Claims is what can be read from a JWT bearer token without verifying it.
// Opaque tokens leave every field zero.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
	JWT       bool
}

type Session struct {
	Token   string
	Profile Profile
	Claims  Claims
}

// New builds a session from a raw bearer token, decoding JWT claims when the
// token has that shape. Signature verification is the server's job.
func New(token string, profile Profile) Session {
	token = strings.TrimSpace(token)
	return Session{Token: token, Profile: profile, Claims: parseClaims(token)}
}

func parseClaims(token string) Claims {
	if strings.Count(token, ".") != 2 {
		return Claims{}
	}
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}
	}
	c := Claims{JWT: true}
	if sub, err := mc.GetSubject(); err == nil {
		c.Subject = sub
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c
}

// Authenticated reports whether a token is present.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Expired reports whether the token carries an exp claim that is not after now.
func (s Session) Expired(now time.Time) bool {
	if s.Claims.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(s.Claims.ExpiresAt)
}

// DisplayName picks the best label for the signed-in user.
func (s Session) DisplayName() string {
	switch {
	case strings.TrimSpace(s.Profile.Name) != "":
		return strings.TrimSpace(s.Profile.Name)
	case strings.TrimSpace(s.Profile.Email) != "":
		return strings.TrimSpace(s.Profile.Email)
	case s.Claims.Subject != "":
		return s.Claims.Subject
	default:
		return "student"
	}
}
