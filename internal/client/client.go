// Package client talks to the curriculum service: one HTTP call per operation,
// bearer-token auth from an injected session, no retries.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"curriculum-cli/internal/logger"
	"curriculum-cli/internal/session"

	"github.com/tidwall/gjson"
)

const maxResponseBytes = 8 << 20

// Endpoints are paths relative to the base URL.
type Endpoints struct {
	MCQGenerate     string
	ProjectGenerate string
	ProjectHistory  string
	ProjectDetail   string
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		MCQGenerate:     "/mcq/search",
		ProjectGenerate: "/project/generate",
		ProjectHistory:  "/project/getHistory",
		ProjectDetail:   "/project/detailedHistory",
	}
}

type Options struct {
	BaseURL    string
	Session    session.Session
	HTTPClient *http.Client
	Timeout    time.Duration
	Endpoints  Endpoints
	Log        *logger.LogEntry
	Now        func() time.Time
}

type Client struct {
	baseURL   string
	session   session.Session
	http      *http.Client
	endpoints Endpoints
	log       *logger.LogEntry
	now       func() time.Time
}

func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("empty base url")
	}
	if u, err := url.Parse(base); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", opts.BaseURL)
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	endpoints := opts.Endpoints
	if endpoints == (Endpoints{}) {
		endpoints = DefaultEndpoints()
	}
	log := opts.Log
	if log == nil {
		log = logger.Named("client")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Client{
		baseURL:   base,
		session:   opts.Session,
		http:      hc,
		endpoints: endpoints,
		log:       log,
		now:       now,
	}, nil
}

// BaseURL returns the normalized service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends one request and returns the parsed JSON body.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body any) (gjson.Result, error) {
	if !c.session.Authenticated() {
		return gjson.Result{}, &Error{Kind: KindUnauthorized, Op: op, Err: errors.New("no token; run login first")}
	}
	if c.session.Expired(c.now()) {
		return gjson.Result{}, &Error{Kind: KindUnauthorized, Op: op, Err: fmt.Errorf("token expired at %s", c.session.Claims.ExpiresAt.Format(time.RFC3339))}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return gjson.Result{}, fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s: build request: %w", op, err)
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("Authorization", "Bearer "+c.session.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	entry := c.log.WithField("op", op)
	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			// 超时按网络不可用处理；主动取消原样返回。
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				entry.WithField("error", ctxErr).Warn("request timed out")
				return gjson.Result{}, &Error{Kind: KindNetworkUnavailable, Op: op, Err: ctxErr}
			}
			return gjson.Result{}, fmt.Errorf("%s: %w", op, ctxErr)
		}
		entry.WithField("error", err).Warn("request failed")
		return gjson.Result{}, &Error{Kind: KindNetworkUnavailable, Op: op, Err: err}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	entry = entry.WithField("status", res.StatusCode).WithField("elapsed", time.Since(start).Round(time.Millisecond))
	if err != nil {
		entry.WithField("error", err).Warn("reading response failed")
		return gjson.Result{}, &Error{Kind: KindNetworkUnavailable, Op: op, Status: res.StatusCode, Err: err}
	}

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		entry.Warn("request unauthorized")
		return gjson.Result{}, &Error{Kind: KindUnauthorized, Op: op, Status: res.StatusCode}
	case res.StatusCode/100 != 2:
		entry.Warn("request rejected")
		return gjson.Result{}, &Error{Kind: KindRejected, Op: op, Status: res.StatusCode, Err: errors.New(snippet(data))}
	}
	if !gjson.ValidBytes(data) {
		entry.Warn("response is not json")
		return gjson.Result{}, malformed(op, "response is not valid json")
	}
	entry.Info("request finished")
	return gjson.ParseBytes(data), nil
}

func snippet(data []byte) string {
	s := strings.TrimSpace(string(data))
	if s == "" {
		return "empty body"
	}
	const max = 200
	if len(s) > max {
		s = s[:max] + "…"
	}
	return s
}
