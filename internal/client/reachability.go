package client

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
)

func CheckBaseURLReachable(ctx context.Context, baseURL string) error {
	raw := strings.TrimSpace(baseURL)
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	scheme := strings.ToLower(parsed.Scheme)
	host := parsed.Hostname()
	if scheme == "" || host == "" {
		return fmt.Errorf("invalid base url %q: scheme=%q host=%q", baseURL, parsed.Scheme, parsed.Host)
	}

	port := parsed.Port()
	if port == "" {
		switch scheme {
		case "http":
			port = "80"
		case "https":
			port = "443"
		default:
			return fmt.Errorf("unsupported base url scheme %q (base_url=%q)", parsed.Scheme, baseURL)
		}
	}

	addr := net.JoinHostPort(host, port)
	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", addr)
	if err != nil {
		return &Error{Kind: KindNetworkUnavailable, Op: "ping", Err: fmt.Errorf("cannot connect to %s: %w", addr, err)}
	}
	_ = conn.Close()
	return nil
}
