package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"curriculum-cli/internal/curriculum"
	"curriculum-cli/internal/i18n"
	"curriculum-cli/internal/logger"
	"curriculum-cli/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
)

const testToken = "test-token"

// fakeService mimics the curriculum API closely enough for the client.
func fakeService(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Header.Get("Authorization") != "Bearer "+testToken {
				http.Error(w, `{"message":"invalid token"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Post("/mcq/search", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Topic        string `json:"topic"`
			NumQuestions int    `json:"numQuestions"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		if req.Header.Get("Content-Type") != "application/json" {
			http.Error(w, "bad content type", http.StatusUnsupportedMediaType)
			return
		}
		writeJSON(w, map[string]any{
			"data": map[string]any{
				"mcq_output": fmt.Sprintf("**1. %s question (%d total)**\na) yes\nb) no", body.Topic, body.NumQuestions),
			},
		})
	})
	r.Post("/project/generate", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Topic    string `json:"topic"`
			NumIdeas int    `json:"numIdeas"`
		}
		_ = json.NewDecoder(req.Body).Decode(&body)
		projects := make([]map[string]string, 0, body.NumIdeas)
		for i := 1; i <= body.NumIdeas; i++ {
			projects = append(projects, map[string]string{
				"title":       fmt.Sprintf("## %s idea %d", body.Topic, i),
				"description": "Build something",
				"url":         fmt.Sprintf("https://example.test/p/%d", i),
			})
		}
		writeJSON(w, map[string]any{"data": map[string]any{"Projects": projects}})
	})
	r.Get("/project/getHistory", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, map[string]any{"data": map[string]any{"userHistoryData": map[string]any{"history": []map[string]string{
			{"_id": "old", "topic": "HTML", "created_at": "2024-01-01T10:00:00.000Z"},
			{"_id": "new", "topic": "React", "created_at": "2024-03-05T08:30:00.000Z"},
		}}}})
	})
	r.Get("/project/detailedHistory", func(w http.ResponseWriter, req *http.Request) {
		id := req.URL.Query().Get("question_id")
		if id == "missing" {
			writeJSON(w, map[string]any{"status": "error"})
			return
		}
		writeJSON(w, map[string]any{
			"status": "success",
			"data": map[string]any{"project_pdf": []map[string]string{
				{"title": "Project " + id, "url": "https://example.test/pdf/" + id},
			}},
		})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, baseURL, token string) *Client {
	t.Helper()
	c, err := New(Options{
		BaseURL: baseURL,
		Session: session.New(token, session.Profile{}),
		Timeout: 2 * time.Second,
		Log:     logger.Discard(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestGenerateMCQ(t *testing.T) {
	srv := fakeService(t)
	c := newTestClient(t, srv.URL+"/", testToken)

	raw, err := c.GenerateMCQ(context.Background(), "Go", 3)
	if err != nil {
		t.Fatalf("GenerateMCQ: %v", err)
	}
	want := curriculum.RawResponse("**1. Go question (3 total)**\na) yes\nb) no")
	if raw != want {
		t.Fatalf("raw = %q, want %q", raw, want)
	}
}

func TestGenerateProjects(t *testing.T) {
	srv := fakeService(t)
	c := newTestClient(t, srv.URL, testToken)

	got, err := c.GenerateProjects(context.Background(), "React", 2)
	if err != nil {
		t.Fatalf("GenerateProjects: %v", err)
	}
	want := []curriculum.Project{
		{Title: "## React idea 1", Description: "Build something", URL: "https://example.test/p/1"},
		{Title: "## React idea 2", Description: "Build something", URL: "https://example.test/p/2"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("projects (-want +got):\n%s", diff)
	}
}

func TestHistory_NewestFirst(t *testing.T) {
	srv := fakeService(t)
	c := newTestClient(t, srv.URL, testToken)

	got, err := c.History(context.Background())
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 2 || got[0].ID != "new" || got[1].ID != "old" {
		t.Fatalf("history = %+v, want new then old", got)
	}
	if got[0].Topic != "React" || got[0].CreatedAt.Month() != time.March {
		t.Fatalf("record = %+v", got[0])
	}
}

func TestDetail(t *testing.T) {
	srv := fakeService(t)
	c := newTestClient(t, srv.URL, testToken)

	d, err := c.Detail(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	want := curriculum.Detail{ID: "abc", PDF: curriculum.PDF{Title: "Project abc", URL: "https://example.test/pdf/abc"}}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Fatalf("detail (-want +got):\n%s", diff)
	}

	_, err = c.Detail(context.Background(), "missing")
	if !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("Detail(missing) err = %v, want malformed payload", err)
	}
}

func TestErrorKinds(t *testing.T) {
	srv := fakeService(t)

	t.Run("bad token is unauthorized", func(t *testing.T) {
		c := newTestClient(t, srv.URL, "wrong")
		_, err := c.GenerateMCQ(context.Background(), "Go", 1)
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("err = %v, want unauthorized", err)
		}
		var apiErr *Error
		if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
			t.Fatalf("err = %#v, want status 401", err)
		}
	})

	t.Run("missing token fails before sending", func(t *testing.T) {
		c := newTestClient(t, srv.URL, "")
		_, err := c.History(context.Background())
		if KindOf(err) != KindUnauthorized {
			t.Fatalf("kind = %v, want unauthorized", KindOf(err))
		}
	})

	t.Run("refused connection is network unavailable", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("Listen: %v", err)
		}
		addr := ln.Addr().String()
		_ = ln.Close()
		c := newTestClient(t, "http://"+addr, testToken)
		_, err = c.GenerateMCQ(context.Background(), "Go", 1)
		if !errors.Is(err, ErrNetworkUnavailable) {
			t.Fatalf("err = %v, want network unavailable", err)
		}
	})

	t.Run("server error is rejected", func(t *testing.T) {
		bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer bad.Close()
		c := newTestClient(t, bad.URL, testToken)
		_, err := c.GenerateMCQ(context.Background(), "Go", 1)
		if !errors.Is(err, ErrRejected) || KindOf(err) != KindRejected {
			t.Fatalf("err = %v, want rejected", err)
		}
	})

	t.Run("invalid json and missing field are malformed", func(t *testing.T) {
		bodies := []string{`not json`, `{"data":{}}`, `{"data":{"mcq_output":42}}`}
		for _, body := range bodies {
			body := body
			odd := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			c := newTestClient(t, odd.URL, testToken)
			_, err := c.GenerateMCQ(context.Background(), "Go", 1)
			odd.Close()
			if !errors.Is(err, ErrMalformedPayload) {
				t.Fatalf("body %q: err = %v, want malformed payload", body, err)
			}
		}
	})

	t.Run("context deadline is network unavailable", func(t *testing.T) {
		release := make(chan struct{})
		slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer slow.Close()
		defer close(release)
		c := newTestClient(t, slow.URL, testToken)
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := c.History(ctx)
		if KindOf(err) != KindNetworkUnavailable || !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("err = %v (kind %v), want network unavailable wrapping the deadline", err, KindOf(err))
		}
		if got := UserMessage(err, i18n.LanguageEnglish); got != i18n.Text(i18n.LanguageEnglish, i18n.MsgNetworkUnavailable) {
			t.Fatalf("UserMessage = %q", got)
		}
	})

	t.Run("cancelled context is not classified", func(t *testing.T) {
		c := newTestClient(t, srv.URL, testToken)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := c.GenerateMCQ(ctx, "Go", 1)
		if !errors.Is(err, context.Canceled) || KindOf(err) != KindUnknown {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	})
}

func TestExpiredTokenFailsFast(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	// {"exp":1} signed with an arbitrary key; only the claims are read.
	const expired = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJleHAiOjF9.c2lnbmF0dXJl"
	c := newTestClient(t, srv.URL, expired)
	_, err := c.History(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
	if hits != 0 {
		t.Fatalf("server hit %d times, want 0", hits)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: nil, want: ""},
		{err: errors.New("boom"), want: "An error occurred while fetching data."},
		{err: &Error{Kind: KindUnauthorized}, want: i18n.Text(i18n.LanguageEnglish, i18n.MsgUnauthorized)},
		{err: fmt.Errorf("wrapped: %w", &Error{Kind: KindNetworkUnavailable}), want: i18n.Text(i18n.LanguageEnglish, i18n.MsgNetworkUnavailable)},
		{err: &Error{Kind: KindMalformedPayload}, want: i18n.Text(i18n.LanguageEnglish, i18n.MsgMalformedPayload)},
	}
	for _, tt := range tests {
		if got := UserMessage(tt.err, i18n.LanguageEnglish); got != tt.want {
			t.Errorf("UserMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	for _, base := range []string{"", "   ", "not a url", "/relative"} {
		if _, err := New(Options{BaseURL: base}); err == nil {
			t.Errorf("New(%q) = nil error, want error", base)
		}
	}
}

func TestCheckBaseURLReachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := CheckBaseURLReachable(ctx, "http://"+ln.Addr().String()); err != nil {
		t.Fatalf("CheckBaseURLReachable: %v", err)
	}
	if err := CheckBaseURLReachable(ctx, "ftp://example.test"); err == nil {
		t.Fatalf("unsupported scheme accepted")
	}
	if err := CheckBaseURLReachable(ctx, "://bad"); err == nil {
		t.Fatalf("invalid url accepted")
	}
}
