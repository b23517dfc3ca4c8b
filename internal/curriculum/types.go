// Package curriculum holds the value types exchanged with the curriculum
// service and passed between the client, the formatter and the UI.
package curriculum

import (
	"strings"
	"time"
)

// Kind selects what a request generates.
type Kind string

const (
	KindMCQ     Kind = "mcq"
	KindProject Kind = "project"
)

// ParseKind accepts the user-facing spellings of a kind.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mcq", "mcqs", "quiz":
		return KindMCQ, true
	case "project", "projects", "idea", "ideas":
		return KindProject, true
	}
	return "", false
}

// RawResponse is the service's unprocessed text using the **bold** / * list /
// newline markup. Immutable once received.
type RawResponse string

// FormattedResponse is the markup produced from a RawResponse: <b>, </b> and
// <br/> markers only.
type FormattedResponse string

// Project is one generated project idea.
type Project struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// RequestRecord is one entry of the remote submission history.
type RequestRecord struct {
	ID        string    `json:"_id"`
	Topic     string    `json:"topic"`
	CreatedAt time.Time `json:"created_at"`
}

// PDF is the downloadable descriptor attached to a history entry.
type PDF struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Detail is the detail-by-id view of a history entry.
type Detail struct {
	ID  string
	PDF PDF
}
