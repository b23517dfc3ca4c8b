package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"curriculum-cli/internal/curriculum"
)

// History lists the user's previous project requests, newest first.
func (c *Client) History(ctx context.Context) ([]curriculum.RequestRecord, error) {
	const op = "project.history"
	res, err := c.do(ctx, op, http.MethodGet, c.endpoints.ProjectHistory, nil, nil)
	if err != nil {
		return nil, err
	}
	list := res.Get("data.userHistoryData.history")
	if !list.IsArray() {
		return nil, malformed(op, "data.userHistoryData.history missing or not a list")
	}
	var records []curriculum.RequestRecord
	if err := json.Unmarshal([]byte(list.Raw), &records); err != nil {
		return nil, malformed(op, "decode history: %v", err)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// Detail fetches the PDF descriptor for one history entry.
func (c *Client) Detail(ctx context.Context, id string) (curriculum.Detail, error) {
	const op = "project.detail"
	id = strings.TrimSpace(id)
	if id == "" {
		return curriculum.Detail{}, malformed(op, "empty id")
	}
	res, err := c.do(ctx, op, http.MethodGet, c.endpoints.ProjectDetail, url.Values{"question_id": {id}}, nil)
	if err != nil {
		return curriculum.Detail{}, err
	}
	if status := res.Get("status").String(); status != "success" {
		return curriculum.Detail{}, malformed(op, "status %q", status)
	}
	pdf := res.Get("data.project_pdf.0")
	if !pdf.IsObject() {
		return curriculum.Detail{}, malformed(op, "data.project_pdf is empty")
	}
	d := curriculum.Detail{ID: id}
	if err := json.Unmarshal([]byte(pdf.Raw), &d.PDF); err != nil {
		return curriculum.Detail{}, malformed(op, "decode pdf: %v", err)
	}
	return d, nil
}
