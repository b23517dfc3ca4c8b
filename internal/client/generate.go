package client

import (
	"context"
	"encoding/json"
	"net/http"

	"curriculum-cli/internal/curriculum"

	"github.com/tidwall/gjson"
)

type mcqRequest struct {
	Topic        string `json:"topic"`
	NumQuestions int    `json:"numQuestions"`
}

type projectRequest struct {
	Topic    string `json:"topic"`
	NumIdeas int    `json:"numIdeas"`
}

// GenerateMCQ asks for n multiple-choice questions on topic and returns the raw
// markup from data.mcq_output.
func (c *Client) GenerateMCQ(ctx context.Context, topic string, n int) (curriculum.RawResponse, error) {
	const op = "mcq.generate"
	res, err := c.do(ctx, op, http.MethodPost, c.endpoints.MCQGenerate, nil, mcqRequest{Topic: topic, NumQuestions: n})
	if err != nil {
		return "", err
	}
	out := res.Get("data.mcq_output")
	if out.Type != gjson.String {
		return "", malformed(op, "data.mcq_output missing or not a string")
	}
	return curriculum.RawResponse(out.String()), nil
}

// GenerateProjects asks for n project ideas on topic (data.Projects).
func (c *Client) GenerateProjects(ctx context.Context, topic string, n int) ([]curriculum.Project, error) {
	const op = "project.generate"
	res, err := c.do(ctx, op, http.MethodPost, c.endpoints.ProjectGenerate, nil, projectRequest{Topic: topic, NumIdeas: n})
	if err != nil {
		return nil, err
	}
	list := res.Get("data.Projects")
	if !list.IsArray() {
		return nil, malformed(op, "data.Projects missing or not a list")
	}
	var projects []curriculum.Project
	if err := json.Unmarshal([]byte(list.Raw), &projects); err != nil {
		return nil, malformed(op, "decode projects: %v", err)
	}
	return projects, nil
}
