package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"portfolio_backend/internal/config"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/util"
	"strings"
	"time"
)

type GitHubClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewGitHubClient(cfg config.GitHubConfig) *GitHubClient {
	return &GitHubClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// GitHubEvent /users/{login}/events/public 返回的事件，只解析用到的字段
type GitHubEvent struct {
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	Repo      struct {
		Name string `json:"name"`
	} `json:"repo"`
	Payload struct {
		Action  string            `json:"action"`
		Commits []json.RawMessage `json:"commits"`
	} `json:"payload"`
}

func (c *GitHubClient) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.client.Do(req)
}

func (c *GitHubClient) PublicEvents(ctx context.Context, login string) ([]GitHubEvent, error) {
	resp, err := c.get(ctx, "/users/"+url.PathEscape(login)+"/events/public")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", util.ErrGitHubUserNotFound, login)
	case http.StatusForbidden, http.StatusTooManyRequests:
		return nil, util.ErrGitHubRateLimited
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("github api error (status %d): %s", resp.StatusCode, string(msg))
	}

	var events []GitHubEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, err
	}
	return events, nil
}

// RateLimit 透传 /rate_limit 的原始JSON
func (c *GitHubClient) RateLimit(ctx context.Context) (json.RawMessage, error) {
	resp, err := c.get(ctx, "/rate_limit")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github api error (status %d)", resp.StatusCode)
	}
	return json.RawMessage(body), nil
}

// ToUserEvent 提交按每个commit 3分计，新开PR 4分，新开issue 3分，其余忽略
func ToUserEvent(ev GitHubEvent, login, course string) (model.UserEvent, bool) {
	ue := model.UserEvent{
		GitHubLogin: login,
		Source:      model.EventSourceGitHub,
		Course:      course,
		Artifact:    ev.Repo.Name,
		Timestamp:   ev.CreatedAt.UTC(),
	}

	switch ev.Type {
	case "PushEvent":
		commits := 1
		if ev.Payload.Commits != nil {
			commits = len(ev.Payload.Commits)
		}
		ue.EventType = model.EventCommit
		ue.EventWeight = 3.0 * float64(commits)
		return ue, true
	case "PullRequestEvent":
		if ev.Payload.Action != "opened" {
			return ue, false
		}
		ue.EventType = model.EventPR
		ue.EventWeight = 4.0
		return ue, true
	case "IssuesEvent":
		if ev.Payload.Action != "opened" {
			return ue, false
		}
		ue.EventType = model.EventIssue
		ue.EventWeight = 3.0
		return ue, true
	}
	return ue, false
}
