// Package forge talks to the GitHub REST API to open pull requests.
package forge

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/thoreinstein/repokit/internal/errors"
	"github.com/thoreinstein/repokit/internal/redact"
)

// DefaultBaseURL is the public GitHub API endpoint.
const DefaultBaseURL = "https://api.github.com"

// DefaultRepo is used when GITHUB_REPO is unset.
const DefaultRepo = "ProjectSaveGH/NoteManager"

// APIError is returned when GitHub answers with an unexpected status.
type APIError struct {
	Op     string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s: %d %s", e.Op, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s: %d %s", e.Op, e.Status, body)
}

// PullRequest is the payload for a new pull request.
type PullRequest struct {
	Title string `json:"title"`
	Head  string `json:"head"`
	Base  string `json:"base"`
	Body  string `json:"body"`
}

// PRBody renders the description of an automatically created pull request.
func PRBody(commitMessage string) string {
	return "Commit Message:\n" + commitMessage + "\n\nThis PR was generated automatically using Gemini."
}

// Client is a minimal GitHub client for one repository.
type Client struct {
	http *resty.Client
	repo string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.http.SetBaseURL(strings.TrimRight(url, "/"))
		}
	}
}

// New returns a client for repo ("owner/name") authenticated with token.
func New(token, repo string, opts ...Option) *Client {
	if repo == "" {
		repo = DefaultRepo
	}
	c := &Client{
		http: resty.New().
			SetBaseURL(DefaultBaseURL).
			SetHeader("Authorization", "token "+token).
			SetHeader("Accept", "application/vnd.github+json"),
		repo: repo,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Repo returns the target repository.
func (c *Client) Repo() string { return c.repo }

// CreatePullRequest opens pr and returns its number.
func (c *Client) CreatePullRequest(ctx context.Context, pr PullRequest) (int, error) {
	var created struct {
		Number int `json:"number"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(pr).
		SetResult(&created).
		Post("/repos/" + c.repo + "/pulls")
	if err != nil {
		return 0, errors.Wrap(err, "creating pull request")
	}
	if resp.StatusCode() != http.StatusCreated {
		return 0, &APIError{Op: "create pull request", Status: resp.StatusCode(), Body: redactBody(resp.String())}
	}
	if created.Number == 0 {
		return 0, errors.New("create pull request: response has no number")
	}
	return created.Number, nil
}

// AddLabels attaches labels to issue or pull request number.
func (c *Client) AddLabels(ctx context.Context, number int, labels []string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string][]string{"labels": labels}).
		Post(fmt.Sprintf("/repos/%s/issues/%d/labels", c.repo, number))
	if err != nil {
		return errors.Wrap(err, "adding labels")
	}
	if resp.StatusCode() != http.StatusOK {
		return &APIError{Op: "add labels", Status: resp.StatusCode(), Body: redactBody(resp.String())}
	}
	return nil
}

// redactBody masks anything token-shaped GitHub may echo back.
func redactBody(body string) string {
	fields := strings.Fields(body)
	for _, f := range fields {
		trimmed := strings.Trim(f, `",:{}[]`)
		if redact.ContainsTokenPrefix(trimmed) {
			body = strings.ReplaceAll(body, trimmed, redact.MaskValue(trimmed))
		}
	}
	return body
}
