package forge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/repokit/internal/errors"
)

type recorded struct {
	method string
	path   string
	auth   string
	body   map[string]any
}

func server(t *testing.T, status int, response string) (*httptest.Server, *[]recorded) {
	t.Helper()
	var reqs []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization")}
		_ = json.NewDecoder(r.Body).Decode(&rec.body)
		reqs = append(reqs, rec)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func TestCreatePullRequest(t *testing.T) {
	srv, reqs := server(t, http.StatusCreated, `{"number": 42, "html_url": "https://github.com/o/r/pull/42"}`)
	c := New("ghp_secret", "octo/repo", WithBaseURL(srv.URL))

	n, err := c.CreatePullRequest(context.Background(), PullRequest{
		Title: "Fix README typo",
		Head:  "fix/auto-update-1700000000",
		Base:  "main",
		Body:  PRBody("fix: typo"),
	})
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/repos/octo/repo/pulls", got.path)
	assert.Equal(t, "token ghp_secret", got.auth)
	assert.Equal(t, "fix/auto-update-1700000000", got.body["head"])
	assert.Equal(t, "main", got.body["base"])
	assert.Equal(t, "Commit Message:\nfix: typo\n\nThis PR was generated automatically using Gemini.", got.body["body"])
}

func TestCreatePullRequest_UnexpectedStatus(t *testing.T) {
	srv, _ := server(t, http.StatusUnprocessableEntity, `{"message": "Validation Failed"}`)
	c := New("t", "octo/repo", WithBaseURL(srv.URL))

	_, err := c.CreatePullRequest(context.Background(), PullRequest{Title: "x"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Contains(t, apiErr.Error(), "Validation Failed")
}

func TestCreatePullRequest_OKIsNotCreated(t *testing.T) {
	srv, _ := server(t, http.StatusOK, `{"number": 1}`)
	c := New("t", "octo/repo", WithBaseURL(srv.URL))

	_, err := c.CreatePullRequest(context.Background(), PullRequest{})
	assert.Error(t, err)
}

func TestAddLabels(t *testing.T) {
	srv, reqs := server(t, http.StatusOK, `[{"name":"fix"},{"name":"docs"}]`)
	c := New("t", "octo/repo", WithBaseURL(srv.URL+"/"))

	require.NoError(t, c.AddLabels(context.Background(), 42, []string{"fix", "docs"}))

	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.Equal(t, "/repos/octo/repo/issues/42/labels", got.path)
	assert.Equal(t, []any{"fix", "docs"}, got.body["labels"])
}

func TestAddLabels_Failure(t *testing.T) {
	srv, _ := server(t, http.StatusNotFound, `{"message":"Not Found"}`)
	c := New("t", "octo/repo", WithBaseURL(srv.URL))

	err := c.AddLabels(context.Background(), 7, []string{"fix"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "add labels", apiErr.Op)
}

func TestNew_DefaultRepo(t *testing.T) {
	assert.Equal(t, DefaultRepo, New("t", "").Repo())
}

func TestRedactBody(t *testing.T) {
	got := redactBody(`{"message": "bad credentials ghp_abcdefgh1234"}`)
	assert.NotContains(t, got, "ghp_abcdefgh1234")
	assert.Contains(t, got, "****1234")
}

func TestAPIError_EmptyBody(t *testing.T) {
	err := &APIError{Op: "add labels", Status: http.StatusBadGateway}
	assert.Equal(t, "add labels: 502 Bad Gateway", err.Error())
}
