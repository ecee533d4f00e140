package git

import (
	"context"
	"strings"

	gogit "github.com/go-git/go-git/v5"
)

// Unknown is shown for status fields that could not be determined.
const Unknown = "?"

// Status summarizes HEAD.
type Status struct {
	Branch  string
	Subject string
	Author  string
}

// Status reads the current branch and last commit. go-git is tried first;
// if it cannot open the repository the git CLI is queried instead. Fields
// that cannot be determined are Unknown.
func (r *Repo) Status(ctx context.Context) Status {
	st, err := r.statusFromObjects()
	if err == nil {
		return st
	}
	r.logger.Debug("go-git status unavailable, using git CLI", "error", err)

	st = Status{Branch: Unknown, Subject: Unknown, Author: Unknown}
	if b, err := r.CurrentBranch(ctx); err == nil {
		st.Branch = b
	}
	if res := r.query(ctx, "log", "-1", "--pretty=%s"); res.OK() && res.Output() != "" {
		st.Subject = res.Output()
	}
	if res := r.query(ctx, "log", "-1", "--pretty=%an"); res.OK() && res.Output() != "" {
		st.Author = res.Output()
	}
	return st
}

func (r *Repo) statusFromObjects() (Status, error) {
	repo, err := gogit.PlainOpenWithOptions(r.dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Status{}, err
	}
	head, err := repo.Head()
	if err != nil {
		return Status{}, err
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return Status{}, err
	}

	st := Status{Branch: "HEAD", Subject: Unknown, Author: Unknown}
	if head.Name().IsBranch() {
		st.Branch = head.Name().Short()
	}
	if subject, _, _ := strings.Cut(strings.TrimSpace(commit.Message), "\n"); subject != "" {
		st.Subject = subject
	}
	if commit.Author.Name != "" {
		st.Author = commit.Author.Name
	}
	return st, nil
}
