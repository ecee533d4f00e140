package doctor

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/repokit/internal/config"
	"github.com/thoreinstein/repokit/internal/git"
	"github.com/thoreinstein/repokit/internal/ignore"
	"github.com/thoreinstein/repokit/internal/paths"
	"github.com/thoreinstein/repokit/internal/redact"
)

// GitRepositoryCheckName names the GitRepositoryCheck result.
const GitRepositoryCheckName = "git-repository"

// GitRepositoryCheck verifies the project directory is a git working copy.
type GitRepositoryCheck struct {
	dir string
}

var _ Check = (*GitRepositoryCheck)(nil)

// NewGitRepositoryCheck creates a check for dir.
func NewGitRepositoryCheck(dir string) *GitRepositoryCheck {
	return &GitRepositoryCheck{dir: dir}
}

// Name returns the unique identifier for this check.
func (c *GitRepositoryCheck) Name() string { return GitRepositoryCheckName }

// Category returns the grouping for this check.
func (c *GitRepositoryCheck) Category() string { return "git" }

// Run executes the check.
func (c *GitRepositoryCheck) Run() *CheckResult {
	if err := git.ValidateRepository(c.dir); err != nil {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  err.Error(),
			Details:  map[string]any{"dir": c.dir},
			FixHint:  "run repokit from the root of a git working copy",
		}
	}
	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  "git repository found",
	}
}

// GitBinaryCheck verifies the git executable is on PATH.
type GitBinaryCheck struct {
	lookPath func(string) (string, error)
}

var _ Check = (*GitBinaryCheck)(nil)

// NewGitBinaryCheck creates a check that searches PATH.
func NewGitBinaryCheck() *GitBinaryCheck {
	return &GitBinaryCheck{lookPath: exec.LookPath}
}

// Name returns the unique identifier for this check.
func (c *GitBinaryCheck) Name() string { return "git-binary" }

// Category returns the grouping for this check.
func (c *GitBinaryCheck) Category() string { return "git" }

// Run executes the check.
func (c *GitBinaryCheck) Run() *CheckResult {
	path, err := c.lookPath("git")
	if err != nil {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  "git executable not found on PATH",
			FixHint:  "install git and make sure it is on PATH",
		}
	}
	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  "git found at " + path,
		Details:  map[string]any{"path": path},
	}
}

// ProtectedFilesCheck verifies every protected file is listed in .gitignore.
// It can append the missing entries.
type ProtectedFilesCheck struct {
	dir       string
	protected []string
	missing   []string
}

var (
	_ Check = (*ProtectedFilesCheck)(nil)
	_ Fixer = (*ProtectedFilesCheck)(nil)
)

// NewProtectedFilesCheck creates a check for the protected files of dir.
func NewProtectedFilesCheck(dir string, protected []string) *ProtectedFilesCheck {
	return &ProtectedFilesCheck{dir: dir, protected: protected}
}

// Name returns the unique identifier for this check.
func (c *ProtectedFilesCheck) Name() string { return "protected-files" }

// Category returns the grouping for this check.
func (c *ProtectedFilesCheck) Category() string { return "git" }

// Run executes the check.
func (c *ProtectedFilesCheck) Run() *CheckResult {
	missing, err := ignore.Missing(c.dir, c.protected)
	if err != nil {
		c.missing = nil
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  fmt.Sprintf("cannot read .gitignore: %v", err),
		}
	}
	c.missing = missing

	if len(missing) == 0 {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityPass,
			Message:  fmt.Sprintf("all %d protected files are ignored", len(c.protected)),
		}
	}
	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityWarning,
		Message:  "protected files not in .gitignore: " + strings.Join(missing, ", "),
		Details:  map[string]any{"missing": missing},
		Fixable:  true,
		FixHint:  "run 'repokit doctor --fix' or 'repokit refresh' to append them",
	}
}

// CanFix returns true if the last Run found missing entries.
func (c *ProtectedFilesCheck) CanFix() bool { return len(c.missing) > 0 }

// Fix appends the missing entries to .gitignore.
func (c *ProtectedFilesCheck) Fix() []FixResult {
	path := filepath.Join(c.dir, paths.GitIgnoreFile)
	added, err := ignore.Ensure(c.dir, c.protected, false)
	if err != nil {
		return []FixResult{{
			Path:        path,
			Description: fmt.Sprintf("failed to update .gitignore: %v", err),
			Error:       err,
		}}
	}
	c.missing = nil
	results := make([]FixResult, 0, len(added))
	for _, entry := range added {
		results = append(results, FixResult{
			Path:        path,
			Fixed:       true,
			Description: "added " + entry,
		})
	}
	return results
}

// ConfigCheck reports the outcome of configuration loading.
type ConfigCheck struct {
	cfg    config.Config
	report config.Report
}

var _ Check = (*ConfigCheck)(nil)

// NewConfigCheck creates a check from a completed load.
func NewConfigCheck(cfg config.Config, report config.Report) *ConfigCheck {
	return &ConfigCheck{cfg: cfg, report: report}
}

// Name returns the unique identifier for this check.
func (c *ConfigCheck) Name() string { return "config" }

// Category returns the grouping for this check.
func (c *ConfigCheck) Category() string { return "config" }

// Run executes the check.
func (c *ConfigCheck) Run() *CheckResult {
	details := map[string]any{"settings": maskSettings(c.cfg.Settings())}
	if c.report.Path != "" {
		details["path"] = c.report.Path
	}

	if len(c.report.Warnings) == 0 {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityPass,
			Message:  "configuration loaded from " + c.report.Path,
			Details:  details,
		}
	}

	msgs := make([]string, 0, len(c.report.Warnings))
	for _, w := range c.report.Warnings {
		msgs = append(msgs, w.Message)
	}
	details["warnings"] = msgs

	status := SeverityWarning
	hint := "fix the reported keys in " + c.report.Path
	if !c.report.Loaded {
		status = SeverityInfo
		hint = "run 'repokit config init' to create a config file"
	}
	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   status,
		Message:  fmt.Sprintf("%d configuration warning(s)", len(msgs)),
		Details:  details,
		FixHint:  hint,
	}
}

// maskSettings masks secret-looking values in a settings document.
func maskSettings(settings map[string]any) map[string]any {
	out := make(map[string]any, len(settings))
	for k, v := range settings {
		s, ok := v.(string)
		if ok && (redact.ShouldMask(k) || redact.ContainsTokenPrefix(s)) {
			out[k] = redact.MaskValue(s)
			continue
		}
		out[k] = v
	}
	return out
}
