package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/thoreinstein/repokit/internal/backup"
)

// Target permissions for the backup directory and its files. Archives may
// hold secrets, so nothing is group or world accessible.
const (
	secureBackupDirPerm  os.FileMode = 0o700
	secureBackupFilePerm os.FileMode = 0o600
)

// BackupPermissionCheck validates the backup directory and its archives are
// private to the current user.
type BackupPermissionCheck struct {
	PermissionFixer

	dir string
}

var (
	_ Check = (*BackupPermissionCheck)(nil)
	_ Fixer = (*BackupPermissionCheck)(nil)
)

// NewBackupPermissionCheck creates a check for the backup directory dir.
func NewBackupPermissionCheck(dir string) *BackupPermissionCheck {
	return &BackupPermissionCheck{dir: dir}
}

// Name returns the unique identifier for this check.
func (c *BackupPermissionCheck) Name() string { return "backup-permissions" }

// Category returns the grouping for this check.
func (c *BackupPermissionCheck) Category() string { return "backup" }

// pathIssue represents a single path or permission problem.
type pathIssue struct {
	Path        string
	Type        string // "file" or "directory"
	Problem     string
	Severity    Severity
	Permissions string
	Fixable     bool
	FixHint     string
}

// Run executes the check.
func (c *BackupPermissionCheck) Run() *CheckResult {
	c.setIssues(nil)

	info, err := os.Stat(c.dir)
	if os.IsNotExist(err) {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityInfo,
			Message:  "no backup directory yet",
			Details:  map[string]any{"dir": c.dir},
		}
	}
	if err != nil {
		return c.buildResult([]pathIssue{{
			Path:     c.dir,
			Type:     "directory",
			Problem:  fmt.Sprintf("cannot stat directory: %v", err),
			Severity: SeverityError,
		}}, 1)
	}
	if !info.IsDir() {
		return c.buildResult([]pathIssue{{
			Path:     c.dir,
			Type:     "directory",
			Problem:  "expected directory but found file",
			Severity: SeverityError,
		}}, 1)
	}

	issues := c.checkDirectory(info.Mode())
	checked := 1

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		issues = append(issues, pathIssue{
			Path:     c.dir,
			Type:     "directory",
			Problem:  fmt.Sprintf("cannot read directory: %v", err),
			Severity: SeverityError,
		})
	}
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || !isBackupFile(name) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		checked++
		issues = append(issues, c.checkFile(filepath.Join(c.dir, name), fi.Mode())...)
	}

	c.setIssues(issues)
	return c.buildResult(issues, checked)
}

func isBackupFile(name string) bool {
	return backup.IsArtifactName(name)
}

func (c *BackupPermissionCheck) checkDirectory(mode os.FileMode) []pathIssue {
	var issues []pathIssue

	if !isDirectoryWritable(c.dir) {
		issues = append(issues, pathIssue{
			Path:        c.dir,
			Type:        "directory",
			Problem:     "directory is not writable",
			Severity:    SeverityWarning,
			Permissions: formatPermissions(mode),
			FixHint:     "chmod u+w " + c.dir,
		})
	}

	// Unix permissions don't apply on Windows.
	if runtime.GOOS == "windows" {
		return issues
	}
	if mode.Perm()&0o077 != 0 {
		issues = append(issues, pathIssue{
			Path:        c.dir,
			Type:        "directory",
			Problem:     fmt.Sprintf("directory is accessible by other users (mode %s, expected %s)", formatPermissions(mode), formatPermissions(secureBackupDirPerm)),
			Severity:    SeverityWarning,
			Permissions: formatPermissions(mode),
			Fixable:     true,
			FixHint:     "chmod 700 " + c.dir,
		})
	}
	return issues
}

func (c *BackupPermissionCheck) checkFile(path string, mode os.FileMode) []pathIssue {
	if runtime.GOOS == "windows" || mode.Perm()&0o077 == 0 {
		return nil
	}
	problem := "file is readable by other users"
	if mode.Perm()&0o002 != 0 {
		problem = "file is world-writable (security risk)"
	}
	return []pathIssue{{
		Path:        path,
		Type:        "file",
		Problem:     fmt.Sprintf("%s (mode %s, expected %s)", problem, formatPermissions(mode), formatPermissions(secureBackupFilePerm)),
		Severity:    SeverityWarning,
		Permissions: formatPermissions(mode),
		Fixable:     true,
		FixHint:     "chmod 600 " + path,
	}}
}

// isDirectoryWritable tests if a directory is writable by creating a temp file.
func isDirectoryWritable(path string) bool {
	tmpFile, err := os.CreateTemp(path, ".repokit-doctor-*")
	if err != nil {
		return false
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	os.Remove(tmpPath)
	return true
}

// buildResult constructs the final CheckResult from accumulated issues.
func (c *BackupPermissionCheck) buildResult(issues []pathIssue, checked int) *CheckResult {
	if len(issues) == 0 {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityPass,
			Message:  fmt.Sprintf("all %d backup paths are private", checked),
		}
	}

	highest := SeverityPass
	for _, issue := range issues {
		if issue.Severity > highest {
			highest = issue.Severity
		}
	}

	issueDetails := make([]map[string]any, 0, len(issues))
	var fixable bool
	var fixHints []string
	for _, issue := range issues {
		m := map[string]any{
			"path":     issue.Path,
			"type":     issue.Type,
			"problem":  issue.Problem,
			"severity": issue.Severity.String(),
		}
		if issue.Permissions != "" {
			m["permissions"] = issue.Permissions
		}
		if issue.FixHint != "" {
			m["fix_hint"] = issue.FixHint
		}
		issueDetails = append(issueDetails, m)

		if issue.Fixable {
			fixable = true
			if issue.FixHint != "" {
				fixHints = append(fixHints, issue.FixHint)
			}
		}
	}

	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   highest,
		Message:  fmt.Sprintf("found %d permission issue(s) across %d paths", len(issues), checked),
		Details: map[string]any{
			"checked_paths": checked,
			"issue_count":   len(issues),
			"issues":        issueDetails,
		},
		Fixable: fixable,
	}
	if len(fixHints) > 0 {
		result.FixHint = strings.Join(fixHints, "; ")
	}
	return result
}

// formatPermissions returns a human-readable permission string (e.g., "0600").
func formatPermissions(mode os.FileMode) string {
	return fmt.Sprintf("%04o", mode.Perm())
}
