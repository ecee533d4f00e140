// Package deps detects and runs project dependency installers.
package deps

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/thoreinstein/repokit/internal/logging"
	"github.com/thoreinstein/repokit/internal/runner"
)

// Installer is one detected install command.
type Installer struct {
	// Ecosystem is "node" or "python".
	Ecosystem string
	// Marker is the file that triggered detection.
	Marker  string
	Command runner.Command
}

// Detect returns the installers for the lock and manifest files in dir, in
// this order:
//
//	package-lock.json   npm ci
//	package.json        npm install (only without a lock file)
//	poetry.lock         poetry install
//	Pipfile.lock        pipenv install
//	requirements*.txt   pip install -r <file>, sorted by name
//
// Ecosystems are independent; a repository can trigger several.
func Detect(dir string) ([]Installer, error) {
	var found []Installer
	add := func(eco, marker, name string, args ...string) {
		found = append(found, Installer{
			Ecosystem: eco,
			Marker:    marker,
			Command:   runner.Cmd(name, args...).In(dir),
		})
	}

	switch {
	case isFile(filepath.Join(dir, "package-lock.json")):
		add("node", "package-lock.json", "npm", "ci")
	case isFile(filepath.Join(dir, "package.json")):
		add("node", "package.json", "npm", "install")
	}
	if isFile(filepath.Join(dir, "poetry.lock")) {
		add("python", "poetry.lock", "poetry", "install")
	}
	if isFile(filepath.Join(dir, "Pipfile.lock")) {
		add("python", "Pipfile.lock", "pipenv", "install")
	}

	reqs, err := filepath.Glob(filepath.Join(dir, "requirements*.txt"))
	if err != nil {
		return nil, err
	}
	sort.Strings(reqs)
	for _, req := range reqs {
		if !isFile(req) {
			continue
		}
		name := filepath.Base(req)
		add("python", name, "pip", "install", "-r", name)
	}
	return found, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Install runs every detected installer through run. Failures are logged
// and recorded; the remaining installers still run.
func Install(ctx context.Context, run runner.Runner, dir string, logger *slog.Logger) (runner.Report, error) {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	installers, err := Detect(dir)
	if err != nil {
		return runner.Report{}, err
	}
	if len(installers) == 0 {
		logger.Info("no dependency manifests found", "dir", dir)
	}

	var report runner.Report
	for _, in := range installers {
		if ctx.Err() != nil {
			break
		}
		res := run.Run(ctx, in.Command)
		if !res.OK() {
			logger.Warn("dependency install failed", "cmd", res.Command, "marker", in.Marker, "exit", res.ExitCode)
		}
		report.Add(in.Command.String(), res)
	}
	return report, nil
}
