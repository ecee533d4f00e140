// Package launcher lists the CLI's runnable commands and starts one of them
// with a chosen set of boolean flags.
package launcher

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/thoreinstein/repokit/internal/errors"
	"github.com/thoreinstein/repokit/internal/runner"
)

// Sentinel errors.
var (
	ErrNoScripts = errors.New("no commands available")
	ErrAborted   = errors.New("selection aborted")
)

// Flag is a boolean option a Script accepts.
type Flag struct {
	Name  string // including the leading dashes
	Usage string
}

// Script describes one runnable command.
type Script struct {
	Name    string
	Path    []string // arguments that select the command, e.g. ["backup", "create"]
	Summary string
	Flags   []Flag
}

// Args returns the argument vector for running s with flags.
func (s Script) Args(flags []Flag) []string {
	args := slices.Clone(s.Path)
	for _, f := range flags {
		args = append(args, f.Name)
	}
	return args
}

// FromCommand collects every runnable, visible subcommand of root in
// declaration order. Commands named in exclude are left out along with
// their children.
func FromCommand(root *cobra.Command, exclude ...string) []Script {
	var scripts []Script
	var walk func(cmd *cobra.Command, path []string)
	walk = func(cmd *cobra.Command, path []string) {
		for _, sub := range cmd.Commands() {
			if sub.Hidden || !sub.IsAvailableCommand() || slices.Contains(exclude, sub.Name()) {
				continue
			}
			subPath := append(slices.Clone(path), sub.Name())
			if sub.Runnable() {
				scripts = append(scripts, Script{
					Name:    strings.Join(subPath, " "),
					Path:    subPath,
					Summary: sub.Short,
					Flags:   boolFlags(sub),
				})
			}
			walk(sub, subPath)
		}
	}
	walk(root, nil)
	return scripts
}

func boolFlags(cmd *cobra.Command) []Flag {
	var flags []Flag
	cmd.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Name == "help" || f.Value.Type() != "bool" {
			return
		}
		flags = append(flags, Flag{Name: "--" + f.Name, Usage: f.Usage})
	})
	return flags
}

// Picker asks the user for a script and its flags.
type Picker interface {
	PickScript(scripts []Script) (Script, error)
	PickFlags(script Script) ([]Flag, error)
}

// FuzzyPicker is a Picker backed by go-fuzzyfinder.
type FuzzyPicker struct{}

var _ Picker = FuzzyPicker{}

// PickScript shows scripts with a preview of their summary and flags.
func (FuzzyPicker) PickScript(scripts []Script) (Script, error) {
	if len(scripts) == 0 {
		return Script{}, ErrNoScripts
	}
	idx, err := fuzzyfinder.Find(
		scripts,
		func(i int) string { return scripts[i].Name },
		fuzzyfinder.WithPromptString("command > "),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return Preview(scripts[i])
		}),
	)
	if err != nil {
		return Script{}, abortErr(err)
	}
	return scripts[idx], nil
}

// PickFlags multi-selects flags with tab. Selecting none is valid.
func (FuzzyPicker) PickFlags(script Script) ([]Flag, error) {
	if len(script.Flags) == 0 {
		return nil, nil
	}
	idxs, err := fuzzyfinder.FindMulti(
		script.Flags,
		func(i int) string { return script.Flags[i].Name },
		fuzzyfinder.WithPromptString("flags (tab to toggle) > "),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return script.Flags[i].Usage
		}),
	)
	if err != nil {
		return nil, abortErr(err)
	}
	slices.Sort(idxs)
	flags := make([]Flag, 0, len(idxs))
	for _, i := range idxs {
		flags = append(flags, script.Flags[i])
	}
	return flags, nil
}

func abortErr(err error) error {
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return ErrAborted
	}
	return errors.Wrap(err, "interactive selection failed")
}

// Preview renders the summary and flags of s.
func Preview(s Script) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n%s\n", s.Name, s.Summary)
	if len(s.Flags) > 0 {
		b.WriteString("\nFlags:\n")
		for _, f := range s.Flags {
			fmt.Fprintf(&b, "  %-16s %s\n", f.Name, f.Usage)
		}
	}
	return b.String()
}

// Launcher starts a chosen script as a child process of exe.
type Launcher struct {
	exe    string
	run    runner.Runner
	picker Picker
}

// New returns a Launcher that runs exe through run.
func New(exe string, run runner.Runner, picker Picker) *Launcher {
	return &Launcher{exe: exe, run: run, picker: picker}
}

// Select asks the picker for a script and flags.
func (l *Launcher) Select(scripts []Script) (Script, []Flag, error) {
	if len(scripts) == 0 {
		return Script{}, nil, ErrNoScripts
	}
	script, err := l.picker.PickScript(scripts)
	if err != nil {
		return Script{}, nil, err
	}
	flags, err := l.picker.PickFlags(script)
	if err != nil {
		return Script{}, nil, err
	}
	return script, flags, nil
}

// Command returns the command Launch would run.
func (l *Launcher) Command(script Script, flags []Flag) runner.Command {
	return runner.Cmd(l.exe, script.Args(flags)...).Streaming()
}

// Launch runs script with flags, streaming its output.
func (l *Launcher) Launch(ctx context.Context, script Script, flags []Flag) runner.Result {
	return l.run.Run(ctx, l.Command(script, flags))
}
