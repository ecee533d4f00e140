// Package runner executes external commands and shell snippets.
//
// Every process repokit starts goes through a [Runner]. The production
// implementation, [Exec], runs programs with os/exec; [Shell] runs
// user-supplied command strings (hooks) with the mvdan.cc/sh interpreter so
// no system shell is needed.
//
// Both honor dry-run: the command is announced as "[dry-run] <cmd>" on the
// console and a Skipped [Result] is returned without starting anything.
// Commands marked ReadOnly still run in dry-run, since they only query
// state.
//
// Failures are data, not control flow. A [Result] carries the exit code,
// captured output and error, and callers collect them into [Step] reports.
package runner
