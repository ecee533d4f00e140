package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/repokit/internal/doctor"
	"github.com/thoreinstein/repokit/internal/errors"
	"github.com/thoreinstein/repokit/internal/paths"
)

var (
	doctorJSON bool
	doctorAll  bool
	doctorFix  bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorAll, "all", false,
		"show every check including passed ones")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"repair fixable issues, then check again")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose repository and configuration issues",
	Long: `Run diagnostic checks on the current project.

Checks that the directory is a git working copy, that git is on PATH, that
protected files are ignored, that the configuration loads cleanly and that
backups are private to the current user.

Output modes:
  (default)   Show errors and warnings
  --all       Show all checks including passed ones
  --json      Machine-readable JSON output
  -q          No output, exit code only

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	Example: `  # Check the current project
  repokit doctor

  # Fix .gitignore entries and backup permissions
  repokit doctor --fix

  See Also: repokit config show`,
	Args: cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if doctorJSON && doctorAll {
			return errors.NewUserError(errors.New("flags --json and --all are mutually exclusive"), "")
		}
		return nil
	},
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	dir, err := workDir()
	if err != nil {
		return err
	}
	cfg, cfgReport := loadConfig(cmd.Context())

	runner := doctor.NewRunner(
		doctor.NewGitRepositoryCheck(dir),
		doctor.NewGitBinaryCheck(),
		doctor.NewProtectedFilesCheck(dir, cfg.ProtectedFiles()),
		doctor.NewConfigCheck(cfg, cfgReport),
		doctor.NewBackupPermissionCheck(filepath.Join(dir, paths.BackupDir)),
	)
	report := runner.Run()

	w := cmd.OutOrStdout()
	if doctorFix {
		fixes := runner.Fix()
		if !quiet && !doctorJSON {
			outputFixResults(w, fixes)
		}
		if len(fixes) > 0 {
			report = runner.Run()
		}
	}

	if err := outputDoctorReport(w, report); err != nil {
		return err
	}

	// Determine exit code based on results
	if report.HasErrors() {
		return errors.NewExitError(errDoctorErrors, errors.ExitSystem)
	}
	if report.HasWarnings() {
		return errors.NewExitError(errDoctorWarnings, errors.ExitUser)
	}
	return nil
}

func outputDoctorReport(w io.Writer, report *doctor.Report) error {
	if quiet {
		return nil
	}
	if doctorJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, "encoding JSON")
		}
		return nil
	}
	outputDoctorText(w, report)
	return nil
}

func outputDoctorText(w io.Writer, report *doctor.Report) {
	hasOutput := false
	for _, result := range report.Results {
		problem := result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning
		if !doctorAll && !problem {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)
		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func outputFixResults(w io.Writer, fixes []doctor.FixResult) {
	for _, f := range fixes {
		if f.Fixed {
			fmt.Fprintf(w, "✓ fixed %s: %s\n", f.Path, f.Description)
			continue
		}
		fmt.Fprintf(w, "✗ could not fix %s: %s\n", f.Path, f.Description)
	}
	if len(fixes) > 0 {
		fmt.Fprintln(w)
	}
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return "✓"
	case doctor.SeverityInfo:
		return "ℹ"
	case doctor.SeverityWarning:
		return "⚠"
	case doctor.SeverityError:
		return "✗"
	default:
		return "?"
	}
}

// errDoctorWarnings is returned with exit code 1.
var errDoctorWarnings = errors.New("warnings found")

// errDoctorErrors is returned with exit code 2.
var errDoctorErrors = errors.New("errors found")
