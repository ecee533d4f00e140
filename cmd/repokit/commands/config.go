package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/repokit/internal/config"
	"github.com/thoreinstein/repokit/internal/editor"
	"github.com/thoreinstein/repokit/internal/errors"
	"github.com/thoreinstein/repokit/internal/paths"
	"github.com/thoreinstein/repokit/internal/redact"
)

var (
	configInitForce bool
	configInitUser  bool
)

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")
	configInitCmd.Flags().BoolVar(&configInitUser, "user", false, "write the user config instead of ./refresh.config.json")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage repokit configuration",
	Long: `Manage the refresh configuration.

repokit reads refresh.config.json in the working directory, then the user
config. --config selects a file explicitly. REPOKIT_* environment variables
override file values, e.g. REPOKIT_DRY_RUN=true.

Without a subcommand, shows the effective configuration.`,
	Example: `  # Show the effective configuration
  repokit config

  # Create refresh.config.json with the defaults
  repokit config init

See Also: repokit doctor`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Print the effective configuration as JSON, followed by any warnings
raised while loading it. The backup password is masked.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write the default configuration to ./refresh.config.json, or to the
user config with --user. An existing file is kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open configuration in $EDITOR",
	Long: `Open the configuration file in your default editor.

Uses $EDITOR or $VISUAL, falling back to nano or vi. If no configuration
file exists, prints an error suggesting 'repokit config init'.`,
	Example: `  # Open config in default editor
  repokit config edit

  # Open with specific editor
  EDITOR=nano repokit config edit`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, report := config.Load(config.LoadOptions{Path: configPath})

	settings := cfg.Settings()
	if pw, ok := cfg.BackupPassword(); ok {
		settings[config.KeyBackupPassword] = redact.MaskValue(pw)
	}

	w := cmd.OutOrStdout()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(settings); err != nil {
		return errors.Wrap(err, "encoding configuration")
	}

	source := cfg.Source()
	if source == "" {
		source = "defaults"
	}
	fmt.Fprintf(w, "\nsource: %s\n", source)
	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning.Message)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path, err := initPath()
	if err != nil {
		return err
	}
	if configInitUser {
		if err := paths.EnsureDir(paths.ConfigDir(), paths.DefaultDirPerm); err != nil {
			return errors.Wrap(err, "creating config directory")
		}
	}
	if err := config.WriteDefault(path, configInitForce); err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			return errors.NewUserError(err, "use --force to overwrite it")
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ wrote %s\n", path)
	return nil
}

func initPath() (string, error) {
	switch {
	case configPath != "":
		return configPath, nil
	case configInitUser:
		return paths.ConfigFile(), nil
	default:
		dir, err := workDir()
		if err != nil {
			return "", err
		}
		return paths.ProjectConfig(dir), nil
	}
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	_, report := config.Load(config.LoadOptions{Path: configPath})
	if _, err := os.Stat(report.Path); report.Path == "" || err != nil {
		return errors.NewUserError(errors.Wrap(errors.ErrNotFound, "no configuration file"),
			"Run 'repokit config init' to create one")
	}
	return editor.Open(cmd.Context(), cmd.OutOrStdout(), report.Path)
}
