package config

import (
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Recognized configuration keys.
const (
	KeyExcludeFromBackup = "exclude_from_backup"
	KeyProtectedFiles    = "protected_files"
	KeyHooks             = "hooks"
	KeyDryRun            = "dry_run"
	KeyBackupPassword    = "backup_password"
)

// Keys lists every recognized top-level key in document order.
var Keys = []string{
	KeyExcludeFromBackup,
	KeyProtectedFiles,
	KeyHooks,
	KeyDryRun,
	KeyBackupPassword,
}

// EnvPrefix prefixes environment overrides, e.g. REPOKIT_DRY_RUN.
const EnvPrefix = "REPOKIT"

// Phase names a hook lifecycle phase.
type Phase string

// Hook phases, in the order refresh runs them.
const (
	PreUpdate  Phase = "pre_update"
	PostUpdate Phase = "post_update"
)

// Phases lists every hook phase.
var Phases = []Phase{PreUpdate, PostUpdate}

// MinPasswordLength is the shortest backup password accepted without a warning.
const MinPasswordLength = 4

// Config is the effective configuration. The zero value is not useful; start
// from Default or Load.
type Config struct {
	excludeFromBackup []string
	protectedFiles    []string
	hooks             map[Phase][]string
	dryRun            bool
	backupPassword    *string
	source            string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		excludeFromBackup: []string{"backup"},
		protectedFiles:    []string{".env"},
		hooks: map[Phase][]string{
			PreUpdate:  {},
			PostUpdate: {},
		},
	}
}

// ExcludeFromBackup returns the backup exclusion patterns.
func (c Config) ExcludeFromBackup() []string { return slices.Clone(c.excludeFromBackup) }

// ProtectedFiles returns the names that must stay in .gitignore.
func (c Config) ProtectedFiles() []string { return slices.Clone(c.protectedFiles) }

// Hooks returns the commands configured for phase.
func (c Config) Hooks(phase Phase) []string { return slices.Clone(c.hooks[phase]) }

// DryRun reports whether side effects are disabled.
func (c Config) DryRun() bool { return c.dryRun }

// BackupPassword returns the archive password and whether one is set.
func (c Config) BackupPassword() (string, bool) {
	if c.backupPassword == nil {
		return "", false
	}
	return *c.backupPassword, true
}

// Source is the file the configuration was read from, or "" for defaults.
func (c Config) Source() string { return c.source }

// WithDryRun returns a copy with dry-run set to v.
func (c Config) WithDryRun(v bool) Config {
	c.dryRun = v
	return c
}

// WithBackupPassword returns a copy with the password replaced.
func (c Config) WithBackupPassword(p string) Config {
	c.backupPassword = &p
	return c
}

// Settings returns the configuration as a document matching the file layout.
// The password is included as-is; callers that print it must mask it.
func (c Config) Settings() map[string]any {
	hooks := make(map[string]any, len(Phases))
	for _, p := range Phases {
		hooks[string(p)] = c.Hooks(p)
	}
	var password any
	if p, ok := c.BackupPassword(); ok {
		password = p
	}
	return map[string]any{
		KeyExcludeFromBackup: c.ExcludeFromBackup(),
		KeyProtectedFiles:    c.ProtectedFiles(),
		KeyHooks:             hooks,
		KeyDryRun:            c.dryRun,
		KeyBackupPassword:    password,
	}
}

// newViper returns an instance seeded with defaults and env bindings.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	def := Default()
	v.SetDefault(KeyExcludeFromBackup, def.excludeFromBackup)
	v.SetDefault(KeyProtectedFiles, def.protectedFiles)
	for _, p := range Phases {
		v.SetDefault(hookKey(p), def.hooks[p])
	}
	v.SetDefault(KeyDryRun, def.dryRun)

	_ = v.BindEnv(KeyDryRun)
	_ = v.BindEnv(KeyBackupPassword)
	return v
}

func hookKey(p Phase) string { return KeyHooks + "." + string(p) }
