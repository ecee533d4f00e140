package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName names the per-user config directory.
const AppName = "repokit"

const (
	// ProjectConfigFile is looked up in the working directory first.
	ProjectConfigFile = "refresh.config.json"
	// UserConfigFile is the file name inside ConfigDir.
	UserConfigFile = "config.json"
	// BackupDir is the default archive directory, relative to the repo root.
	BackupDir = ".backup"
	// GitIgnoreFile is the ignore file maintained for protected files.
	GitIgnoreFile = ".gitignore"
)

// configDirEnv overrides ConfigDir when set.
const configDirEnv = "REPOKIT_CONFIG_DIR"

// ErrHomeDirNotFound indicates the user's home directory could not be determined.
var ErrHomeDirNotFound = errors.New("home directory not found")

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used. Existing directories are left alone.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// ConfigDir returns repokit's user-level config directory.
func ConfigDir() string {
	if dir := os.Getenv(configDirEnv); dir != "" {
		return dir
	}
	return filepath.Join(ConfigHome(), AppName)
}

// ConfigFile returns the user-level config file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), UserConfigFile)
}

// ProjectConfig returns the project config path inside dir.
func ProjectConfig(dir string) string {
	return filepath.Join(dir, ProjectConfigFile)
}

// ConfigCandidates lists the config files tried in order when no explicit
// path is given: the project file in dir, then the user-level file.
func ConfigCandidates(dir string) []string {
	return []string{ProjectConfig(dir), ConfigFile()}
}
