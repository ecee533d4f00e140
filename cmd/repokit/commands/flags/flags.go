// Package flags provides shared flag accessors for CLI commands.
// This package exists to avoid import cycles between the root command
// and noun subpackages (backup).
package flags

var (
	configPath string
	quiet      bool
)

// ConfigPath returns the value of the --config flag.
func ConfigPath() string {
	return configPath
}

// SetConfigPath sets the config path flag value.
func SetConfigPath(path string) {
	configPath = path
}

// Quiet reports whether -q/--quiet was given.
func Quiet() bool {
	return quiet
}

// SetQuiet sets the quiet flag value.
func SetQuiet(v bool) {
	quiet = v
}
