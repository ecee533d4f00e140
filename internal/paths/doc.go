// Package paths resolves the filesystem locations repokit reads and writes.
//
// Per-project files live in the working directory:
//
//	refresh.config.json   project configuration
//	.backup/              backup archives and their .hash sidecars
//
// The user-level configuration lives under the XDG config home, resolved
// through github.com/adrg/xdg:
//
//	paths.ConfigFile() // ~/.config/repokit/config.json on Linux
//
// REPOKIT_CONFIG_DIR overrides the user-level directory.
package paths
