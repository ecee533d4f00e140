package config

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/thoreinstein/repokit/internal/errors"
	"github.com/thoreinstein/repokit/internal/paths"
	"github.com/thoreinstein/repokit/pkg/fileutil"
)

// ErrConfigExists is returned by WriteDefault when the target already exists.
var ErrConfigExists = errors.New("config file already exists")

// Warning describes one problem found while loading. Key is empty for
// problems that concern the whole document.
type Warning struct {
	Key     string
	Message string
}

func (w Warning) String() string { return w.Message }

// Report describes how a Config was produced.
type Report struct {
	// Path is the file that was read, or the explicit path that was missing.
	Path string
	// Loaded is true when Path was parsed successfully.
	Loaded   bool
	Warnings []Warning
}

func (r *Report) warn(key, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{Key: key, Message: fmt.Sprintf(format, args...)})
}

// LoadOptions selects the file Load reads.
type LoadOptions struct {
	// Path is an explicit config file. When set no other location is tried.
	Path string
	// Dir is searched for refresh.config.json before the user-level file.
	// Defaults to the working directory.
	Dir string
}

// Load builds the effective configuration: defaults, overlaid by the valid
// parts of the config file, overlaid by REPOKIT_* environment variables.
// It never fails; see Report.Warnings for anything that was ignored.
func Load(opts LoadOptions) (Config, Report) {
	v := newViper()
	var rep Report

	path, found := resolvePath(opts)
	rep.Path = path
	switch {
	case !found && opts.Path != "":
		rep.warn("", "config file %s not found, using default values", opts.Path)
	case !found:
		rep.warn("", "no config found, using default values")
	default:
		if overlay, ok := readOverlay(path, &rep); ok {
			if err := v.MergeConfigMap(overlay); err != nil {
				rep.warn("", "failed to apply config: %v; using default values", err)
			} else {
				rep.Loaded = true
			}
		}
	}

	cfg := Config{
		excludeFromBackup: v.GetStringSlice(KeyExcludeFromBackup),
		protectedFiles:    v.GetStringSlice(KeyProtectedFiles),
		hooks:             make(map[Phase][]string, len(Phases)),
		dryRun:            v.GetBool(KeyDryRun),
	}
	for _, p := range Phases {
		cfg.hooks[p] = v.GetStringSlice(hookKey(p))
	}
	if v.IsSet(KeyBackupPassword) {
		pw := v.GetString(KeyBackupPassword)
		cfg.backupPassword = &pw
	}
	if rep.Loaded {
		cfg.source = path
	}

	if pw, ok := cfg.BackupPassword(); ok && pw != "" && len(pw) < MinPasswordLength {
		rep.warn(KeyBackupPassword, "backup password is very short; consider using a longer password")
	}
	return cfg, rep
}

func resolvePath(opts LoadOptions) (string, bool) {
	if opts.Path != "" {
		return opts.Path, fileExists(opts.Path)
	}
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	for _, candidate := range paths.ConfigCandidates(dir) {
		if fileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// readOverlay parses path and returns the subset of recognized keys whose
// values have the right type. Everything else becomes a warning.
func readOverlay(path string, rep *Report) (map[string]any, bool) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		rep.warn("", "failed to load config %s: %v; using default values", path, err)
		return nil, false
	}

	// Keys are matched exactly, so the document is decoded directly rather
	// than through viper, which folds keys to lower case.
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		rep.warn("", "failed to load config %s: %v; using default values", path, err)
		return nil, false
	}

	for _, key := range Keys {
		if _, ok := raw[key]; !ok {
			rep.warn(key, "missing config key '%s', using default", key)
		}
	}
	var unknown []string
	for key := range raw {
		if !slices.Contains(Keys, key) {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		warnUnknown(rep, key, key, Keys)
	}

	overlay := make(map[string]any)
	for _, key := range []string{KeyExcludeFromBackup, KeyProtectedFiles} {
		value, ok := raw[key]
		if !ok {
			continue
		}
		if list, ok := stringList(value); ok {
			overlay[key] = list
		} else {
			rep.warn(key, "config key '%s' must be a list of strings, using default", key)
		}
	}
	if value, ok := raw[KeyHooks]; ok {
		if hooks, ok := hooksOverlay(value, rep); ok {
			overlay[KeyHooks] = hooks
		}
	}
	if value, ok := raw[KeyDryRun]; ok {
		if b, ok := value.(bool); ok {
			overlay[KeyDryRun] = b
		} else {
			rep.warn(KeyDryRun, "config key '%s' must be true or false, using default", KeyDryRun)
		}
	}
	if value, ok := raw[KeyBackupPassword]; ok {
		switch pw := value.(type) {
		case nil:
		case string:
			overlay[KeyBackupPassword] = pw
		default:
			rep.warn(KeyBackupPassword, "config key '%s' must be a string or null, ignoring it", KeyBackupPassword)
		}
	}
	return overlay, true
}

func hooksOverlay(value any, rep *Report) (map[string]any, bool) {
	m, ok := value.(map[string]any)
	if !ok {
		rep.warn(KeyHooks, "config key '%s' must be an object of phase lists, using default", KeyHooks)
		return nil, false
	}

	phaseNames := make([]string, len(Phases))
	for i, p := range Phases {
		phaseNames[i] = string(p)
	}

	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]any)
	for _, name := range names {
		full := KeyHooks + "." + name
		if !slices.Contains(phaseNames, name) {
			warnUnknown(rep, full, name, phaseNames)
			continue
		}
		if list, ok := stringList(m[name]); ok {
			out[name] = list
		} else {
			rep.warn(full, "config key '%s' must be a list of strings, using default", full)
		}
	}
	return out, true
}

func warnUnknown(rep *Report, full, name string, candidates []string) {
	if s := Suggest(name, candidates); s != "" {
		rep.warn(full, "unknown config key '%s'. Did you mean '%s'?", full, s)
		return
	}
	rep.warn(full, "unknown config key '%s'", full)
}

// Suggest returns the candidate closest to key by edit distance, or "" when
// none is within max(2, len(key)/3) edits.
func Suggest(key string, candidates []string) string {
	limit := max(2, len(key)/3)
	best, bestDist := "", limit+1
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(key, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func stringList(value any) ([]string, bool) {
	switch list := value.(type) {
	case []string:
		return slices.Clone(list), true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// WriteDefault writes the default configuration to path. It refuses to
// overwrite an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if !force && fileExists(path) {
		return errors.Wrapf(ErrConfigExists, "%s", path)
	}
	if err := fileutil.AtomicWriteJSON(path, Default().Settings()); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}
