package backup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/yeka/zip"

	"github.com/thoreinstein/repokit/internal/config"
	"github.com/thoreinstein/repokit/internal/errors"
	"github.com/thoreinstein/repokit/internal/logging"
	"github.com/thoreinstein/repokit/internal/paths"
	"github.com/thoreinstein/repokit/pkg/fileutil"
)

// Manager creates and maintains snapshots of a single project root.
type Manager struct {
	root      string
	outputDir string
	excludes  []string
	password  string
	dryRun    bool
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithOutputDir sets the snapshot directory. Relative paths resolve against
// the project root.
func WithOutputDir(dir string) Option {
	return func(m *Manager) {
		if dir != "" {
			m.outputDir = dir
		}
	}
}

// WithExcludes sets the exclusion patterns. Each pattern excludes every
// relative path it prefixes, with shell-style wildcards.
func WithExcludes(patterns []string) Option {
	return func(m *Manager) {
		m.excludes = slices.Clone(patterns)
	}
}

// WithPassword enables AES-256 encryption. An empty password disables it.
func WithPassword(password string) Option {
	return func(m *Manager) {
		m.password = password
	}
}

// WithDryRun makes Create compute the snapshot without writing anything.
func WithDryRun(dryRun bool) Option {
	return func(m *Manager) {
		m.dryRun = dryRun
	}
}

// WithClock sets the time source used for snapshot IDs.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager returns a Manager for the project at root.
func NewManager(root string, opts ...Option) *Manager {
	m := &Manager{
		root:      root,
		outputDir: paths.BackupDir,
		now:       time.Now,
		logger:    logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OutputDir returns the absolute snapshot directory.
func (m *Manager) OutputDir() string {
	dir := m.outputDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(m.root, dir)
	}
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return filepath.Clean(dir)
}

// Create snapshots every regular file under the root that is neither
// excluded nor inside the output directory.
func (m *Manager) Create(ctx context.Context) (*Artifact, error) {
	if m.password != "" && len(m.password) < config.MinPasswordLength {
		m.logger.Warn("backup password is very short; consider using a longer password")
	}

	matchers, err := compileExcludes(m.excludes)
	if err != nil {
		return nil, err
	}

	members, err := m.collect(ctx, matchers)
	if err != nil {
		return nil, err
	}

	outDir := m.OutputDir()
	id := m.nextID(outDir)
	art := &Artifact{
		ID:          id,
		ArchivePath: filepath.Join(outDir, ArchiveName(id)),
		HashPath:    filepath.Join(outDir, HashName(id)),
		CreatedAt:   m.now(),
		Encrypted:   m.password != "",
		Members:     members,
	}

	if m.dryRun {
		art.Planned = true
		m.logger.Info("backup planned", "archive", art.ArchivePath, "files", len(members))
		return art, nil
	}

	if err := paths.EnsureDir(outDir, 0); err != nil {
		return nil, errors.Wrap(err, "creating backup directory")
	}

	h := sha256.New()
	err = fileutil.AtomicWriteFunc(art.ArchivePath, 0o600, func(w io.Writer) error {
		return m.writeArchive(ctx, io.MultiWriter(w, h), members)
	})
	if err != nil {
		return nil, errors.Wrap(err, "writing backup archive")
	}
	art.Hash = hex.EncodeToString(h.Sum(nil))

	if err := fileutil.AtomicWriteFile(art.HashPath, []byte(art.Hash), 0o600); err != nil {
		if rmErr := os.Remove(art.ArchivePath); rmErr != nil {
			m.logger.Warn("failed to remove archive without checksum", "path", art.ArchivePath, "error", rmErr)
		}
		return nil, errors.Wrap(err, "writing backup checksum")
	}
	art.HasChecksum = true

	if info, err := os.Stat(art.ArchivePath); err == nil {
		art.Size = info.Size()
	}

	m.logger.Info("backup created", "archive", art.ArchivePath, "files", len(members), "encrypted", art.Encrypted)
	return art, nil
}

// collect walks the root and returns slash-separated member paths.
func (m *Manager) collect(ctx context.Context, matchers []glob.Glob) ([]string, error) {
	root, err := filepath.Abs(m.root)
	if err != nil {
		return nil, errors.Wrap(err, "resolving project root")
	}
	outDir := m.OutputDir()

	var members []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			// Patterns end in "*", so a matching directory excludes its whole subtree.
			if path == outDir || excluded(matchers, rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			m.logger.Debug("skipping non-regular file", "path", rel)
			return nil
		}
		if excluded(matchers, rel) {
			m.logger.Debug("excluding file", "path", rel)
			return nil
		}
		members = append(members, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "scanning project files")
	}
	return members, nil
}

func (m *Manager) writeArchive(ctx context.Context, w io.Writer, members []string) error {
	zw := zip.NewWriter(w)
	for _, name := range members {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.addMember(zw, name); err != nil {
			return errors.Wrapf(err, "adding %s", name)
		}
	}
	return zw.Close()
}

func (m *Manager) addMember(zw *zip.Writer, name string) error {
	f, err := os.Open(filepath.Join(m.root, filepath.FromSlash(name)))
	if err != nil {
		return err
	}
	defer f.Close()

	var dst io.Writer
	if m.password != "" {
		dst, err = zw.Encrypt(name, m.password, zip.AES256Encryption)
	} else {
		info, statErr := f.Stat()
		if statErr != nil {
			return statErr
		}
		fh, hdrErr := zip.FileInfoHeader(info)
		if hdrErr != nil {
			return hdrErr
		}
		fh.Name = name
		fh.Method = zip.Deflate
		dst, err = zw.CreateHeader(fh)
	}
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, f)
	return err
}

// nextID returns a timestamp ID not yet used in dir.
func (m *Manager) nextID(dir string) string {
	base := m.now().Format(IDFormat)
	id := base
	for seq := 2; taken(dir, id); seq++ {
		id = base + "-" + strconv.Itoa(seq)
	}
	return id
}

func taken(dir, id string) bool {
	for _, name := range []string{ArchiveName(id), HashName(id)} {
		if _, err := os.Lstat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// List returns all snapshots in the output directory, newest first.
func (m *Manager) List() ([]Artifact, error) {
	dir := m.OutputDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoBackupsFound
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	type sortable struct {
		Artifact
		seq int
	}
	var found []sortable
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		id, ok := idFromArchive(entry.Name())
		if !ok {
			continue
		}
		ts, seq, _ := parseID(id)
		art := Artifact{
			ID:          id,
			ArchivePath: filepath.Join(dir, entry.Name()),
			HashPath:    filepath.Join(dir, HashName(id)),
			CreatedAt:   ts,
		}
		if info, err := entry.Info(); err == nil {
			art.Size = info.Size()
		}
		if data, err := os.ReadFile(art.HashPath); err == nil {
			art.HasChecksum = true
			art.Hash = strings.TrimSpace(string(data))
		}
		found = append(found, sortable{Artifact: art, seq: seq})
	}

	if len(found) == 0 {
		return nil, ErrNoBackupsFound
	}

	slices.SortFunc(found, func(a, b sortable) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return b.seq - a.seq
	})

	out := make([]Artifact, len(found))
	for i, s := range found {
		out[i] = s.Artifact
	}
	return out, nil
}

// Verify recomputes the archive hash of id and compares it to its hash file.
func (m *Manager) Verify(id string) error {
	if id == "" {
		return errors.New("backup ID is required")
	}
	dir := m.OutputDir()
	archive := filepath.Join(dir, ArchiveName(id))

	actual, err := hashFile(archive)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return errors.Wrapf(ErrBackupNotFound, "backup %s", id)
		}
		return err
	}

	data, err := os.ReadFile(filepath.Join(dir, HashName(id)))
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrMissingChecksum, "backup %s", id)
		}
		return errors.Wrap(err, "reading checksum")
	}

	if strings.TrimSpace(string(data)) != actual {
		return errors.Wrapf(ErrChecksumMismatch, "backup %s", id)
	}
	return nil
}

// Prune removes snapshots beyond the keep most recent ones and returns the
// removed artifacts.
func (m *Manager) Prune(keep int) ([]Artifact, error) {
	if keep < 0 {
		return nil, errors.New("keep must be non-negative")
	}

	arts, err := m.List()
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return nil, nil
		}
		return nil, err
	}
	if len(arts) <= keep {
		return nil, nil
	}

	// Already sorted newest first.
	removed := arts[keep:]
	for _, a := range removed {
		if err := os.Remove(a.ArchivePath); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "removing backup %s", a.ID)
		}
		if err := os.Remove(a.HashPath); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "removing checksum %s", a.ID)
		}
		m.logger.Debug("pruned backup", "id", a.ID)
	}
	return removed, nil
}

// Members returns the entry names of snapshot id. Encrypted entries are
// fully read with password so a wrong password is reported.
func (m *Manager) Members(id, password string) ([]string, error) {
	rc, err := zip.OpenReader(filepath.Join(m.OutputDir(), ArchiveName(id)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrBackupNotFound, "backup %s", id)
		}
		return nil, errors.Wrap(err, "opening archive")
	}
	defer rc.Close()

	names := make([]string, 0, len(rc.File))
	for _, f := range rc.File {
		if f.IsEncrypted() {
			if password == "" {
				return nil, ErrPasswordRequired
			}
			f.SetPassword(password)
			if err := drain(f); err != nil {
				return nil, errors.Wrapf(err, "reading %s", f.Name)
			}
		}
		names = append(names, f.Name)
	}
	return names, nil
}

func drain(f *zip.File) error {
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	_, err = io.Copy(io.Discard, r)
	return err
}

// compileExcludes turns each pattern into a prefix glob. Braces and
// backslashes are literal, matching shell-style fnmatch.
func compileExcludes(patterns []string) ([]glob.Glob, error) {
	escaper := strings.NewReplacer(`\`, `\\`, `{`, `\{`, `}`, `\}`)
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		if p == "" {
			continue
		}
		g, err := glob.Compile(escaper.Replace(p) + "*")
		if err != nil {
			return nil, errors.Wrapf(err, "invalid exclude pattern %q", p)
		}
		out = append(out, g)
	}
	return out, nil
}

func excluded(matchers []glob.Glob, rel string) bool {
	for _, g := range matchers {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// hashFile computes the SHA256 hash of a file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "opening file")
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, "reading file")
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
