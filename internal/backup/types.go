package backup

import (
	"strconv"
	"strings"
	"time"

	"github.com/thoreinstein/repokit/internal/errors"
)

// File naming.
const (
	ArchivePrefix = "backup_"
	ArchiveExt    = ".zip"
	HashExt       = ".hash"

	// IDFormat is the time layout of a snapshot ID. It avoids colons so
	// names stay valid on every filesystem.
	IDFormat = "2006-01-02T15-04-05"
)

// DefaultRetentionCount is the number of snapshots Prune keeps when the
// caller does not say otherwise.
const DefaultRetentionCount = 5

// Sentinel errors.
var (
	// ErrNoBackupsFound indicates the output directory holds no snapshots.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrBackupNotFound indicates the requested snapshot does not exist.
	ErrBackupNotFound = errors.New("backup not found")

	// ErrMissingChecksum indicates an archive has no hash file.
	ErrMissingChecksum = errors.New("backup checksum missing")

	// ErrChecksumMismatch indicates an archive no longer matches its hash file.
	ErrChecksumMismatch = errors.New("backup checksum mismatch")

	// ErrPasswordRequired indicates an encrypted archive was opened without a password.
	ErrPasswordRequired = errors.New("backup is encrypted; password required")
)

// Artifact describes one snapshot, either written or planned.
type Artifact struct {
	ID          string
	ArchivePath string
	HashPath    string

	// Hash is the hex SHA-256 of the archive. Empty for planned snapshots
	// and for listed snapshots without a hash file.
	Hash string

	Size      int64
	CreatedAt time.Time
	Encrypted bool

	// Members lists archive entry names in walk order. Only set by Create.
	Members []string

	// Planned is true when the snapshot was computed in dry-run and nothing
	// was written.
	Planned bool

	HasChecksum bool
}

// ArchiveName returns the archive file name for id.
func ArchiveName(id string) string { return ArchivePrefix + id + ArchiveExt }

// HashName returns the hash file name for id.
func HashName(id string) string { return id + HashExt }

// idFromArchive extracts the snapshot ID from an archive file name.
func idFromArchive(name string) (string, bool) {
	if !strings.HasPrefix(name, ArchivePrefix) || !strings.HasSuffix(name, ArchiveExt) {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(name, ArchivePrefix), ArchiveExt)
	if _, _, ok := parseID(id); !ok {
		return "", false
	}
	return id, true
}

// IsArtifactName reports whether name is a backup archive or checksum
// file name.
func IsArtifactName(name string) bool {
	if _, ok := idFromArchive(name); ok {
		return true
	}
	if !strings.HasSuffix(name, HashExt) {
		return false
	}
	_, _, ok := parseID(strings.TrimSuffix(name, HashExt))
	return ok
}

// parseID splits an ID into its timestamp and collision sequence. The first
// snapshot in a second has sequence 1.
func parseID(id string) (time.Time, int, bool) {
	if len(id) < len(IDFormat) {
		return time.Time{}, 0, false
	}
	ts, err := time.ParseInLocation(IDFormat, id[:len(IDFormat)], time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	rest := id[len(IDFormat):]
	if rest == "" {
		return ts, 1, true
	}
	if !strings.HasPrefix(rest, "-") {
		return time.Time{}, 0, false
	}
	seq, err := strconv.Atoi(rest[1:])
	if err != nil || seq < 2 {
		return time.Time{}, 0, false
	}
	return ts, seq, true
}
