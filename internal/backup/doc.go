// Package backup writes timestamped zip snapshots of a project tree.
//
// Each snapshot is a pair of files in the output directory:
//
//	.backup/
//	├── backup_2026-01-23T10-07-12.zip
//	└── 2026-01-23T10-07-12.hash
//
// The hash file holds the hex SHA-256 of the archive with no trailing
// newline. When a password is configured, entries are AES-256 encrypted
// using the WinZip scheme, which most unzip tools understand.
//
// Archives are written through a temp file and renamed into place, so an
// interrupted run never leaves a partial archive behind. An archive whose
// checksum cannot be written is removed.
//
// Use [Manager.Create] to take a snapshot, [Manager.List] and
// [Manager.Verify] to inspect existing ones and [Manager.Prune] to apply
// retention.
package backup
