// Package config loads repokit's project configuration.
//
// The configuration is an optional JSON document, usually
// refresh.config.json in the repository root:
//
//	{
//	  "exclude_from_backup": ["backup", "dist/"],
//	  "protected_files": [".env"],
//	  "hooks": {
//	    "pre_update": ["make stop"],
//	    "post_update": ["make build"]
//	  },
//	  "dry_run": false,
//	  "backup_password": "s3cret"
//	}
//
// Loading never fails. Every problem with the document (missing or unknown
// keys, wrong value types, a parse error) becomes a [Warning] in the returned
// [Report] and the affected value keeps its default. Callers decide how to
// surface warnings; the CLI logs them.
//
// The loaded [Config] is an immutable value. Accessors return copies, and the
// With* methods return modified copies, so a Config can be shared freely
// between the refresh steps.
//
// REPOKIT_DRY_RUN and REPOKIT_BACKUP_PASSWORD override the file.
package config
