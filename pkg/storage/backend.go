// Package storage abstracts where a generated bundle lands: a local
// directory or an S3 prefix, selected by parsing the --output value.
package storage

import (
	"context"
	"io/fs"
	"strings"
)

// Backend receives the files of one generated bundle. Implementations
// honor write-if-absent: Put with force=false must not clobber.
type Backend interface {
	// Put writes data at the bundle-relative path. mode matters for
	// scripts (0755); backends without a mode concept record it as
	// metadata. Returns fs.ErrExist when the target exists and force
	// was not requested.
	Put(ctx context.Context, relpath string, data []byte, mode fs.FileMode, force bool) error
	// Exists reports whether relpath is already present.
	Exists(ctx context.Context, relpath string) (bool, error)
	// Root describes the destination for logs and the bundle manifest.
	Root() string
}

// Target is a parsed --output value.
type Target struct {
	// Bucket and Prefix are set for s3:// targets.
	Bucket string
	Prefix string
	// Path is set for local targets.
	Path string
}

// IsS3 reports whether the target is an S3 destination.
func (t Target) IsS3() bool { return t.Bucket != "" }

// ParseTarget splits an output value into a local path or an S3
// bucket/prefix pair. "s3://bucket" and "s3://bucket/sub/dir" are both
// valid; anything else is a filesystem path.
func ParseTarget(output string) Target {
	const scheme = "s3://"
	if !strings.HasPrefix(output, scheme) {
		return Target{Path: output}
	}
	rest := strings.TrimPrefix(output, scheme)
	bucket, prefix, _ := strings.Cut(rest, "/")
	return Target{Bucket: bucket, Prefix: strings.Trim(prefix, "/")}
}
