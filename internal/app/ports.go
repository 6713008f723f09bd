package app

import (
	"context"
	"io/fs"

	"syncphotos/internal/domain"
)

type FileSystem interface {
	ReadDir(path string) ([]fs.DirEntry, error)
	Stat(path string) (fs.FileInfo, error)
	Exists(path string) (bool, error)
	MkdirAll(path string, perm fs.FileMode) error
	Remove(path string) error
}

type MetadataReader interface {
	Read(ctx context.Context, path string) (domain.Metadata, error)
}

// Copier transfers a single file to dst. Implementations must preserve file
// attributes and be safe to call repeatedly for the same pair.
type Copier interface {
	Copy(ctx context.Context, src, dst string, opts domain.CopyOptions) (domain.Outcome, error)
}
