package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Candidate is an image file discovered under the source root.
type Candidate struct {
	SourcePath   string
	RelativePath string
	Name         string
	Size         int64
}

func NewCandidate(sourcePath, relativePath string, size int64) Candidate {
	return Candidate{
		SourcePath:   sourcePath,
		RelativePath: relativePath,
		Name:         filepath.Base(sourcePath),
		Size:         size,
	}
}

// TargetName is the file name used in the archive. Lowercasing it keeps
// extensions consistent across devices.
func (c Candidate) TargetName() string {
	return strings.ToLower(c.Name)
}

func IsImageExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg", ".png":
		return true
	default:
		return false
	}
}

// IsImageName reports whether name ends in a recognized image extension.
func IsImageName(name string) bool {
	return IsImageExtension(filepath.Ext(name))
}

// Metadata is what the extractor could recover for one file. An empty Model
// and a nil TakenAt mean the value was absent.
type Metadata struct {
	Model   string
	TakenAt *time.Time
}
