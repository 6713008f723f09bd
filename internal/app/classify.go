package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"syncphotos/internal/domain"
)

const unknownModel = "unknown camera model"

// NormalizeModel trims the model, collapses whitespace runs to a single
// underscore and lowercases the result. A blank model, or one that would
// name the current or parent directory, becomes "unknown_camera_model".
func NormalizeModel(model string) string {
	if strings.TrimSpace(model) == "" {
		model = unknownModel
	}
	normalized := strings.ToLower(strings.Join(strings.Fields(model), "_"))
	// keep the model a single path segment below the destination
	normalized = strings.Map(func(r rune) rune {
		if r == '/' || r == filepath.Separator {
			return '-'
		}
		return r
	}, normalized)
	if normalized == "." || normalized == ".." {
		return NormalizeModel("")
	}
	return normalized
}

// Classify maps metadata to "<model>/<YYYY>/<MM>/<DD>". When the capture
// time is missing now is used instead and the second result is true.
func Classify(meta domain.Metadata, now time.Time) (string, bool) {
	takenAt, fallback := now, true
	if meta.TakenAt != nil {
		takenAt, fallback = *meta.TakenAt, false
	}
	return filepath.Join(
		NormalizeModel(meta.Model),
		fmt.Sprintf("%04d", takenAt.Year()),
		fmt.Sprintf("%02d", int(takenAt.Month())),
		fmt.Sprintf("%02d", takenAt.Day()),
	), fallback
}
