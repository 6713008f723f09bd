package exif

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"
	"time"

	dsexif "github.com/dsoprea/go-exif/v3"
	goexif "github.com/rwcarlsen/goexif/exif"

	"syncphotos/internal/domain"
	"syncphotos/internal/logging"
)

const (
	exifLayout       = "2006:01:02 15:04:05"
	exifOffsetLayout = "2006:01:02 15:04:05-07:00"
)

// Reader extracts the camera model and capture time of JPEG and PNG files.
// Missing or unreadable EXIF data is not an error; a file that is not a
// decodable image is.
type Reader struct {
	Logger logging.Logger
}

func (r Reader) Read(ctx context.Context, path string) (domain.Metadata, error) {
	select {
	case <-ctx.Done():
		return domain.Metadata{}, ctx.Err()
	default:
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Metadata{}, err
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("decode image: %w", err)
	}

	x, err := goexif.Decode(bytes.NewReader(data))
	if x != nil && (err == nil || !goexif.IsCriticalError(err)) {
		return fromGoexif(x), nil
	}
	// goexif reads the JPEG APP1 segment; only PNG keeps EXIF elsewhere.
	if format != "png" {
		if err != nil {
			r.Logger.Debugf("No exif in %s: %v", path, err)
		}
		return domain.Metadata{}, nil
	}

	meta, err := fromRawExif(data)
	if err != nil {
		r.Logger.Debugf("Ignoring unreadable exif in %s: %v", path, err)
		return domain.Metadata{}, nil
	}
	return meta, nil
}

func fromGoexif(x *goexif.Exif) domain.Metadata {
	var meta domain.Metadata

	if tag, err := x.Get(goexif.Model); err == nil {
		if str, err := tag.StringVal(); err == nil {
			meta.Model = cleanString(str)
		}
	}

	if tag, err := x.Get(goexif.DateTimeOriginal); err == nil {
		if str, err := tag.StringVal(); err == nil {
			if parsed, err := time.ParseInLocation(exifLayout, cleanString(str), time.Local); err == nil {
				meta.TakenAt = &parsed
				return meta
			}
		}
	}

	if parsed, err := x.DateTime(); err == nil && !parsed.IsZero() {
		meta.TakenAt = &parsed
	}
	return meta
}

// fromRawExif scans data for an embedded TIFF block, which finds EXIF in
// containers goexif does not parse, such as the PNG eXIf chunk.
func fromRawExif(data []byte) (domain.Metadata, error) {
	rawExif, err := dsexif.SearchAndExtractExif(data)
	if err != nil {
		if errors.Is(err, dsexif.ErrNoExif) {
			return domain.Metadata{}, nil
		}
		return domain.Metadata{}, fmt.Errorf("search exif: %w", err)
	}

	entries, _, err := dsexif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("parse exif: %w", err)
	}

	var meta domain.Metadata
	var original, modified, offset string
	for _, entry := range entries {
		switch entry.TagName {
		case "Model":
			meta.Model = cleanString(entry.Formatted)
		case "DateTimeOriginal":
			original = cleanString(entry.Formatted)
		case "DateTime":
			modified = cleanString(entry.Formatted)
		case "OffsetTimeOriginal":
			offset = cleanString(entry.Formatted)
		}
	}

	if original != "" {
		if parsed, ok := parseTimestamp(original, offset); ok {
			meta.TakenAt = &parsed
			return meta, nil
		}
	}
	if modified != "" {
		if parsed, ok := parseTimestamp(modified, ""); ok {
			meta.TakenAt = &parsed
		}
	}
	return meta, nil
}

func parseTimestamp(value, offset string) (time.Time, bool) {
	if offset != "" {
		if parsed, err := time.Parse(exifOffsetLayout, value+offset); err == nil {
			return parsed, true
		}
	}
	parsed, err := time.ParseInLocation(exifLayout, value, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

func cleanString(value string) string {
	return strings.TrimSpace(strings.TrimRight(value, "\x00"))
}
