package upload

import (
	"accountant-assistant/internal/core/domain"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// Accepts reports whether a file matches an accept list such as ".csv,.pdf" or "image/*,.pdf".
// Entries are file extensions, exact MIME types or MIME wildcards.
func Accepts(accept string, filename string, contentType string) bool {
	if strings.TrimSpace(accept) == "" {
		return true
	}

	ext := strings.ToLower(filepath.Ext(filename))
	mimeType := extractMimeType(contentType)

	for _, entry := range strings.Split(accept, ",") {
		entry = strings.ToLower(strings.TrimSpace(entry))
		switch {
		case entry == "":
			continue
		case strings.HasPrefix(entry, "."):
			if ext == entry {
				return true
			}
		case strings.HasSuffix(entry, "/*"):
			if mimeType != "" && strings.HasPrefix(mimeType, strings.TrimSuffix(entry, "*")) {
				return true
			}
		default:
			if mimeType == entry {
				return true
			}
		}
	}
	return false
}

// FilterAccepted splits files into the ones a surface accepts and an error per rejected file
func FilterAccepted(surface domain.SurfaceInfo, files []domain.File) ([]domain.File, []error) {
	accepted := make([]domain.File, 0, len(files))
	var rejected []error
	for _, f := range files {
		if Accepts(surface.Accept, f.Name, f.MimeType) {
			accepted = append(accepted, f)
			continue
		}
		rejected = append(rejected, fmt.Errorf("%w: %s (expected one of: %s)", domain.ErrFileNotAccepted, f.Name, surface.Accept))
	}
	return accepted, rejected
}

// KnownMimeTypes maps the document and image MIME types the surfaces deal with to their extensions.
// This is deterministic and does NOT rely on OS mime databases.
var KnownMimeTypes = map[string][]string{
	"text/csv":        {".csv"},
	"application/pdf": {".pdf"},
	"image/jpeg":      {".jpg", ".jpeg"},
	"image/png":       {".png"},
	"image/webp":      {".webp"},
	"image/gif":       {".gif"},
	"image/bmp":       {".bmp"},
	"image/tiff":      {".tif", ".tiff"},
	"image/heic":      {".heic"},
	"image/heif":      {".heif"},
}

// DetectMimeType resolves the MIME type of a file from its declared content type, falling back to its extension
func DetectMimeType(filename string, declared string) string {
	if mimeType := extractMimeType(declared); mimeType != "" && mimeType != "application/octet-stream" {
		return mimeType
	}

	ext := strings.ToLower(filepath.Ext(filename))
	for mimeType, exts := range KnownMimeTypes {
		for _, known := range exts {
			if ext == known {
				return mimeType
			}
		}
	}

	return extractMimeType(declared)
}

func extractMimeType(contentType string) string {
	mimeType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mimeType
}
