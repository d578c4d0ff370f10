package errors

import (
	"net/url"
	"path/filepath"
	"slices"
	"strings"
	"unicode"
)

// ValidateItemID validates an item id received from outside the process
// (CLI flags, HTTP path parameters).
//
// The rules are conservative:
//   - No empty ids
//   - No control characters
//   - Maximum length of 256 characters
func ValidateItemID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "item id cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "item id too long (max 256 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "item id contains invalid control characters")
		}
	}
	return nil
}

// Export formats understood by the exporters.
var exportFormats = []string{"svg", "png", "pdf", "json"}

// ValidateFormat validates an export format name.
func ValidateFormat(format string) error {
	if !slices.Contains(exportFormats, strings.ToLower(format)) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(exportFormats, ", "))
	}
	return nil
}

// FormatFromPath derives the export format from an output file extension.
func FormatFromPath(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "", New(ErrCodeInvalidFormat, "cannot derive format from %q", path)
	}
	if err := ValidateFormat(ext); err != nil {
		return "", err
	}
	return ext, nil
}

// Data source schemes beside plain file paths.
var sourceSchemes = []string{"mongodb", "mongodb+srv", "neo4j", "neo4j+s", "bolt", "file"}

// ValidateSource validates a data source reference: a file path with a
// known data extension, or a URI with a supported scheme.
func ValidateSource(ref string) error {
	if ref == "" {
		return New(ErrCodeInvalidSource, "data source cannot be empty")
	}
	if strings.ContainsRune(ref, '\x00') {
		return New(ErrCodeInvalidSource, "data source contains invalid characters")
	}
	if i := strings.Index(ref, "://"); i > 0 {
		u, err := url.Parse(ref)
		if err != nil {
			return Wrap(ErrCodeInvalidSource, err, "parse %q", ref)
		}
		if !slices.Contains(sourceSchemes, u.Scheme) {
			return New(ErrCodeInvalidSource, "unsupported source scheme %q", u.Scheme)
		}
		return nil
	}
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".json", ".yaml", ".yml":
		return nil
	}
	return New(ErrCodeInvalidSource, "data file must be .json, .yaml or .yml: %q", ref)
}

// ValidateLevel validates a show-level depth.
func ValidateLevel(level int) error {
	if level < 0 {
		return New(ErrCodeInvalidInput, "level must not be negative, got %d", level)
	}
	return nil
}
