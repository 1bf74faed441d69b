package errors

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// MaxDimension bounds each side of a requested canvas.
const MaxDimension = 4096

// ValidatePackageName validates a package name read from a snapshot record.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or whitespace
//   - Maximum length of 256 characters
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "package name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", name)
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// sizeRegex matches a canvas size request such as "1000x700".
var sizeRegex = regexp.MustCompile(`^(\d+)x(\d+)$`)

// ParseSize parses a "<width>x<height>" canvas size.
// Callers are expected to fall back to their default size when an
// ErrCodeInvalidSize error is returned rather than failing the request.
func ParseSize(s string) (width, height int, err error) {
	m := sizeRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, New(ErrCodeInvalidSize, "invalid size %q (want <width>x<height>)", s)
	}

	width, werr := strconv.Atoi(m[1])
	height, herr := strconv.Atoi(m[2])
	if werr != nil || herr != nil {
		return 0, 0, New(ErrCodeInvalidSize, "invalid size %q", s)
	}

	if width <= 0 || height <= 0 || width > MaxDimension || height > MaxDimension {
		return 0, 0, New(ErrCodeInvalidSize, "size %q out of range (1..%d per side)", s, MaxDimension)
	}

	return width, height, nil
}

// ValidatePath validates a filesystem path supplied on the command line or
// in a config file.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return New(ErrCodeInvalidPath, "path contains NUL byte")
	}
	return nil
}
