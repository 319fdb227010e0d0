package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds layer names, trait values and collection names.
const maxNameLength = 256

// ValidateName validates a layer name or trait value.
//
// Names end up in metadata JSON and in log lines, so the rules are conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 256 characters
func ValidateName(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidConfig, "%s cannot be empty", kind)
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidConfig, "%s too long (max %d characters)", kind, maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "%s %q contains invalid control characters", kind, name)
		}
	}
	return nil
}

// ValidateAssetFilename validates a layer asset filename (without the .png extension).
// It must be a simple basename so that assets cannot escape their trait directory.
func ValidateAssetFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidPath, "asset filename cannot be empty")
	}
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidPath, "asset filename %q cannot contain path separators", filename)
	}
	if filename == "." || filename == ".." {
		return New(ErrCodeInvalidPath, "asset filename %q is not a file", filename)
	}
	for _, r := range filename {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "asset filename %q contains invalid characters", filename)
		}
	}
	return nil
}

// ValidatePath validates a directory path such as a trait path or the output directory.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
