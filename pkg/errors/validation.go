package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxNameLength bounds identifiers, labels and member names.
const maxNameLength = 256

// ValidateName validates an identifier-like value (class name, namespace,
// style class name). kind is used in the error message, e.g. "class name".
//
// The rules only guarantee the syntactic shape of a single output line:
//   - No empty or whitespace-only names
//   - No control characters (a newline would split the rendered line)
//   - Maximum length of 256 characters
func ValidateName(code Code, kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return New(code, "%s cannot be empty", kind)
	}
	if len(name) > maxNameLength {
		return New(code, "%s too long (max %d characters)", kind, maxNameLength)
	}
	if hasControl(name) {
		return New(code, "%s contains invalid control characters: %q", kind, name)
	}
	return nil
}

// ValidateText validates optional free text that is rendered on a single line
// (labels, annotations, types). Empty text is valid.
func ValidateText(code Code, kind, text string) error {
	if hasControl(text) {
		return New(code, "%s contains invalid control characters: %q", kind, text)
	}
	return nil
}

func hasControl(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}

// ValidateURL validates a link target for a click interaction.
// Absolute targets must use the http or https scheme; relative paths and
// fragment references ("/docs", "#anchor") are accepted as-is.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInteraction, "URL cannot be empty")
	}
	if hasControl(rawURL) || strings.ContainsAny(rawURL, "\" ") {
		return New(ErrCodeInvalidInteraction, "URL contains invalid characters: %q", rawURL)
	}
	if strings.HasPrefix(rawURL, "/") || strings.HasPrefix(rawURL, "#") {
		return nil
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInteraction, "URL must use http or https scheme")
	}
	return nil
}

// documentNameRegex matches valid stored diagram names.
var documentNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateDocumentName validates the name of a stored diagram definition.
// Names are used in URLs and storage keys, so they are restricted to a
// conservative character set.
func ValidateDocumentName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "diagram name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "diagram name too long (max 128 characters)")
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidInput, "diagram name cannot contain path traversal sequences (..)")
	}
	if !documentNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid diagram name: %q", name)
	}
	return nil
}

// ValidatePath validates a definition or output file path supplied by a user.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	if hasControl(path) {
		return New(ErrCodeInvalidPath, "path contains invalid characters")
	}

	return nil
}
