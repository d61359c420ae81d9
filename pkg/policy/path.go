package policy

import (
	"path"
	"strings"
)

// NormalizePath normalizes a matching path to slash-separated relative
// clean form. Matching always happens on the normalized form, so callers
// may pass OS-native paths.
func NormalizePath(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, `\`) {
		raw = strings.ReplaceAll(raw, `\`, `/`)
	}

	raw = strings.TrimPrefix(raw, "./")
	raw = strings.TrimPrefix(raw, "/")
	if raw == "" {
		return ""
	}

	if isCleanRelPath(raw) {
		return raw
	}

	raw = path.Clean("/" + raw)
	raw = strings.TrimPrefix(raw, "/")
	if raw == "." {
		return ""
	}

	return strings.TrimSuffix(raw, "/")
}

// normalizePattern normalizes a source pattern for compilation
func normalizePattern(raw string) string {
	raw = strings.TrimSpace(raw)
	return strings.ReplaceAll(raw, `\`, `/`)
}

// isCleanRelPath reports whether a path is already normalized enough to
// skip path.Clean
func isCleanRelPath(p string) bool {
	if p == "" || p == "." || p == ".." {
		return false
	}

	if strings.HasPrefix(p, "/") ||
		strings.HasSuffix(p, "/") ||
		strings.HasPrefix(p, "./") ||
		strings.HasPrefix(p, "../") ||
		strings.HasSuffix(p, "/..") {
		return false
	}

	if strings.Contains(p, "//") ||
		strings.Contains(p, "/./") ||
		strings.Contains(p, "/../") {
		return false
	}

	return true
}

// pathBase returns the final path component of a slash path
func pathBase(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}
