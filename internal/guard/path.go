package guard

import (
	"os"
	"path/filepath"
	"strings"
)

// denylistedFragments are system-path fragments that are never acceptable in
// a canonical candidate path, regardless of the permitted root.
var denylistedFragments = []string{
	"/etc/", "/proc/", "/sys/", "/dev/", "/var/log/",
	`C:\Windows\`, `C:\System32\`,
}

// shellMetachars in a path indicate injection attempts; none are legitimate
// in source-file paths this tool analyzes.
const shellMetachars = ";|&$><`"

// ValidatePath resolves base and candidate to canonical absolute form and
// returns the canonical candidate, failing with *SecurityError when the
// candidate escapes the base root, contains a denylisted system-path
// fragment, or carries NUL bytes or shell metacharacters.
func ValidatePath(base, candidate string) (string, error) {
	if strings.ContainsRune(candidate, 0) {
		return "", &SecurityError{Path: candidate, Reason: "NUL byte in path"}
	}
	if strings.ContainsAny(candidate, shellMetachars) {
		return "", &SecurityError{Path: candidate, Reason: "shell metacharacter in path"}
	}

	baseResolved, err := canonicalize(base)
	if err != nil {
		return "", &SecurityError{Path: base, Reason: "cannot resolve base: " + err.Error()}
	}
	candResolved, err := canonicalize(candidate)
	if err != nil {
		return "", &SecurityError{Path: candidate, Reason: "cannot resolve path: " + err.Error()}
	}

	for _, frag := range denylistedFragments {
		if strings.Contains(candResolved, frag) {
			return "", &SecurityError{Path: candResolved, Reason: "denylisted path fragment " + frag}
		}
	}

	if !withinRoot(baseResolved, candResolved) {
		return "", &SecurityError{Path: candidate, Reason: "path escapes base root " + baseResolved}
	}

	return candResolved, nil
}

// canonicalize resolves symlinks where the target exists and always returns
// an absolute, lexically-cleaned path. A non-existent leaf is still
// canonicalized so traversal in the unresolved form is caught.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return filepath.Clean(abs), nil
}

// withinRoot reports whether candidate is root itself or a descendant of it.
// Prefix comparison happens on path-separator boundaries so /proj2 does not
// pass for base /proj.
func withinRoot(root, candidate string) bool {
	if candidate == root {
		return true
	}
	return strings.HasPrefix(candidate, root+string(filepath.Separator))
}

// CheckFileSize fails with *ResourceLimitError when the file at path
// exceeds maxMB megabytes.
func CheckFileSize(path string, maxMB int) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	limit := int64(maxMB) * 1024 * 1024
	if info.Size() > limit {
		return &ResourceLimitError{Resource: "file size", Limit: limit, Actual: info.Size()}
	}
	return nil
}
