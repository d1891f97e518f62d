package release

import (
	"fmt"
	"strings"
	"time"
)

// maxNameLen caps both version strings and branch names. The ledger
// schema repeats the cap as a column constraint, but this is the
// authoritative check.
const maxNameLen = 32

// ParseTag decides whether a tag name encodes a release version and
// returns the normalized version string.
//
// The tag's "refs/tags/" prefix is stripped if present, then at most one
// leading marker: "debian/", "release/", or a single "v" or "r" in
// either case. The remainder must look like a dotted version number:
// one or more digits, a literal ".", a digit, and then nothing but
// alphanumerics and "-", "_", ".", "~", "@", within 32 characters.
//
// Tags that do not qualify are simply not releases; rejection carries no
// diagnostic.
func ParseTag(name string) (string, bool) {
	name = strings.TrimPrefix(name, "refs/tags/")
	switch {
	case strings.HasPrefix(name, "debian/"):
		name = name[len("debian/"):]
	case strings.HasPrefix(name, "release/"):
		name = name[len("release/"):]
	case len(name) > 0 && (name[0] == 'v' || name[0] == 'V' || name[0] == 'r' || name[0] == 'R'):
		name = name[1:]
	}
	if name == "" || len(name) > maxNameLen {
		return "", false
	}

	// The major component: a run of digits up to the first ".".
	i := 0
	for i < len(name) && isDigit(name[i]) {
		i++
	}
	if i == 0 || i >= len(name) || name[i] != '.' {
		return "", false
	}
	// The minor component must begin with a digit.
	i++
	if i >= len(name) || !isDigit(name[i]) {
		return "", false
	}
	for ; i < len(name); i++ {
		if !isVersionChar(name[i]) {
			return "", false
		}
	}
	return name, true
}

// ValidBranchName reports whether a branch name is eligible for release
// tracking: alphanumerics, "-" and "_" only, at most 32 characters.
// Hierarchical names (anything with a slash or dot) are rejected; the
// branches that map to package repositories are expected to use simple,
// flat names.
func ValidBranchName(name string) bool {
	if name == "" || len(name) > maxNameLen {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !isAlnum(c) && c != '-' && c != '_' {
			return false
		}
	}
	return true
}

// TipVersion synthesizes the version string for a tip-mode release:
// YYMM.DDHH.MMSS from the committer timestamp followed by "-git" and
// the first 8 characters of the commit hash. The same commit always
// yields the same version, which keeps tip tracking idempotent.
func TipVersion(commit string, when time.Time) string {
	return fmt.Sprintf("%s-git%s", when.Format("0601.0215.0405"), commit[:8])
}

// ShortHash abbreviates a 40-hex content hash for diagnostics.
func ShortHash(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlnum(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isVersionChar(c byte) bool {
	switch {
	case isAlnum(c):
		return true
	case c == '-' || c == '_' || c == '.' || c == '~' || c == '@':
		return true
	}
	return false
}
