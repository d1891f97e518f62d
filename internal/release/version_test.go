package release

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		want    string
		wantOK  bool
	}{
		{"plain dotted version", "1.0", "1.0", true},
		{"v prefix", "v1.2.3", "1.2.3", true},
		{"uppercase V prefix", "V1.2.3", "1.2.3", true},
		{"r prefix", "r2.0", "2.0", true},
		{"uppercase R prefix", "R2.0", "2.0", true},
		{"release path prefix", "release/2.0-rc1", "2.0-rc1", true},
		{"debian path prefix", "debian/1.4.2-1", "1.4.2-1", true},
		{"full ref name", "refs/tags/v1.2.3", "1.2.3", true},
		{"tilde and at accepted", "1.0~rc1@2", "1.0~rc1@2", true},
		{"multi-digit major", "10.20.30", "10.20.30", true},

		{"no version shape", "foo", "", false},
		{"dot before digit", "v.1", "", false},
		{"no dot at all", strings.Repeat("a1", 20), "", false},
		{"minor must start with digit", "1.x", "", false},
		{"trailing dot", "1.", "", false},
		{"empty after marker", "v", "", false},
		{"bad character", "1.0+dfsg", "", false},
		{"slash in remainder", "1.0/2", "", false},
		{"too long", "1." + strings.Repeat("0", 31), "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTag(tt.tag)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTag_StripsAtMostOneMarker(t *testing.T) {
	// "release/" must win over the single-letter "r", and only one
	// marker is ever stripped.
	got, ok := ParseTag("release/1.0")
	assert.True(t, ok)
	assert.Equal(t, "1.0", got)

	// "vv1.0" strips one "v" and then fails the digit check.
	_, ok = ParseTag("vv1.0")
	assert.False(t, ok)

	// "debian/v1.0" strips "debian/" only; "v1.0" is not a version.
	_, ok = ParseTag("debian/v1.0")
	assert.False(t, ok)
}

func TestValidBranchName(t *testing.T) {
	valid := []string{"master", "stable", "live-2", "squeeze_backports", "V2"}
	for _, name := range valid {
		assert.True(t, ValidBranchName(name), "expected %q to be valid", name)
	}

	invalid := []string{
		"",
		"feature/foo",
		"release.1",
		"name with space",
		strings.Repeat("a", 33),
	}
	for _, name := range invalid {
		assert.False(t, ValidBranchName(name), "expected %q to be invalid", name)
	}

	// 32 characters is the boundary.
	assert.True(t, ValidBranchName(strings.Repeat("a", 32)))
}

func TestTipVersion(t *testing.T) {
	commit := "abcdef1234567890abcdef1234567890abcdef12"
	when := time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)

	got := TipVersion(commit, when)
	assert.Equal(t, "2403.1510.3045-gitabcdef12", got)

	// Deterministic: the same commit always yields the same version.
	assert.Equal(t, got, TipVersion(commit, when))
}

func TestTipVersion_FoldsOffsetIntoWallClock(t *testing.T) {
	commit := "abcdef1234567890abcdef1234567890abcdef12"

	// 23:30:45 +0200 is 21:30:45 UTC; the synthesized digits read the
	// committer's wall clock, not UTC.
	when := time.Date(2024, 3, 15, 23, 30, 45, 0, time.FixedZone("", 2*60*60))
	assert.Equal(t, "2403.1523.3045-gitabcdef12", TipVersion(commit, when))
}

func TestTipVersion_FitsLedgerColumn(t *testing.T) {
	commit := strings.Repeat("f", 40)
	got := TipVersion(commit, time.Date(2099, 12, 31, 23, 59, 59, 0, time.UTC))
	assert.LessOrEqual(t, len(got), 32)
}

func TestShortHash(t *testing.T) {
	assert.Equal(t, "abcdef12", ShortHash("abcdef1234567890abcdef1234567890abcdef12"))
	assert.Equal(t, "abc", ShortHash("abc"))
}
