package release

import "fmt"

// Mode is a branch's release tracking mode.
type Mode int

const (
	// ModeNone means the branch has no tracking configuration and is
	// ignored entirely.
	ModeNone Mode = iota
	// ModeTip treats every movement of the branch tip as a release.
	ModeTip
	// ModeTag releases only commits matching a qualifying release tag.
	ModeTag
	// ModeUnknown means the configuration names a mode this tool does
	// not support; the branch is skipped with a warning.
	ModeUnknown
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeTip:
		return "tip"
	case ModeTag:
		return "tag"
	default:
		return "unknown"
	}
}

// ConfigSource supplies free-form configuration values, keyed in git's
// dotted section.subsection.name form. An unset key yields "".
type ConfigSource interface {
	ConfigValue(key string) (string, error)
}

// PolicyKey returns the configuration key holding a branch's tracking
// mode.
func PolicyKey(branch string) string {
	return fmt.Sprintf("release-branch.%s.track", branch)
}

// ResolveMode looks up the tracking mode configured for a branch. The
// raw configured value is returned alongside the mode so callers can
// report unsupported values verbatim.
func ResolveMode(cfg ConfigSource, branch string) (Mode, string, error) {
	value, err := cfg.ConfigValue(PolicyKey(branch))
	if err != nil {
		return ModeNone, "", err
	}
	switch value {
	case "":
		return ModeNone, value, nil
	case "tip":
		return ModeTip, value, nil
	case "tag":
		return ModeTag, value, nil
	default:
		return ModeUnknown, value, nil
	}
}
