package gitrepo

import (
	"fmt"
	"strings"
)

// ConfigValue returns the value of a dotted configuration key such as
// "package.name" or "release-branch.master.track". A key that is not set
// yields an empty string, not an error.
func (r *Repo) ConfigValue(key string) (string, error) {
	values, err := r.ConfigValues(key)
	if err != nil || len(values) == 0 {
		return "", err
	}
	// git semantics: the last occurrence wins
	return values[len(values)-1], nil
}

// ConfigValues returns every value recorded for a dotted configuration
// key, in file order. Multi-valued keys are legal in git configuration;
// an unset key yields an empty slice.
func (r *Repo) ConfigValues(key string) ([]string, error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return nil, fmt.Errorf("read repository config: %w", err)
	}

	parts := strings.Split(key, ".")
	if len(parts) < 2 {
		return nil, fmt.Errorf("config key %q: want at least section.name", key)
	}
	section := cfg.Raw.Section(parts[0])
	if len(parts) == 2 {
		return section.OptionAll(parts[1]), nil
	}
	// section.subsection.name, where the subsection may itself contain dots
	sub := strings.Join(parts[1:len(parts)-1], ".")
	if !section.HasSubsection(sub) {
		return nil, nil
	}
	return section.Subsection(sub).OptionAll(parts[len(parts)-1]), nil
}
