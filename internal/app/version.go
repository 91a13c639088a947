package app

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is the release of the tool, compared against a workspace's
// required_version. Overridden at build time with -ldflags -X.
var Version = "v1.0.0"

// ErrUnsupportedVersion is returned when a workspace requires a newer
// release of the tool.
var ErrUnsupportedVersion = errors.New("unsupported workspace version")

// checkVersion verifies that running is at least required. Both accept an
// optional leading "v".
func checkVersion(required, running string) error {
	if required == "" {
		return nil
	}
	want, have := canonical(required), canonical(running)
	if !semver.IsValid(want) {
		return fmt.Errorf("invalid required_version %q: not a semantic version", required)
	}
	if !semver.IsValid(have) {
		return fmt.Errorf("invalid tool version %q: not a semantic version", running)
	}
	if semver.Compare(have, want) < 0 {
		return fmt.Errorf("%w: workspace requires %s, running %s", ErrUnsupportedVersion, want, have)
	}
	return nil
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
