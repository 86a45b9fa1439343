// Package version resolves the toolchain version the running binary was
// built with.
package version

import (
	"fmt"
	"regexp"
	"runtime"
	"runtime/debug"
	"strconv"
	"sync"
)

// override is set at build time, e.g.
// -ldflags "-X github.com/lyall/statusd/internal/version.override=1.4"
var override = ""

// Version is a two-component build version.
type Version struct {
	Major int
	Minor int
}

// Unknown is reported when no version metadata can be parsed.
var Unknown = Version{}

// String renders the version as "<major>.<minor>".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

var (
	toolchainRe = regexp.MustCompile(`(?:^|\s)go(\d+)\.(\d+)`)
	plainRe     = regexp.MustCompile(`^v?(\d+)\.(\d+)(?:[.\-+].*)?$`)
)

// Parse extracts the major and minor components from a Go toolchain string
// (go1.22.5, go1.23rc1, "devel go1.24-abcdef ...") or a plain version such
// as 1.4 or v1.4.2.
func Parse(raw string) (Version, bool) {
	m := toolchainRe.FindStringSubmatch(raw)
	if m == nil {
		m = plainRe.FindStringSubmatch(raw)
	}
	return fromMatch(m)
}

// ParsePin accepts only a plain version such as 1.4 or v1.4.2, as used for
// operator-supplied pins.
func ParsePin(raw string) (Version, bool) {
	return fromMatch(plainRe.FindStringSubmatch(raw))
}

func fromMatch(m []string) (Version, bool) {
	if m == nil {
		return Unknown, false
	}
	major, err := strconv.Atoi(m[1])
	if err != nil {
		return Unknown, false
	}
	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return Unknown, false
	}
	return Version{Major: major, Minor: minor}, true
}

// Resolve returns the version of the running build. It is computed once per
// process; later calls return the same value.
var Resolve = sync.OnceValue(resolve)

func resolve() Version {
	if override != "" {
		if v, ok := ParsePin(override); ok {
			return v
		}
	}
	return fromBuild(debug.ReadBuildInfo, runtime.Version)
}

// fromBuild prefers the toolchain recorded in the binary's build info and
// falls back to the runtime's own version string.
func fromBuild(buildInfo func() (*debug.BuildInfo, bool), runtimeVersion func() string) Version {
	if info, ok := buildInfo(); ok && info != nil {
		if v, ok := Parse(info.GoVersion); ok {
			return v
		}
	}
	if v, ok := Parse(runtimeVersion()); ok {
		return v
	}
	return Unknown
}
