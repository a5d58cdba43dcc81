// Package version provides the build version of the tools
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Build values, set with -ldflags "-X github.com/effective-security/jwtinspect/internal/version.Build=..."
var (
	// Build is the semantic version
	Build = "v0.0.0"
	// Commit is the source revision
	Commit = ""
)

// Version of the build
type Version struct {
	Build  string `json:"build,omitempty"`
	Commit string `json:"commit,omitempty"`
	Major  int    `json:"-"`
	Minor  int    `json:"-"`
	Patch  int    `json:"-"`
}

// String returns the version string
func (v Version) String() string {
	if v.Commit == "" {
		return v.Build
	}
	return fmt.Sprintf("%s (%s)", v.Build, v.Commit)
}

// Current returns the current build version
func Current() Version {
	return parse(Build, Commit)
}

func parse(build, commit string) Version {
	v := Version{
		Build:  build,
		Commit: commit,
	}

	s := strings.TrimPrefix(build, "v")
	if i := strings.IndexAny(s, "-+"); i >= 0 {
		s = s[:i]
	}
	parts := strings.SplitN(s, ".", 3)
	nums := []*int{&v.Major, &v.Minor, &v.Patch}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			break
		}
		*nums[i] = n
	}
	return v
}
