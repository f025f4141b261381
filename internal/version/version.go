// Package version reports which zpnet build is running.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/zpnet/internal/version.Version=v1.2.3 \
//	                   -X github.com/muurk/zpnet/internal/version.Commit=abc123"
//
// Builds without ldflags fall back to the module version recorded by
// "go install" and the VCS stamp.
var (
	Version = ""
	Commit  = ""
)

// Name is the program name shown in version output
const Name = "zpnet"

// Info describes a build.
type Info struct {
	Version   string
	Commit    string
	GoVersion string
	Platform  string
}

// Get returns the running build's info.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = fromBuildInfo(info, bi)
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	return info
}

// fromBuildInfo fills what ldflags left empty.
func fromBuildInfo(info Info, bi *debug.BuildInfo) Info {
	if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	if info.Commit != "" {
		return info
	}

	var revision string
	var dirty bool
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if revision != "" && dirty {
		revision += "-dirty"
	}
	info.Commit = revision
	return info
}

// String formats the info the way "zpnet version" prints it.
func (i Info) String() string {
	return fmt.Sprintf("%s %s (commit: %s, %s, %s)", Name, i.Version, i.Commit, i.GoVersion, i.Platform)
}

// Full returns the one-line version string of the running build.
func Full() string {
	return Get().String()
}

// Short returns just the version, for cobra's --version flag.
func Short() string {
	return Get().Version
}
