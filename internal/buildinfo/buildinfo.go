// Package buildinfo reports the build identity shown in the window title and
// by -version.
package buildinfo

import "runtime/debug"

// Version, Commit and Date are set at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var readBuildInfo = debug.ReadBuildInfo

// Short returns a compact build identifier: the release version, else the
// commit (from -ldflags or the embedded VCS stamp), else "dev".
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if c := commit(); c != "" {
		if len(c) > 12 {
			c = c[:12]
		}
		return c
	}
	return "dev"
}

// String is the full identity line.
func String() string {
	s := "spincube " + Version
	if c := commit(); c != "" {
		s += " (" + c + ")"
	}
	if Date != "" && Date != "unknown" {
		s += " " + Date
	}
	return s
}

func commit() string {
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	bi, ok := readBuildInfo()
	if !ok {
		return ""
	}
	for _, kv := range bi.Settings {
		if kv.Key == "vcs.revision" {
			return kv.Value
		}
	}
	return ""
}
