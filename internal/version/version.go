// Package version exposes build version information.
package version

import (
	"runtime"
	"runtime/debug"
	"slices"
)

var version = "dev"

// Version returns the current version string.
// When built without an injected version, the VCS revision is appended.
func Version() string {
	if commit := Commit(); version == "dev" && commit != "" {
		return version + "+" + commit
	}
	return version
}

// RawVersion returns the semantic version string without any suffix.
func RawVersion() string {
	return version
}

// Commit returns the short VCS revision from build info, if available.
func Commit() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	if idx := slices.IndexFunc(info.Settings, func(s debug.BuildSetting) bool {
		return s.Key == "vcs.revision"
	}); idx >= 0 {
		val := info.Settings[idx].Value
		if len(val) > 12 {
			return val[:12]
		}
		return val
	}
	return ""
}

// GoVersion returns the Go toolchain version used for the build.
func GoVersion() string {
	return runtime.Version()
}
