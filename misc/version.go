// Package misc keeps build information.
package misc

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

// set by linker: -ldflags "-X updpost/misc.version=... -X updpost/misc.gitHash=..."
var (
	version = "dev"
	gitHash = ""
	appName = ""
)

// GetAppName returns program name without extension.
func GetAppName() string {
	if len(appName) != 0 {
		return appName
	}
	return strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0]))
}

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns hash of the commit program was built from, falls back
// to build information recorded by the go tool.
func GetGitHash() string {
	if len(gitHash) != 0 {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
