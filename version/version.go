// Package version exposes the build version of the authentication service
// for logs and configuration defaults.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time with -ldflags "-X .../version.Version=v1.2.3".
var (
	Version   = "dev"
	GitCommit = ""
)

// Info is the resolved build information.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
	Dirty     bool   `json:"dirty"`
}

// Get resolves build information, falling back to the module build info
// embedded by the toolchain when ldflags were not set.
func Get() Info {
	info := Info{Version: Version, GitCommit: GitCommit}

	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = buildInfo.GoVersion
		for _, setting := range buildInfo.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = setting.Value
				}
			case "vcs.modified":
				info.Dirty = setting.Value == "true"
			}
		}
	}
	if len(info.GitCommit) > 7 {
		info.GitCommit = info.GitCommit[:7]
	}
	return info
}

// Short returns a compact version string for log fields.
func Short() string {
	info := Get()
	switch {
	case info.GitCommit == "":
		return info.Version
	case info.Dirty:
		return fmt.Sprintf("%s-%s-dirty", info.Version, info.GitCommit)
	default:
		return fmt.Sprintf("%s-%s", info.Version, info.GitCommit)
	}
}
