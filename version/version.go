// Package version embeds build information, set at build time via -ldflags.
package version

import "runtime/debug"

var (
	// Version is the release tag, "dev" for unreleased builds.
	Version = "dev"
	// GitCommit is the short commit hash.
	GitCommit = ""
)

// Info is the version payload exposed by the API.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit,omitempty"`
	GoVersion string `json:"goVersion"`
}

// Get assembles version information, filling gaps from the embedded build
// info when ldflags were not set.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		if info.GitCommit == "" {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" && len(s.Value) >= 7 {
					info.GitCommit = s.Value[:7]
				}
			}
		}
	}
	return info
}
