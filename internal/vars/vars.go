// Package vars holds build metadata for decksite. Values are injected with
// ldflags; when they are not, the module build info is used instead.
package vars

import (
	"fmt"
	"io"
	"runtime/debug"
	"time"
)

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"

	// Commit is the git revision the binary was built from.
	Commit = "unknown"

	// BuildTime is the UTC build moment.
	BuildTime = time.Unix(0, 0).UTC()

	// URL is the project home page.
	URL = "https://github.com/woozymasta/decksite"

	// _buildTime is set via ldflags as RFC3339 and overrides BuildTime.
	_buildTime string
)

// BuildInfo is the build metadata served by the dev server and printed by
// the version command.
type BuildInfo struct {
	Version   string    `json:"version"`
	Commit    string    `json:"commit"`
	BuildTime time.Time `json:"build_time,omitempty"`
	URL       string    `json:"url,omitempty"`
	GoVersion string    `json:"go_version,omitempty"`
	Modified  bool      `json:"modified,omitempty"`
}

var info BuildInfo

func init() {
	if _buildTime != "" {
		if t, err := time.Parse(time.RFC3339, _buildTime); err == nil {
			BuildTime = t.UTC()
		}
	}

	info = BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		URL:       URL,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	applyModuleInfo(&info, bi)
}

// applyModuleInfo fills fields left at their defaults from VCS stamps.
func applyModuleInfo(dst *BuildInfo, bi *debug.BuildInfo) {
	dst.GoVersion = bi.GoVersion
	if dst.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		dst.Version = bi.Main.Version
	}

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if dst.Commit == "unknown" {
				dst.Commit = s.Value
			}
		case "vcs.time":
			if dst.BuildTime.Unix() == 0 {
				if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
					dst.BuildTime = t.UTC()
				}
			}
		case "vcs.modified":
			dst.Modified = s.Value == "true"
		}
	}
}

// Print writes build information to w in a human-readable form.
func Print(w io.Writer) {
	_, _ = fmt.Fprintf(w, `url:      %s
version:  %s
commit:   %s
built:    %s
go:       %s
`, info.URL, info.Version, info.Commit, info.BuildTime.Format(time.RFC3339), info.GoVersion)
}

// Info returns the resolved build metadata.
func Info() BuildInfo {
	return info
}
