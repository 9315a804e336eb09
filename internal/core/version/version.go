// Package version reports what binary is running
package version

import (
	"runtime"
	"runtime/debug"
)

// BuildInfo is served by /api/v1/meta/version
type BuildInfo struct {
	Service string `json:"service" example:"eventscope-api"`
	Version string `json:"version" example:"v0.1.0"`
	Commit  string `json:"commit"  example:"3f9c2ab"`
	Date    string `json:"date"    example:"2026-10-01"`
	Go      string `json:"go"      example:"go1.23.2"`
}

// stamped with -ldflags "-X eventscope/internal/core/version.version=v0.1.0 ..."
var (
	version = "dev"
	commit  = ""
	date    = ""
)

// readBuildInfo is swapped in tests
var readBuildInfo = debug.ReadBuildInfo

// Info returns the stamped values, falling back to the vcs settings the go
// toolchain embeds when the binary was built without ldflags
func Info() BuildInfo {
	bi := BuildInfo{
		Service: "eventscope-api",
		Version: version,
		Commit:  commit,
		Date:    date,
		Go:      runtime.Version(),
	}
	if bi.Commit != "" && bi.Date != "" {
		return bi
	}
	if info, ok := readBuildInfo(); ok && info != nil {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if bi.Commit == "" && len(s.Value) >= 7 {
					bi.Commit = s.Value[:7]
				}
			case "vcs.time":
				if bi.Date == "" {
					bi.Date = s.Value
				}
			}
		}
	}
	if bi.Commit == "" {
		bi.Commit = "none"
	}
	if bi.Date == "" {
		bi.Date = "unknown"
	}
	return bi
}
