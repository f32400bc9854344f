package version

import (
	"fmt"
	"runtime"
)

// Overridden at build time through
// -ldflags "-X github.com/autoshield/autoshield/pkg/version.Version=...".
var (
	Version   = "0.4.2"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

const AppName = "autoshield"

// Info is the payload served by the /version endpoint.
type Info struct {
	AppName   string `json:"app_name"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func GetInfo() Info {
	return Info{
		AppName:   AppName,
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
