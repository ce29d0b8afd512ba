// Package version holds the application identity shown in logs and the CLI.
package version

const (
	AppName        = "Ceres"
	AppDescription = "A small Discord utility bot"
)

// BuildVersion is set at build time with -ldflags "-X github.com/keshon/ceres/internal/version.BuildVersion=...".
var BuildVersion = "dev"
