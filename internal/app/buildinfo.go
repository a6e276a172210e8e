package app

// Build information set with -ldflags at release time, for example
// -X github.com/hyperifyio/checkhtml/internal/app.BuildVersion=1.2.0.
var (
	BuildVersion = "0.0.0-dev"
	BuildCommit  = "unknown"
	BuildDate    = "unknown"
)
