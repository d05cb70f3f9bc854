package version

// Build metadata for the goldwatcher binary, injected via -ldflags at
// release time. The zero values identify ad-hoc developer builds.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)
