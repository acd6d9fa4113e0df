// Package version provides version information for the webutils binary.
package version

// Build information (set via ldflags during build)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns a one-line summary of the build.
func String() string {
	return Version + " (" + Commit + ", built " + BuildTime + ")"
}
