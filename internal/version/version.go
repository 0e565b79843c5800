// Package version holds build metadata, set with -ldflags "-X".
package version

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// String formats the build metadata for --version.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + BuildDate + ")"
}
