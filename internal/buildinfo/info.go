// Package buildinfo exposes version metadata stamped at build time.
package buildinfo

// Overridden through -ldflags on release builds; the zero values identify
// a development build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
