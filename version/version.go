// Package version exposes build identification for the strophe binaries.
package version

// Overridden at build time via -ldflags.
//
//nolint:gochecknoglobals
var (
	name    = "strophe"
	version = "dev"
	commit  = "unknown"
)

func Name() string {
	return name
}

func Version() string {
	return version
}

func Commit() string {
	return commit
}
