// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.4.0"

// Commit is set at build time with -ldflags "-X .../version.Commit=<sha>".
var Commit = "dev"

// String returns the version with the commit suffix.
func String() string {
	return Version + " (" + Commit + ")"
}

// Milestones:
// 0.4.0 - Save slots in SQLite, static project site export
// 0.3.0 - Atlas view, discovery banner, YAML config
// 0.2.0 - HYG ingest, Greek Bayer names, project assignment
// 0.1.0 - Initial release: star chart TUI, on-rails navigation, autosave
