package cli

import "fmt"

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version. It is
// called by the main package with values injected via ldflags at build
// time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// versionTemplate formats the --version output.
func versionTemplate() string {
	return fmt.Sprintf("shapviz %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
}
