package config

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// SetBuildFlags records values injected by the release build
func SetBuildFlags(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date
}
