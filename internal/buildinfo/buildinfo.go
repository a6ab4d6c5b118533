package buildinfo

// set by ldflags at build time
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)
