package version

// Version is stamped at release time (ldflags); "dev" otherwise.
var Version = "dev"
