// Package version holds the module's release identifier.
package version

// Version is the version of liquers. This variable is overridden at
// build time in the pipeline using ldflags.
var Version = "0.1.0-dev"
