// Package version holds the build version string.
package version

// Version is the current OneWorld release. Overridden at build time via
// -ldflags "-X github.com/oneworldlabs/oneworld/internal/version.Version=...".
var Version = "0.3.0-dev"
