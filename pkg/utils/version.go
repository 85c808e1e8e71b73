// Package utils holds small one-off helpers shared across commands that are
// too slight to justify a package of their own.
package utils

// Set at build time through -ldflags.
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)
