// Package server holds configuration for the optional HTTP service mode.
// The Fiber app itself is assembled in the serve command; compare routes
// are registered by the compare feature.
package server
