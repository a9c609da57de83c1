// Package config loads the tool configuration from environment variables
// and an optional .env file, with defaults declared as struct tags on the
// per-package Config types.
//
// Environment variables map onto nested keys by underscore replacement:
// SOURCE_PROJECT sets source.project, TARGET_TOKEN sets target.token,
// LOG_LEVEL sets log.level, and so on.
package config
