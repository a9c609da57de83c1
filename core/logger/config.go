package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the log level (debug, info, warn, error).
	Level string `mapstructure:"level" default:"info"`
	// Format is the output encoding (console, json).
	Format string `mapstructure:"format" default:"console"`
}
