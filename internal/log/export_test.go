package log

import "github.com/rs/zerolog"

// ParseLogLevel exposes parseLogLevel for testing.
func ParseLogLevel(s string) zerolog.Level {
	return parseLogLevel(s)
}
