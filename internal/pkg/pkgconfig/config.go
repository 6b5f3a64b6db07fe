package pkgconfig

import "time"

// Config exposes typed accessors for configuration values. Business code
// depends on this interface instead of a concrete source (file, env, etc).
type Config interface {
	GetInt(key string) int64
	GetBool(key string) bool
	GetString(key string) string
	GetArray(key string) []string
	GetDuration(key string) time.Duration

	Close() error
}
