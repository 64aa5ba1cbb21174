package env

import "os"

// Get reads key from the process environment. Unset or empty variables
// resolve to fallback.
func Get(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
