// Package env reads the handful of variables that sit outside the
// PHONEBECH_ envconfig prefix, like LOG_FORMAT and the platform PORT.
package env

import "os"

// Get returns the variable's value, or fallback when unset or empty.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
