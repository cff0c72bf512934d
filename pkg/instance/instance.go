package instance

import "os"

var envKeys = []string{"PHONEDEX_INSTANCE_ID", "DYNO"}

// GetID returns the replica identifier used in logs and lock owners, falling
// back to the hostname and then to fallback.
func GetID(fallback string) string {
	for _, key := range envKeys {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallback
}
