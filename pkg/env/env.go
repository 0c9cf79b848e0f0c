package env

import (
	"os"
	"strings"
)

// Get returns the trimmed value of the given environment variable, or
// fallback when it is unset or blank.
func Get(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

// ListenAddr returns the address the web server binds. Hosts that inject PORT
// win over the configured port, and either may be given with or without the
// leading colon.
func ListenAddr(configuredPort string) string {
	port := strings.TrimPrefix(Get("PORT", configuredPort), ":")
	return ":" + port
}
