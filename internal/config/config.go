package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/kvist-io/settingstore/pkg/env"
)

// Config holds the application configuration
type Config struct {
	Host     string
	HTTPPort int
}

// NewConfig creates a new Config instance with values from environment variables
func NewConfig() *Config {
	httpPort := 8080 // Default HTTP port
	if portStr := os.Getenv("ST_HTTP_PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			httpPort = p
		}
	}

	host := os.Getenv("ST_HOST")
	if host == "" {
		// In Docker, bind to all interfaces
		if env.GetBool("ST_IN_DOCKER") {
			host = "0.0.0.0"
		} else {
			host = "localhost"
		}
	}

	return &Config{
		Host:     host,
		HTTPPort: httpPort,
	}
}

// GetAddress returns the full address for the server to listen on
func (c *Config) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HTTPPort)
}
