package config

import (
	"os"
	"path/filepath"
	"time"
)

const DefaultAPIURL = "http://127.0.0.1:5000"

// ClientConfig configures the habits command line client.
type ClientConfig struct {
	APIURL      string
	SessionFile string
	Timeout     time.Duration
}

func LoadClient() *ClientConfig {
	return &ClientConfig{
		APIURL:      getEnv("HABITS_API_URL", DefaultAPIURL),
		SessionFile: getEnv("HABITS_SESSION_FILE", defaultSessionFile()),
		Timeout:     getEnvDuration("HABITS_TIMEOUT", 10*time.Second),
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".habits-session.yaml"
	}
	return filepath.Join(dir, "kanso-habits", "session.yaml")
}
