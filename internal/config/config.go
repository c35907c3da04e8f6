package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// defaultRemoteKMZURL is the assessing company's published parcel archive.
const defaultRemoteKMZURL = "https://4a1b1e2a-906f-4969-8e26-d6a9ca3c78df.filesusr.com/ugd/85f57f_24a82e0a5f174629ab7ed01b8f67a2f5.kmz?dn=DixmontParcels.kmz"

// Config holds all service settings, populated from environment variables.
type Config struct {
	RemoteKMZURL    string
	DataDir         string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Remote archive acquisition.
	FetchTimeout    time.Duration
	MinArchiveBytes int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	fetchTimeout, err := durationOrDefault("FETCH_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := durationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	minArchiveBytes, err := intOrDefault("MIN_ARCHIVE_BYTES", 10000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		RemoteKMZURL:    envOrDefault("REMOTE_KMZ_URL", defaultRemoteKMZURL),
		DataDir:         envOrDefault("DATA_DIR", "data"),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		FetchTimeout:    fetchTimeout,
		MinArchiveBytes: minArchiveBytes,
	}

	if cfg.RemoteKMZURL == "" {
		return nil, errors.New("REMOTE_KMZ_URL is required")
	}
	if cfg.DataDir == "" {
		return nil, errors.New("DATA_DIR is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func intOrDefault(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
