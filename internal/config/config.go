// Package config reads library configuration from environment
// variables. Loading never fails; constructors that consume the values
// validate them.
package config

import (
	"os"
	"strconv"
)

type Config struct {
	Recognition RecognitionConfig
	Detector    DetectorConfig
	Web         WebConfig
}

// RecognitionConfig holds the remote recognition server settings.
type RecognitionConfig struct {
	URL    string // template extraction endpoint
	APIKey string // sent as x-api-key
}

// DetectorConfig holds on-device detector settings.
type DetectorConfig struct {
	FacefinderPath   string // pigo facefinder cascade file
	PuplocPath       string // pigo puploc cascade file
	MinFaceSize      int
	MaxFaceSize      int
	QualityThreshold float64
}

// WebConfig holds settings for the serve command.
type WebConfig struct {
	Host   string
	Port   int
	APIKey string // empty disables authentication
}

// envString reads an environment variable with a default.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

func Load() *Config {
	return &Config{
		Recognition: RecognitionConfig{
			URL:    os.Getenv("R300_SERVER_URL"),
			APIKey: os.Getenv("R300_API_KEY"),
		},
		Detector: DetectorConfig{
			FacefinderPath:   envString("R300_FACEFINDER_PATH", "cascade/facefinder"),
			PuplocPath:       envString("R300_PUPLOC_PATH", "cascade/puploc"),
			MinFaceSize:      envInt("R300_MIN_FACE_SIZE", 20),
			MaxFaceSize:      envInt("R300_MAX_FACE_SIZE", 1000),
			QualityThreshold: envFloat("R300_QUALITY_THRESHOLD", 5.0),
		},
		Web: WebConfig{
			Host:   envString("WEB_HOST", "0.0.0.0"),
			Port:   envInt("WEB_PORT", 8080),
			APIKey: os.Getenv("WEB_API_KEY"),
		},
	}
}
