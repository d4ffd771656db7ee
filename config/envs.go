package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultNotesAPIURL = "https://notas-compartilhadas.onrender.com"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP          string        // Host IP for the web server
	HTTPPort        int           // Port for the web server
	GinMode         string        // Mode for the Gin framework (e.g., release, debug, test)
	NotesAPIURL     string        // Base URL of the remote notes API (without /api/notas)
	NotesAPITimeout time.Duration // Timeout for a single request to the notes API
	LoadingDelay    time.Duration // Artificial delay after the first fetch before the board is shown
	SnakeTick       time.Duration // Period of the snake simulation tick
	ViewerTTL       time.Duration // Idle time after which a viewer is discarded
	ViewerSecret    string        // Key that signs viewer cookies; empty means a random key per process
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		HostIP:          getEnvWithDefault("HOST_IP", "0.0.0.0"),
		HTTPPort:        getEnvAsIntWithDefault("HTTP_PORT", 3000),
		GinMode:         getEnvWithDefault("GIN_MODE", "release"),
		NotesAPIURL:     getEnvWithDefault("NOTES_API_URL", defaultNotesAPIURL),
		NotesAPITimeout: getEnvAsMillisWithDefault("NOTES_API_TIMEOUT_MS", 10*time.Second),
		LoadingDelay:    getEnvAsMillisWithDefault("LOADING_DELAY_MS", 2*time.Second),
		SnakeTick:       getEnvAsMillisWithDefault("SNAKE_TICK_MS", 200*time.Millisecond),
		ViewerTTL:       time.Duration(getEnvAsIntWithDefault("VIEWER_TTL_SECONDS", 30*60)) * time.Second,
		ViewerSecret:    getEnvWithDefault("VIEWER_SECRET", ""),
	}
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntWithDefault retrieves an environment variable as an integer.
// It logs a fatal error if the variable is set but cannot be parsed.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

// getEnvAsMillisWithDefault reads an integer number of milliseconds.
func getEnvAsMillisWithDefault(key string, defaultValue time.Duration) time.Duration {
	ms := getEnvAsIntWithDefault(key, int(defaultValue/time.Millisecond))
	return time.Duration(ms) * time.Millisecond
}
