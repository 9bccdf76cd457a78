package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Gemini configuration
	Gemini GeminiConfig `json:"gemini"`

	// Database configuration
	Database DatabaseConfig `json:"database"`

	// Game configuration
	Game GameConfig `json:"game"`

	// Server configuration
	Server ServerConfig `json:"server"`
}

// GeminiConfig holds dialogue service specific configuration
type GeminiConfig struct {
	// Environment variable holding the API key
	APIKeyEnv string `json:"api_key_env"`

	// Model name
	Model string `json:"model"`

	// Number of recent chat lines sent with each request
	HistoryWindow int `json:"history_window"`

	// Request timeout in seconds
	RequestTimeoutSeconds int `json:"request_timeout_seconds"`
}

// DatabaseConfig holds save storage specific configuration
type DatabaseConfig struct {
	// Storage driver (file, memory, sqlite3, sqlite, postgres)
	Driver string `json:"driver"`

	// Directory for the file driver, database path for sqlite3/sqlite,
	// connection string for postgres
	DSN string `json:"dsn"`
}

// GameConfig holds game specific configuration
type GameConfig struct {
	// Seconds between time-of-day changes
	TimeOfDayInterval int `json:"time_of_day_interval"`

	// Seconds between weather rolls
	WeatherInterval int `json:"weather_interval"`

	// Seconds between survival ticks
	SurvivalInterval int `json:"survival_interval"`

	// Probability that a weather roll comes up rainy (0-1)
	RainProbability float64 `json:"rain_probability"`

	// Probability of catching a cold per survival tick in the rain (0-1)
	SicknessProbability float64 `json:"sickness_probability"`

	// Probability that a failed conversation turn spawns a ghost (0-1)
	GhostSpawnProbability float64 `json:"ghost_spawn_probability"`

	// NPC paying the practice bonus
	TutorNPCID string `json:"tutor_npc_id"`

	// Zone a new session starts in
	StartZone string `json:"start_zone"`

	// Optional directory with JSON content overrides
	AssetsDir string `json:"assets_dir"`
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	// Server port
	Port string `json:"port"`

	// Log level (debug, info, warn, error)
	LogLevel string `json:"log_level"`

	// Externally reachable base URL, encoded in pairing QR codes
	PublicURL string `json:"public_url"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Gemini: GeminiConfig{
			APIKeyEnv:             "GEMINI_API_KEY",
			Model:                 "gemini-2.0-flash",
			HistoryWindow:         6,
			RequestTimeoutSeconds: 20,
		},
		Database: DatabaseConfig{
			Driver: "file",
			DSN:    "./data",
		},
		Game: GameConfig{
			TimeOfDayInterval:     45,
			WeatherInterval:       60,
			SurvivalInterval:      5,
			RainProbability:       0.3,
			SicknessProbability:   0.2,
			GhostSpawnProbability: 0.7,
			TutorNPCID:            "ai_tutor",
			StartZone:             "residential",
			AssetsDir:             "./assets/data",
		},
		Server: ServerConfig{
			Port:      "8080",
			LogLevel:  "info",
			PublicURL: "http://localhost:8080",
		},
	}
}

// Intervals converts the configured cadences into durations
func (g GameConfig) Intervals() (timeOfDay, weather, survival time.Duration) {
	return time.Duration(g.TimeOfDayInterval) * time.Second,
		time.Duration(g.WeatherInterval) * time.Second,
		time.Duration(g.SurvivalInterval) * time.Second
}

// RequestTimeout returns the dialogue request timeout
func (g GeminiConfig) RequestTimeout() time.Duration {
	return time.Duration(g.RequestTimeoutSeconds) * time.Second
}

// LoadConfig loads configuration from a file
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return config, err
	}

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Create default config file
		if err := SaveConfig(config, path); err != nil {
			return config, err
		}
		return config, nil
	}

	// Read config file
	file, err := os.Open(path)
	if err != nil {
		return config, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return config, err
	}

	return config, nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config Config, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Create or truncate file
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	// Write config to file
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(config)
}
