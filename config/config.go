package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
type Config struct {
	ListenAddr     string
	FFmpegPath     string
	OutputDir      string // Directory for transcoded output files, swept by the janitor
	DefaultBitrate int    // Target MP3 bitrate in kbps when the client does not override it
	SampleRate     int
	Channels       int

	// Metadata cache tuning.
	CacheTTL      time.Duration
	CacheCapacity int

	// Filesystem janitor tuning.
	JanitorInterval time.Duration
	RetentionWindow time.Duration

	// Upstream resolution.
	PlayerAPIURL   string
	WatchBaseURL   string
	UserAgent      string
	RequestTimeout time.Duration

	// Logging.
	LogLevel string
	LogPath  string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvDuration gets an environment variable as a duration or returns a default value.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}

	return &Config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		FFmpegPath:     getEnv("FFMPEG_PATH", "ffmpeg"),
		OutputDir:      getEnv("OUTPUT_DIR", "downloads"),
		DefaultBitrate: getEnvInt("DEFAULT_BITRATE", 128),
		SampleRate:     getEnvInt("SAMPLE_RATE", 44100),
		Channels:       getEnvInt("CHANNELS", 2),

		CacheTTL:      getEnvDuration("CACHE_TTL", 10*time.Minute),
		CacheCapacity: getEnvInt("CACHE_CAPACITY", 1000),

		JanitorInterval: getEnvDuration("JANITOR_INTERVAL", 30*time.Minute),
		RetentionWindow: getEnvDuration("RETENTION_WINDOW", 24*time.Hour),

		PlayerAPIURL: getEnv("PLAYER_API_URL", "https://www.youtube.com/youtubei/v1/player"),
		WatchBaseURL: getEnv("WATCH_BASE_URL", "https://www.youtube.com/watch"),
		UserAgent: getEnv("USER_AGENT",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogPath:  getEnv("LOG_PATH", ""),
	}
}
