package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool

	// Storage
	LibraryDSN string // empty keeps the library in memory
	StateDir   string // empty uses $XDG_STATE_HOME/papervox

	// Playback
	SettleDelay    time.Duration
	BaseRate       float64
	WordsPerSecond float64
	SpeechCommand  string // empty uses the timed engine
}

// Load reads the configuration from the environment, after loading an
// optional .env file from the working directory.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("PAPERVOX_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		LibraryDSN: os.Getenv("LIBRARY_DSN"),
		StateDir:   os.Getenv("STATE_DIR"),

		SettleDelay:    envDuration("PLAYBACK_SETTLE_DELAY", 150*time.Millisecond),
		BaseRate:       envFloat("PLAYBACK_BASE_RATE", 0.5),
		WordsPerSecond: envFloat("PLAYBACK_WORDS_PER_SECOND", 2.5),
		SpeechCommand:  os.Getenv("SPEECH_COMMAND"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.SettleDelay < 0 {
		cfg.SettleDelay = 150 * time.Millisecond
	}
	if cfg.WordsPerSecond <= 0 {
		cfg.WordsPerSecond = 2.5
	}

	return cfg
}

// Validate checks the settings the HTTP server needs.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("PAPERVOX_API_KEY is required")
	}
	return c.ValidatePlayback()
}

// ValidatePlayback checks the settings local playback needs.
func (c Config) ValidatePlayback() error {
	if c.BaseRate <= 0 || c.BaseRate > 1 {
		return fmt.Errorf("PLAYBACK_BASE_RATE must be in (0, 1], got %v", c.BaseRate)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
