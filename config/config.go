// Package config loads application settings from the environment, with an
// optional .env file for development.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Settings holds the runtime configuration. Out-of-range numeric values are
// clamped to their documented bounds rather than rejected: a misconfigured
// cache must degrade, never prevent start-up.
type Settings struct {
	// Application
	AppTitle          string
	ListenAddr        string
	MaxTextLength     int
	DefaultSourceLang string
	DefaultTargetLang string

	// Cache
	CacheEnabled  bool
	CacheMaxSize  int    // [10, 10000]
	CacheTTLHours int    // [1, 168]
	RedisURL      string // When set, the Redis store backs the cache

	// Providers
	OpenAIAPIKey string
	OpenAIModel  string

	// Text-to-speech
	TTSEnabled bool

	// Performance
	TranslationTimeout time.Duration // [5s, 30s]
	MaxRetries         int           // [1, 5]
	RetryDelay         time.Duration // [500ms, 5s]

	// Development
	Debug    bool
	LogLevel string
}

// Load reads settings from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Settings {
	_ = godotenv.Load()

	s := &Settings{
		AppTitle:          envString("APP_TITLE", "Lingo Translation Service"),
		ListenAddr:        envString("LISTEN_ADDR", ":8080"),
		MaxTextLength:     envInt("MAX_TEXT_LENGTH", 5000, 1, 10000),
		DefaultSourceLang: envString("DEFAULT_SOURCE_LANG", "auto"),
		DefaultTargetLang: envString("DEFAULT_TARGET_LANG", "es"),

		CacheEnabled:  envBool("CACHE_ENABLED", true),
		CacheMaxSize:  envInt("CACHE_MAX_SIZE", 1000, 10, 10000),
		CacheTTLHours: envInt("CACHE_TTL_HOURS", 24, 1, 168),
		RedisURL:      envString("REDIS_URL", ""),

		OpenAIAPIKey: envString("OPENAI_API_KEY", ""),
		OpenAIModel:  envString("OPENAI_MODEL", ""),

		TTSEnabled: envBool("TTS_ENABLED", true),

		TranslationTimeout: envSeconds("TRANSLATION_TIMEOUT", 10, 5, 30),
		MaxRetries:         envInt("MAX_RETRIES", 3, 1, 5),
		RetryDelay:         envDuration("RETRY_DELAY", time.Second, 500*time.Millisecond, 5*time.Second),

		Debug:    envBool("DEBUG", false),
		LogLevel: envString("LOG_LEVEL", "info"),
	}

	return s
}

// CacheTTL returns the cache TTL as a duration.
func (s *Settings) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLHours) * time.Hour
}

// ConfigureLogging applies LogLevel (and Debug) to the standard logger.
func (s *Settings) ConfigureLogging() {
	level, err := logrus.ParseLevel(strings.ToLower(s.LogLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	if s.Debug && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}

	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

func envInt(key string, def, min, max int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.WithField("key", key).Warn("ignoring non-numeric setting")
		return def
	}

	return clampInt(key, n, min, max)
}

// envSeconds reads an integer number of seconds, bounds included.
func envSeconds(key string, def, min, max int) time.Duration {
	return time.Duration(envInt(key, def, min, max)) * time.Second
}

// envDuration reads a float number of seconds (the original accepted 0.5).
func envDuration(key string, def, min, max time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logrus.WithField("key", key).Warn("ignoring non-numeric setting")
		return def
	}

	d := time.Duration(f * float64(time.Second))
	if d < min {
		logrus.WithField("key", key).Warn("setting below minimum, clamping")
		return min
	}
	if d > max {
		logrus.WithField("key", key).Warn("setting above maximum, clamping")
		return max
	}
	return d
}

func clampInt(key string, n, min, max int) int {
	if n < min {
		logrus.WithField("key", key).Warn("setting below minimum, clamping")
		return min
	}
	if n > max {
		logrus.WithField("key", key).Warn("setting above maximum, clamping")
		return max
	}
	return n
}
