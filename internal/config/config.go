package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Port              string
	DatabaseURL       string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	CacheTTLMinutes   int
	TicketmasterKey   string
	SerpAPIKey        string
	EventbriteToken   string
	ScrapeSources     string
	GroqAPIKey        string
	CerebrasAPIKey    string
	AdminAPIKey       string
	FallbackPolicy    string
	AccumulateBudget  int
	PageDelayMs       int
	WindowDelayMs     int
	HTTPTimeoutSec    int
	DetailWindow      int
	TrackedTopics     string
	RefreshCron       string
	RefreshSize       int
	StrategyTablePath string
}

// Load loads configuration from environment variables
func Load() Config {
	return Config{
		Port:              getEnv("PORT", "8085"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		CacheTTLMinutes:   getEnvInt("CACHE_TTL_MINUTES", 30),
		TicketmasterKey:   os.Getenv("TICKETMASTER_API_KEY"),
		SerpAPIKey:        os.Getenv("SERPAPI_API_KEY"),
		EventbriteToken:   os.Getenv("EVENTBRITE_TOKEN"),
		ScrapeSources:     os.Getenv("SCRAPE_SOURCES"),
		GroqAPIKey:        os.Getenv("GROQ_API_KEY"),
		CerebrasAPIKey:    os.Getenv("CEREBRAS_API_KEY"),
		AdminAPIKey:       getEnv("ADMIN_API_KEY", ""),
		FallbackPolicy:    getEnv("FALLBACK_POLICY", "FIRST_SUCCESS"),
		AccumulateBudget:  getEnvInt("ACCUMULATE_BUDGET", 3),
		PageDelayMs:       getEnvInt("PAGE_DELAY_MS", 500),
		WindowDelayMs:     getEnvInt("WINDOW_DELAY_MS", 1000),
		HTTPTimeoutSec:    getEnvInt("HTTP_TIMEOUT_SEC", 15),
		DetailWindow:      getEnvInt("DETAIL_WINDOW", 5),
		TrackedTopics:     os.Getenv("TRACKED_TOPICS"),
		RefreshCron:       getEnv("REFRESH_CRON", "0 6 * * *"),
		RefreshSize:       getEnvInt("REFRESH_SIZE", 50),
		StrategyTablePath: getEnv("STRATEGY_TABLE_PATH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
