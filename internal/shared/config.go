package shared

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const configPathEnv = "TRAVEL_CONFIG"

type Config struct {
	AppEnv      string `yaml:"appEnv"`
	HTTPAddr    string `yaml:"httpAddr"`
	MetricsAddr string `yaml:"metricsAddr"`
	MySQLDSN    string `yaml:"mysqlDsn"`
	RedisAddr   string `yaml:"redisAddr"`
	RedisDB     int    `yaml:"redisDb"`
	RedisPass   string `yaml:"redisPassword"`

	PlacesKey  string `yaml:"placesApiKey"`
	PlacesBase string `yaml:"placesBaseUrl"`
	PlacesRPS  int    `yaml:"placesRps"`

	GeminiKey   string `yaml:"geminiApiKey"`
	GeminiModel string `yaml:"geminiModel"`
	GeminiBase  string `yaml:"geminiBaseUrl"`

	SentimentURL string `yaml:"sentimentUrl"`
	SentimentKey string `yaml:"sentimentApiKey"`

	MaxResults int           `yaml:"maxResultsPerType"`
	PhotoDelay time.Duration `yaml:"-"`
	CacheTTL   time.Duration `yaml:"-"`

	PhotoDelayMS    int `yaml:"photoDelayMs"`
	CacheTTLSeconds int `yaml:"cacheTtlSeconds"`

	WarmDestinations []string `yaml:"warmDestinations"`
	WarmWorkers      int      `yaml:"warmWorkers"`
}

func defaults() Config {
	return Config{
		AppEnv:          "prod",
		HTTPAddr:        ":8080",
		PlacesBase:      "https://maps.googleapis.com/maps/api/place",
		PlacesRPS:       5,
		GeminiModel:     "gemini-2.5-flash",
		SentimentURL:    "https://api-inference.huggingface.co/models/distilbert-base-uncased-finetuned-sst-2-english",
		MaxResults:      20,
		PhotoDelayMS:    200,
		CacheTTLSeconds: 900,
		WarmWorkers:     4,
	}
}

// Load resolves settings from defaults, the YAML file named by $TRAVEL_CONFIG, a
// local .env file and the process environment, later sources winning.
func Load() Config {
	c := defaults()
	if path := os.Getenv(configPathEnv); path != "" {
		if err := loadFile(path, &c); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("config file ignored")
		}
	}
	// .env never overrides variables that are already set
	_ = godotenv.Load()
	applyEnv(&c)

	c.PhotoDelay = time.Duration(c.PhotoDelayMS) * time.Millisecond
	c.CacheTTL = time.Duration(c.CacheTTLSeconds) * time.Second

	if c.PlacesKey == "" {
		log.Warn().Msg("GOOGLE_PLACES_API_KEY is empty")
	}
	if c.GeminiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is empty")
	}
	return c
}

func loadFile(path string, c *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func applyEnv(c *Config) {
	c.AppEnv = env("APP_ENV", c.AppEnv)
	c.HTTPAddr = env("HTTP_ADDR", c.HTTPAddr)
	c.MetricsAddr = env("METRICS_ADDR", c.MetricsAddr)
	c.MySQLDSN = env("MYSQL_DSN", c.MySQLDSN)
	c.RedisAddr = env("REDIS_ADDR", c.RedisAddr)
	c.RedisPass = env("REDIS_PASSWORD", c.RedisPass)
	c.RedisDB = atoi("REDIS_DB", c.RedisDB)

	c.PlacesKey = env("GOOGLE_PLACES_API_KEY", c.PlacesKey)
	c.PlacesBase = env("PLACES_BASE_URL", c.PlacesBase)
	c.PlacesRPS = atoi("PLACES_RPS", c.PlacesRPS)

	c.GeminiKey = env("GEMINI_API_KEY", c.GeminiKey)
	c.GeminiModel = env("GEMINI_MODEL", c.GeminiModel)
	c.GeminiBase = env("GEMINI_BASE_URL", c.GeminiBase)

	c.SentimentURL = env("SENTIMENT_URL", c.SentimentURL)
	c.SentimentKey = env("SENTIMENT_API_KEY", c.SentimentKey)

	c.MaxResults = atoi("MAX_RESULTS_PER_TYPE", c.MaxResults)
	c.PhotoDelayMS = atoi("PHOTO_DELAY_MS", c.PhotoDelayMS)
	c.CacheTTLSeconds = atoi("CACHE_TTL_SECONDS", c.CacheTTLSeconds)

	if v := os.Getenv("WARM_DESTINATIONS"); v != "" {
		c.WarmDestinations = splitList(v)
	}
	c.WarmWorkers = atoi("WARM_WORKERS", c.WarmWorkers)
}

// splitList splits on ';' so destinations like "Paris, France" survive.
func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ";") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
	}
	return def
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
