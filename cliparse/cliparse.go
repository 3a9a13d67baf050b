package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"

	"github.com/danielhkuo/readiness-pulse/scoring"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	AdminKeySalt string
	SlugSalt     string

	// Sentiment service (optional; empty URL disables the signal)
	SentimentURL string
	SentimentKey string

	// Scoring tunables
	CoverageThreshold  int
	MinWordCount       int
	ShortAnswerPenalty float64
	BaseInterval       float64
	OutlierSDs         float64
	SentimentWeight    float64
	BatchConcurrency   int
}

// ScoringParams maps the configured tunables into a scoring.Params.
func (c Config) ScoringParams() scoring.Params {
	return scoring.Params{
		CoverageThreshold:  c.CoverageThreshold,
		MinWordCount:       c.MinWordCount,
		ShortAnswerPenalty: c.ShortAnswerPenalty,
		BaseInterval:       c.BaseInterval,
		OutlierSDs:         c.OutlierSDs,
		SentimentWeight:    c.SentimentWeight,
	}
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	defaults := scoring.DefaultParams()

	fs := flag.NewFlagSet("readiness-pulse", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")
	fs.StringVar(&cfg.SlugSalt, "slug-salt", "", "Survey slug salt (prefer env)")

	// Sentiment service
	fs.StringVar(&cfg.SentimentURL, "sentiment-url", "", "Sentiment API endpoint (empty disables)")
	fs.StringVar(&cfg.SentimentKey, "sentiment-key", "", "Sentiment API key (prefer env)")

	// Scoring tunables
	fs.IntVar(&cfg.CoverageThreshold, "coverage-threshold", defaults.CoverageThreshold, "Min questions per force before a low-coverage warning")
	fs.IntVar(&cfg.MinWordCount, "min-words", defaults.MinWordCount, "Word count under which answers take the short-answer penalty")
	fs.Float64Var(&cfg.ShortAnswerPenalty, "short-penalty", defaults.ShortAnswerPenalty, "Quality multiplier for short answers")
	fs.Float64Var(&cfg.BaseInterval, "base-interval", defaults.BaseInterval, "Confidence interval width for a single-response force")
	fs.Float64Var(&cfg.OutlierSDs, "outlier-sds", defaults.OutlierSDs, "Standard deviations from the mean before flagging an outlier")
	fs.Float64Var(&cfg.SentimentWeight, "sentiment-weight", defaults.SentimentWeight, "Max quality adjustment from the sentiment signal")
	fs.IntVar(&cfg.BatchConcurrency, "batch-concurrency", 8, "Concurrent respondents per batch analysis")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3418 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	if cfg.SlugSalt == "" {
		cfg.SlugSalt = os.Getenv("SURVEY_SLUG_SALT")
	}
	if cfg.SlugSalt == "" {
		return Config{}, errors.New("SURVEY_SLUG_SALT required")
	}

	// Sentiment service is optional
	if cfg.SentimentURL == "" {
		cfg.SentimentURL = os.Getenv("SENTIMENT_API_URL")
	}
	if cfg.SentimentKey == "" {
		cfg.SentimentKey = os.Getenv("SENTIMENT_API_KEY")
	}

	if cfg.BatchConcurrency < 1 {
		return Config{}, errors.New("batch concurrency must be at least 1")
	}

	return cfg, nil
}
