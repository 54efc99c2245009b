package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrUnknownDriver = errors.New("unknown store driver")

// Config is everything the server and the CLI read from the environment.
type Config struct {
	Addr        string
	StoreDriver string
	DatabaseURL string
	SQLitePath  string

	Namespace string
	Games     []string // nil means the ledger defaults
	MaxScores int
	SeedDemo  bool

	KafkaBrokers     []string
	KafkaScoresTopic string
	KafkaEventsTopic string
	KafkaGroupID     string

	LogLevel string
}

// InitConfig loads a .env file into the environment when one exists.
// Variables already set in the environment win.
func InitConfig(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading env file: %w", err)
	}
	return nil
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	cfg := Config{
		Addr:             getEnv("ADDR", ":8080"),
		StoreDriver:      strings.ToLower(getEnv("STORE_DRIVER", DriverMemory)),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		SQLitePath:       getEnv("SQLITE_PATH", "arcade.db"),
		Namespace:        getEnv("HIGHSCORE_NAMESPACE", "arcade_highscores"),
		Games:            splitList(os.Getenv("ARCADE_GAMES")),
		KafkaBrokers:     splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaScoresTopic: getEnv("KAFKA_SCORES_TOPIC", "arcade-score-update"),
		KafkaEventsTopic: getEnv("KAFKA_EVENTS_TOPIC", "score_recorded"),
		KafkaGroupID:     getEnv("KAFKA_GROUP_ID", "arcade-highscore-ledger"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.MaxScores, err = getInt("MAX_SCORES", 5); err != nil {
		return Config{}, err
	}
	if cfg.MaxScores <= 0 {
		return Config{}, fmt.Errorf("MAX_SCORES must be positive, got %d", cfg.MaxScores)
	}
	if cfg.SeedDemo, err = getBool("SEED_DEMO", true); err != nil {
		return Config{}, err
	}

	switch cfg.StoreDriver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required for the %s driver", DriverPostgres)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.StoreDriver)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
