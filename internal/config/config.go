package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Almacenes soportados por USER_STORE / TASK_STORE.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

type Config struct {
	HTTPPort     string
	LogLevel     string
	MaxPageLimit int

	SQLitePath  string
	DatabaseURL string
	UserStore   string
	TaskStore   string

	MongoURI string
	MongoDB  string

	ClickHouseAddr string
	ClickHouseDB   string

	RedisAddr string
	CacheTTL  time.Duration

	UseKafka     bool
	KafkaBrokers []string
}

func LoadConfig() *Config {
	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	getInt := func(key string, fallback int) int {
		n, err := strconv.Atoi(os.Getenv(key))
		if err != nil || n <= 0 {
			return fallback
		}
		return n
	}

	getDuration := func(key string, fallback time.Duration) time.Duration {
		d, err := time.ParseDuration(os.Getenv(key))
		if err != nil || d <= 0 {
			return fallback
		}
		return d
	}

	getBool := func(key string, fallback bool) bool {
		b, err := strconv.ParseBool(os.Getenv(key))
		if err != nil {
			return fallback
		}
		return b
	}

	oneOf := func(key, fallback string, allowed ...string) string {
		v := strings.ToLower(getEnv(key, fallback))
		for _, a := range allowed {
			if v == a {
				return v
			}
		}
		return fallback
	}

	var brokers []string
	for _, b := range strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	return &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		MaxPageLimit:   getInt("MAX_PAGE_LIMIT", 100),
		SQLitePath:     getEnv("SQLITE_PATH", "./relaypage.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		UserStore:      oneOf("USER_STORE", StoreSQLite, StoreSQLite, StorePostgres),
		TaskStore:      oneOf("TASK_STORE", StoreSQLite, StoreSQLite, StorePostgres, StoreMongo),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGO_DB", "relaypage"),
		ClickHouseAddr: os.Getenv("CLICKHOUSE_ADDR"),
		ClickHouseDB:   getEnv("CLICKHOUSE_DB", "default"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		CacheTTL:       getDuration("CACHE_TTL", 5*time.Minute),
		UseKafka:       getBool("USE_KAFKA", false),
		KafkaBrokers:   brokers,
	}
}
