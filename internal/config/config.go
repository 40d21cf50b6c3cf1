package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr         string   // API bind address
	LogDir       string   // logs directory
	DatabaseURL  string   // empty means in-memory probe history
	SlackWebhook string   // empty disables exhaustion alerts
	KafkaBrokers []string // empty disables the Kafka publisher
	KafkaTopic   string
	APIKeys      []string // empty allows all requests (local dev)
	RatePerMin   int
	RateBurst    int

	// per-attempt strategy tuning
	DialTimeout    time.Duration
	CommandTimeout time.Duration
	PostgresUser   string
}

func FromEnv() Config {
	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		topic = "probe-results"
	}

	return Config{
		Addr:           addr,
		LogDir:         logDir,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SlackWebhook:   os.Getenv("SLACK_WEBHOOK_URL"),
		KafkaBrokers:   splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:     topic,
		APIKeys:        splitList(os.Getenv("API_KEYS")),
		RatePerMin:     envInt("RATE_PER_MIN", 120),
		RateBurst:      envInt("RATE_BURST", 60),
		DialTimeout:    envMillis("DIAL_TIMEOUT_MS", 2000),
		CommandTimeout: envMillis("COMMAND_TIMEOUT_MS", 5000),
		PostgresUser:   os.Getenv("PROBE_PG_USER"),
	}
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envMillis(key string, defMS int) time.Duration {
	return time.Duration(envInt(key, defMS)) * time.Millisecond
}
