package config

import (
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort int

	// Storage selects the durable backend: file, sqlite, redis or memory.
	Storage    string
	CartDir    string
	SQLitePath string
	RedisAddr  string
}

func Load() Config {
	return Config{
		AppEnv:     getEnv("APP_ENV", "dev"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		HTTPPort:   getEnvInt("HTTP_PORT", 8080),
		Storage:    getEnv("CART_STORAGE", "file"),
		CartDir:    getEnv("CART_DIR", defaultCartDir()),
		SQLitePath: getEnv("SQLITE_PATH", "cartstate.db"),
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
	}
}

func defaultCartDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cartstate"
	}
	return filepath.Join(home, ".cartstate")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}
