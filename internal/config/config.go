package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

type Config struct {
	Addr                string
	AllowOrigins        string
	WSBufferSize        int
	MatchmakingInterval time.Duration
	LogLevel            log.Level
}

func Default() Config {
	return Config{
		Addr:                ":8080",
		AllowOrigins:        "http://localhost:5173",
		WSBufferSize:        1024,
		MatchmakingInterval: time.Second,
		LogLevel:            log.LevelInfo,
	}
}

// Load reads the CHESS_* environment variables over the defaults.
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

func LoadFrom(getenv func(string) string) (Config, error) {
	cfg := Default()

	if v := getenv("CHESS_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv("CHESS_ALLOW_ORIGINS"); v != "" {
		cfg.AllowOrigins = v
	}
	if v := getenv("CHESS_WS_BUFFER_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("CHESS_WS_BUFFER_SIZE: invalid size %q", v)
		}
		cfg.WSBufferSize = n
	}
	if v := getenv("CHESS_MATCHMAKING_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("CHESS_MATCHMAKING_INTERVAL: invalid duration %q", v)
		}
		cfg.MatchmakingInterval = d
	}
	if v := getenv("CHESS_LOG_LEVEL"); v != "" {
		level, err := parseLevel(v)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

func parseLevel(v string) (log.Level, error) {
	switch strings.ToLower(v) {
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return log.LevelInfo, fmt.Errorf("CHESS_LOG_LEVEL: unknown level %q", v)
}

// Origins splits AllowOrigins for the websocket origin check.
func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
