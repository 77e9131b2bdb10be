package config

import (
	"fmt"
	"os"
	"strconv"

	"coinTossServer/game"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Settings is the resolved runtime configuration.
// Precedence: built-in defaults < TOML file < environment.
type Settings struct {
	Host string
	Port string

	DatabaseURL   string
	RedisURL      string
	RedisPassword string
	RedisDB       int

	TieBreak game.TieBreak
	MaxDraws int
	BinCount int

	LogLevel string
}

// FileConfig mirrors the optional TOML configuration file.
type FileConfig struct {
	Server ServerFileConfig `toml:"server"`
	Game   GameFileConfig   `toml:"game"`
}

// ServerFileConfig maps the [server] table.
type ServerFileConfig struct {
	Host        *string `toml:"host"`
	Port        *string `toml:"port"`
	DatabaseURL *string `toml:"database-url"`
	RedisURL    *string `toml:"redis-url"`
	LogLevel    *string `toml:"log-level"`
}

// GameFileConfig maps the [game] table.
type GameFileConfig struct {
	TieBreak *string `toml:"tie-break"`
	MaxDraws *int    `toml:"max-draws"`
	BinCount *int    `toml:"bins"`
}

// Defaults returns the settings used when nothing else is configured.
func Defaults() Settings {
	return Settings{
		Host:     ServerHost,
		Port:     ServerPort,
		RedisURL: "localhost:6379",
		TieBreak: game.FewerTosses,
		MaxDraws: DefaultMaxDraws,
		BinCount: game.DefaultBinCount,
		LogLevel: "info",
	}
}

// Load resolves settings from .env, the TOML file at path (if any) and the
// process environment. A missing .env or TOML file is not an error.
func Load(path string) (Settings, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("⚠️  .env file not found, using environment variables")
	} else {
		log.Debug("✅ Loaded environment variables from .env")
	}

	s := Defaults()

	if path == "" {
		path = os.Getenv("COINTOSS_CONFIG")
	}
	if path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return Settings{}, err
		}
		if err := s.applyFile(fileCfg); err != nil {
			return Settings{}, err
		}
	}

	if err := s.applyEnv(os.Getenv); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadFile reads a TOML config from the given path. Missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

func (s *Settings) applyFile(f FileConfig) error {
	if f.Server.Host != nil {
		s.Host = *f.Server.Host
	}
	if f.Server.Port != nil {
		s.Port = *f.Server.Port
	}
	if f.Server.DatabaseURL != nil {
		s.DatabaseURL = *f.Server.DatabaseURL
	}
	if f.Server.RedisURL != nil {
		s.RedisURL = *f.Server.RedisURL
	}
	if f.Server.LogLevel != nil {
		s.LogLevel = *f.Server.LogLevel
	}
	if f.Game.TieBreak != nil {
		tb, err := game.ParseTieBreak(*f.Game.TieBreak)
		if err != nil {
			return fmt.Errorf("config file: tie-break: %w", err)
		}
		s.TieBreak = tb
	}
	if f.Game.MaxDraws != nil {
		if *f.Game.MaxDraws < 0 {
			return fmt.Errorf("config file: max-draws must not be negative, got %d", *f.Game.MaxDraws)
		}
		s.MaxDraws = *f.Game.MaxDraws
	}
	if f.Game.BinCount != nil {
		if *f.Game.BinCount < 1 || *f.Game.BinCount > MaxBinCount {
			return fmt.Errorf("config file: bins must be within [1, %d], got %d", MaxBinCount, *f.Game.BinCount)
		}
		s.BinCount = *f.Game.BinCount
	}
	return nil
}

func (s *Settings) applyEnv(getenv func(string) string) error {
	if v := getenv("HOST"); v != "" {
		s.Host = v
	}
	if v := getenv("PORT"); v != "" {
		s.Port = v
	}
	if v := getenv("DATABASE_URL"); v != "" {
		s.DatabaseURL = v
	}
	if v := getenv("REDIS_URL"); v != "" {
		s.RedisURL = v
	}
	if v := getenv("REDIS_PASSWORD"); v != "" {
		s.RedisPassword = v
	}
	if v := getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		s.RedisDB = db
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
	if v := getenv("COINTOSS_TIE_BREAK"); v != "" {
		tb, err := game.ParseTieBreak(v)
		if err != nil {
			return fmt.Errorf("COINTOSS_TIE_BREAK: %w", err)
		}
		s.TieBreak = tb
	}
	if v := getenv("COINTOSS_MAX_DRAWS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid COINTOSS_MAX_DRAWS %q", v)
		}
		s.MaxDraws = n
	}
	return nil
}

// Addr returns the listen address.
func (s Settings) Addr() string {
	return s.Host + ":" + s.Port
}

// ConfigureLogging applies LogLevel to the standard logrus logger.
func (s Settings) ConfigureLogging() {
	level, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		log.Warnf("⚠️  Unknown log level %q, using info", s.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}
