package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the config file
// and environment variables.
type Config struct {
	Env  string `mapstructure:"env"`  // current application environment (local, production, ...)
	Addr string `mapstructure:"addr"` // HTTP listen address

	DB      DB      `mapstructure:"database"` // key-value store configuration
	OpenTDB OpenTDB `mapstructure:"opentdb"`  // remote question service configuration
	Quiz    Quiz    `mapstructure:"quiz"`     // session timing configuration

	BankPath string `mapstructure:"bank_path"` // optional override for the bundled question bank
}

type DB struct {
	Path string `mapstructure:"path"` // SQLite database file path
}

type OpenTDB struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Quiz struct {
	QuestionSeconds int           `mapstructure:"question_seconds"`
	SkipDelay       time.Duration `mapstructure:"skip_delay"`
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetDefault("env", "local")
	v.SetDefault("addr", ":8080")
	v.SetDefault("database.path", "trivia.db")
	v.SetDefault("opentdb.base_url", "https://opentdb.com/api.php")
	v.SetDefault("opentdb.timeout", "10s")
	v.SetDefault("quiz.question_seconds", 30)
	v.SetDefault("quiz.skip_delay", "150ms")
	v.SetDefault("bank_path", "")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("addr", "ADDR")
	_ = v.BindEnv("database.path", "DATABASE_PATH")
	_ = v.BindEnv("opentdb.base_url", "OPENTDB_BASE_URL")
	_ = v.BindEnv("bank_path", "BANK_PATH")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &cfg, nil
}
