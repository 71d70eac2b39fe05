package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the service configuration.
type Config struct {
	Port     string `yaml:"port" validate:"required"`
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	Storage StorageConfig `yaml:"storage"`
	Years   YearsConfig   `yaml:"years"`
	GenAI   GenAIConfig   `yaml:"genai"`

	// JWTSecret enables reading the operator name from bearer tokens.
	JWTSecret string `yaml:"jwt_secret"`
}

type StorageConfig struct {
	Driver     string `yaml:"driver" validate:"oneof=mongo sqlite memory"`
	SQLitePath string `yaml:"sqlite_path" validate:"required_if=Driver sqlite"`

	MongoUsername string `yaml:"mongo_username" validate:"required_if=Driver mongo"`
	MongoPassword string `yaml:"mongo_password" validate:"required_if=Driver mongo"`
	MongoCluster  string `yaml:"mongo_cluster" validate:"required_if=Driver mongo"`
	MongoAppName  string `yaml:"mongo_app_name" validate:"required_if=Driver mongo"`
	MongoDatabase string `yaml:"mongo_database"`
}

// MongoURI builds the Atlas connection string.
func (s StorageConfig) MongoURI() string {
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority&appName=%s",
		s.MongoUsername, s.MongoPassword, s.MongoCluster, s.MongoAppName)
}

type YearsConfig struct {
	Operating  int   `yaml:"operating" validate:"min=2000,max=2100"`
	Selectable []int `yaml:"selectable" validate:"min=1,dive,min=2000,max=2100"`
}

type GenAIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

func DefaultConfig() *Config {
	return &Config{
		Port:     "8081",
		LogLevel: "info",
		Storage: StorageConfig{
			Driver:        "sqlite",
			SQLitePath:    "prestacao_contas.db",
			MongoDatabase: "prestacao_contas",
		},
		Years: YearsConfig{
			Operating:  2025,
			Selectable: []int{2026, 2025, 2024},
		},
		GenAI: GenAIConfig{
			Model: "gemini-2.5-flash",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path,
// a .env file, and environment variables, in increasing priority.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.JWTSecret, "JWT_SECRET")

	setString(&c.Storage.Driver, "STORAGE_DRIVER")
	setString(&c.Storage.SQLitePath, "SQLITE_PATH")
	setString(&c.Storage.MongoUsername, "MONGO_USERNAME")
	setString(&c.Storage.MongoPassword, "MONGO_PASSWORD")
	setString(&c.Storage.MongoCluster, "MONGO_CLUSTER")
	setString(&c.Storage.MongoAppName, "MONGO_APP_NAME")
	setString(&c.Storage.MongoDatabase, "MONGO_DATABASE")

	setString(&c.GenAI.APIKey, "API_KEY")
	setString(&c.GenAI.APIKey, "GEMINI_API_KEY")
	setString(&c.GenAI.Model, "GEMINI_MODEL")

	if v := os.Getenv("OPERATING_YEAR"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid OPERATING_YEAR %q: %w", v, err)
		}
		c.Years.Operating = year
	}
	if v := os.Getenv("SELECTABLE_YEARS"); v != "" {
		years, err := parseYears(v)
		if err != nil {
			return err
		}
		c.Years.Selectable = years
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// parseYears reads a comma-separated list such as "2026,2025,2024".
func parseYears(s string) ([]int, error) {
	var years []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		year, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid SELECTABLE_YEARS entry %q: %w", part, err)
		}
		years = append(years, year)
	}
	return years, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if !slices.Contains(c.Years.Selectable, c.Years.Operating) {
		return fmt.Errorf("invalid configuration: operating year %d is not in selectable years %v",
			c.Years.Operating, c.Years.Selectable)
	}
	return nil
}
