package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port           string  `yaml:"port"`
	Environment    string  `yaml:"env"`
	ReadTimeout    int     `yaml:"read_timeout"`
	WriteTimeout   int     `yaml:"write_timeout"`
	DBPath         string  `yaml:"db_path"`
	MigrationsPath string  `yaml:"migrations_path"`
	HouseSource    string  `yaml:"house_source"`
	FlatSource     string  `yaml:"flat_source"`
	FetchTimeout   int     `yaml:"fetch_timeout"`
	ColorSeed      int64   `yaml:"color_seed"`
	EdgeThreshold  float64 `yaml:"edge_threshold"`
}

// Load загружает конфигурацию: значения по умолчанию, затем YAML-файл
// из CONFIG_FILE (если задан), затем переменные окружения.
func Load() *Config {
	cfg := &Config{
		Port:           "3000",
		Environment:    "development",
		ReadTimeout:    10,
		WriteTimeout:   10,
		DBPath:         "data/db/viewer.db",
		MigrationsPath: "migrations/001_init_houses.sql",
		HouseSource:    "house.json",
		FlatSource:     "house01.json",
		FetchTimeout:   10,
		EdgeThreshold:  1,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			log.Printf("[CONFIG] Ignoring %s: %v", path, err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Environment = getEnv("ENV", cfg.Environment)
	cfg.ReadTimeout = getEnvAsInt("READ_TIMEOUT", cfg.ReadTimeout)
	cfg.WriteTimeout = getEnvAsInt("WRITE_TIMEOUT", cfg.WriteTimeout)
	cfg.DBPath = getEnv("VIEWER_DB_PATH", cfg.DBPath)
	cfg.MigrationsPath = getEnv("MIGRATIONS_PATH", cfg.MigrationsPath)
	cfg.HouseSource = getEnv("HOUSE_SOURCE", cfg.HouseSource)
	cfg.FlatSource = getEnv("FLAT_SOURCE", cfg.FlatSource)
	cfg.FetchTimeout = getEnvAsInt("FETCH_TIMEOUT", cfg.FetchTimeout)
	cfg.ColorSeed = getEnvAsInt64("COLOR_SEED", cfg.ColorSeed)
	cfg.EdgeThreshold = getEnvAsFloat("EDGE_THRESHOLD", cfg.EdgeThreshold)

	return cfg
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsInt64(key string, defaultVal int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
