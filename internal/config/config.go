package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Namespace string `yaml:"namespace"`
	Workers   int    `yaml:"workers"`
	Database  struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.Namespace = "pipestd"
	cfg.Workers = 1
	cfg.Database.Path = "pipecheck.db"

	// 2. Load YAML config when present
	file, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// 3. Override with Environment Variables if present
	if ns := os.Getenv("PIPECHECK_NAMESPACE"); ns != "" {
		cfg.Namespace = ns
	}
	if db := os.Getenv("PIPECHECK_DB"); db != "" {
		cfg.Database.Path = db
	}
	if workers := os.Getenv("PIPECHECK_WORKERS"); workers != "" {
		if n, err := strconv.Atoi(workers); err == nil && n > 0 {
			cfg.Workers = n
		}
	}

	return cfg, nil
}
