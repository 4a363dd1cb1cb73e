package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Milvus struct {
		Host       string `yaml:"host"`
		Port       string `yaml:"port"`
		Collection string `yaml:"collection"`
		Dimension  int    `yaml:"dimension"`
		BatchSize  int    `yaml:"batch_size"`
		RowCap     int    `yaml:"row_cap"`
	} `yaml:"milvus"`
	AI struct {
		Provider       string  `yaml:"provider"` // groq, openai or gemini
		Model          string  `yaml:"model"`
		APIKey         string  `yaml:"api_key"`
		BaseURL        string  `yaml:"base_url"`
		Temperature    float64 `yaml:"temperature"`
		Retries        int     `yaml:"retries"`
		RetryBackoffMS int     `yaml:"retry_backoff_ms"`
		ContextChunks  int     `yaml:"context_chunks"`
	} `yaml:"ai"`
	Embedding struct {
		Provider  string `yaml:"provider"` // ollama, openai or gemini
		Model     string `yaml:"model"`
		APIKey    string `yaml:"api_key"`
		BaseURL   string `yaml:"base_url"`
		Dimension int    `yaml:"dimension"`
	} `yaml:"embedding"`
	Terraform struct {
		ValidationEnabled  bool `yaml:"validation_enabled"`
		InitTimeoutSec     int  `yaml:"init_timeout_sec"`
		ValidateTimeoutSec int  `yaml:"validate_timeout_sec"`
	} `yaml:"terraform"`
	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`
}

// Defaults returns the documented default configuration, used as the base
// before the YAML file and environment overrides are applied.
func Defaults() *Config {
	var cfg Config
	cfg.Milvus.Host = "localhost"
	cfg.Milvus.Port = "19530"
	cfg.Milvus.Collection = "cloudstack_docs"
	cfg.Milvus.Dimension = 1024
	cfg.Milvus.BatchSize = 1000
	cfg.Milvus.RowCap = 16000
	cfg.AI.Provider = "groq"
	cfg.AI.Model = "llama-3.3-70b-versatile"
	cfg.AI.Temperature = 0.1
	cfg.AI.Retries = 1
	cfg.AI.RetryBackoffMS = 300
	cfg.AI.ContextChunks = 8
	cfg.Embedding.Provider = "ollama"
	cfg.Embedding.Model = "bge-m3"
	cfg.Embedding.Dimension = 1024
	cfg.Terraform.ValidationEnabled = true
	cfg.Terraform.InitTimeoutSec = 60
	cfg.Terraform.ValidateTimeoutSec = 30
	cfg.Output.Dir = "generated"
	return &cfg
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Defaults()

	// 2. Load YAML config, tolerating a missing file
	file, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// 3. Override with environment variables if present
	if v := os.Getenv("MILVUS_HOST"); v != "" {
		cfg.Milvus.Host = v
	}
	if v := os.Getenv("MILVUS_PORT"); v != "" {
		cfg.Milvus.Port = v
	}
	if v := os.Getenv("MILVUS_COLLECTION"); v != "" {
		cfg.Milvus.Collection = v
	}
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("GROQ_MODEL"); v != "" {
		cfg.AI.Model = v
	}
	if v := os.Getenv("TFCRAFT_AI_PROVIDER"); v != "" {
		cfg.AI.Provider = v
	}
	if v := os.Getenv("MAX_CONTEXT_CHUNKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AI.ContextChunks = n
		}
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("TERRAFORM_VALIDATION"); v != "" {
		cfg.Terraform.ValidationEnabled = strings.EqualFold(v, "true")
	}
	if v := os.Getenv("VALIDATION_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Terraform.InitTimeoutSec = n
		}
	}

	return cfg, nil
}

// MilvusAddress joins host and port into the gRPC address the SDK expects.
func (c *Config) MilvusAddress() string {
	return c.Milvus.Host + ":" + c.Milvus.Port
}
