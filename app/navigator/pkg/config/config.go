// Package config loads the navigator's YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level navigator configuration.
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Workflow    WorkflowConfig    `yaml:"workflow"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	DB          DBConfig          `yaml:"db"`
}

// LLMConfig selects the OpenAI-compatible endpoint backing all agents.
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// WorkflowConfig tunes pipeline behavior.
type WorkflowConfig struct {
	// StrictItemCount turns a recommender item count other than three into
	// a hard failure instead of a warning.
	StrictItemCount bool `yaml:"strict_item_count"`
	// CallTimeoutSeconds bounds each individual agent call. Zero disables.
	CallTimeoutSeconds int `yaml:"call_timeout_seconds"`
	// MaxRetries is how many times a rate-limited call is retried.
	MaxRetries int `yaml:"max_retries"`
}

// DBConfig is optional; an empty Host disables persistence.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// DSN renders the lib/pq connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}

// LogConfig controls level and optional file output.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig throttles outbound model calls.
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// LoadConfig reads and parses the config file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
