package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	ModeOllama = "ollama"
	ModeAPI    = "api"
)

type Config struct {
	AI struct {
		Mode        string  `yaml:"mode"`
		OllamaURL   string  `yaml:"ollama_url"`
		OllamaModel string  `yaml:"ollama_model"`
		APIBaseURL  string  `yaml:"api_base_url"`
		APIModel    string  `yaml:"api_model"`
		Temperature float64 `yaml:"temperature"`
		TopP        float64 `yaml:"top_p"`
	} `yaml:"ai"`
	History struct {
		MaxTurns  int `yaml:"max_turns"`
		Retention int `yaml:"retention"`
	} `yaml:"history"`
	Timeouts struct {
		BackendSeconds int `yaml:"backend_seconds"`
		WhisperSeconds int `yaml:"whisper_seconds"`
	} `yaml:"timeouts"`
}

func LoadConfig(path string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return config, nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(file, config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(c *Config) {
	c.AI.Mode = ModeOllama
	c.AI.OllamaURL = "http://127.0.0.1:11434"
	c.AI.OllamaModel = "qwen:7b"
	c.AI.APIBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	c.AI.APIModel = "qwen-flash"
	c.AI.Temperature = 0.8
	c.AI.TopP = 0.9
	c.History.MaxTurns = 8
	c.History.Retention = 60
	c.Timeouts.BackendSeconds = 30
	c.Timeouts.WhisperSeconds = 10
}

func (c *Config) Validate() error {
	if c.AI.Mode != ModeOllama && c.AI.Mode != ModeAPI {
		return fmt.Errorf("unknown ai mode %q (want %q or %q)", c.AI.Mode, ModeOllama, ModeAPI)
	}
	if c.History.MaxTurns <= 0 {
		return fmt.Errorf("history max_turns must be positive, got %d", c.History.MaxTurns)
	}
	if c.History.Retention < c.History.MaxTurns {
		c.History.Retention = c.History.MaxTurns
	}
	if c.Timeouts.BackendSeconds <= 0 {
		c.Timeouts.BackendSeconds = 30
	}
	if c.Timeouts.WhisperSeconds <= 0 {
		c.Timeouts.WhisperSeconds = 10
	}
	return nil
}
