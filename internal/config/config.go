package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dexmetrics/pool-agent/internal/graph"
	"github.com/dexmetrics/pool-agent/internal/llm"
)

// Config holds all application configuration
// Supports environment variables with sensible defaults
//
// Environment Variables:
// LLM Configuration:
// - LLM_API_KEY: API key for the LLM provider (required)
// - LLM_API_URL: API endpoint URL (default: https://api.openai.com/v1)
// - LLM_MODEL: Model name to use (default: gpt-4o-mini)
// - LLM_MAX_TOKENS: Maximum tokens for responses (default: 1000)
// - LLM_TEMPERATURE: Temperature for responses (default: 0.7)
// - LLM_TIMEOUT: Request timeout in seconds (default: 30)
//
// Graph Configuration:
// - GRAPH_API_KEY: API key for The Graph gateway (required)
// - GRAPH_API_URL: Gateway base URL (default: https://gateway.thegraph.com)
// - GRAPH_SUBGRAPH_ID: Subgraph id (default: Uniswap V3 mainnet)
// - GRAPH_TIMEOUT: Request timeout in seconds (default: 30)
//
// Agent Configuration:
// - AGENT_MAX_ITERATIONS: Max tool-calling iterations per run (default: 10)
//
// System Configuration:
// - LOG_LEVEL: debug, info, warn, error or fatal (default: info)
type Config struct {
	// LLM Configuration
	LLM llm.Config `json:"llm"`

	// Graph Configuration
	Graph graph.Config `json:"graph"`

	// Agent Configuration
	Agent AgentConfig `json:"agent"`

	// System Configuration
	LogLevel string `json:"log_level"`
}

// AgentConfig holds the configuration for the agent
type AgentConfig struct {
	MaxIterations int `json:"max_iterations"` // Max tool calling iterations
}

// New loads configuration from the environment.
// Missing credentials are a startup error, never a runtime one.
func New() (*Config, error) {
	cfg := &Config{
		LLM: llm.Config{
			APIKey:      os.Getenv("LLM_API_KEY"),
			APIURL:      getEnv("LLM_API_URL", "https://api.openai.com/v1"),
			Model:       getEnv("LLM_MODEL", "gpt-4o-mini"),
			MaxTokens:   getEnvInt("LLM_MAX_TOKENS", 1000),
			Temperature: getEnvFloat("LLM_TEMPERATURE", 0.7),
			Timeout:     getEnvInt("LLM_TIMEOUT", 30),
		},
		Graph: graph.Config{
			APIKey:     os.Getenv("GRAPH_API_KEY"),
			GatewayURL: getEnv("GRAPH_API_URL", graph.DefaultGatewayURL),
			SubgraphID: getEnv("GRAPH_SUBGRAPH_ID", graph.UniswapV3SubgraphID),
			Timeout:    getEnvInt("GRAPH_TIMEOUT", 30),
		},
		Agent: AgentConfig{
			MaxIterations: getEnvInt("AGENT_MAX_ITERATIONS", 10),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY is required")
	}
	if cfg.Graph.APIKey == "" {
		return nil, fmt.Errorf("GRAPH_API_KEY is required")
	}

	if err := cfg.LLM.Validate(); err != nil {
		return nil, fmt.Errorf("invalid LLM configuration: %w", err)
	}
	if err := cfg.Graph.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Graph configuration: %w", err)
	}
	if cfg.Agent.MaxIterations < 1 {
		return nil, fmt.Errorf("AGENT_MAX_ITERATIONS must be greater than 0")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}
