package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/dexmetrics/pool-agent/internal/agent"
	"github.com/dexmetrics/pool-agent/internal/config"
	"github.com/dexmetrics/pool-agent/internal/graph"
	"github.com/dexmetrics/pool-agent/internal/llm"
	"github.com/dexmetrics/pool-agent/internal/repl"
	"github.com/dexmetrics/pool-agent/internal/tools"
	"github.com/dexmetrics/pool-agent/pkg/log"
)

func main() {
	// A local .env is optional; the environment always wins
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}
	log.InitLogger(log.ParseLevel(cfg.LogLevel))

	llmClient, err := llm.NewClient(&cfg.LLM)
	if err != nil {
		log.Fatal("Failed to create LLM client: %v", err)
	}

	graphClient, err := graph.NewClient(&cfg.Graph)
	if err != nil {
		log.Fatal("Failed to create subgraph client: %v", err)
	}

	registry := tools.NewRegistry()
	for _, tool := range []tools.Tool{
		tools.NewTVLTool(graphClient),
		tools.NewVolumeTool(graphClient),
		tools.NewAPYTool(graphClient),
	} {
		if err := registry.Register(tool); err != nil {
			log.Fatal("Failed to register tool: %v", err)
		}
	}

	a := agent.NewLLMAgent(llmClient, registry, cfg.Agent.MaxIterations)
	defer a.Close()

	console := repl.New(a, os.Stdin, os.Stdout)
	if err := console.Run(context.Background()); err != nil {
		log.Fatal("Console loop failed: %v", err)
	}
}
