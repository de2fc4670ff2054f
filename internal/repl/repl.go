// Package repl implements the interactive console loop: one line of user
// input becomes one fresh agent run, and the process keeps prompting until
// an exit keyword arrives. A failed run never terminates the loop.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dexmetrics/pool-agent/internal/agent"
	"github.com/dexmetrics/pool-agent/pkg/log"
)

// SystemPrompt is the fixed instruction seeding every agent run
const SystemPrompt = `You are a DeFi analyst AI assistant specializing in Uniswap V3 liquidity pools.
You can provide detailed metrics about pools including TVL, trading volume, and APY calculations.

When analyzing pools:
1. Always provide context about what the metrics mean
2. Explain any significant findings
3. Mention potential risks when discussing APY (like impermanent loss)
4. Format numbers nicely (use commas for thousands, round decimals appropriately)

You can analyze ANY valid Uniswap V3 pool address. Some popular examples include:
- USDC/WETH 0.05%: 0x88e6a0c2ddd26feeb64f039a2c41296fcb3f5640
- WBTC/WETH 0.05%: 0xcbcdf9626bc03e24f779434178a73a0b4bad62ed
- USDC/WETH 0.30%: 0x8ad599c3a0ff1de082011efddc58f1908eb6e6d8

But you're NOT limited to these - you can analyze any valid pool address the user provides!`

// exit keywords, matched case-insensitively
var exitKeywords = map[string]bool{
	"exit": true,
	"quit": true,
	"bye":  true,
}

// REPL reads user questions line by line and runs one agent run per line
type REPL struct {
	agent  agent.Agent
	input  io.Reader
	output io.Writer
}

// New creates a REPL over the given agent and I/O streams
func New(a agent.Agent, input io.Reader, output io.Writer) *REPL {
	return &REPL{
		agent:  a,
		input:  input,
		output: output,
	}
}

// Run drives the read loop until EOF or an exit keyword.
// Empty lines are skipped; every other line seeds a fresh agent run with
// the fixed system prompt. Errors from a single run are reported and the
// loop continues.
func (r *REPL) Run(ctx context.Context) error {
	r.printBanner()

	scanner := bufio.NewScanner(r.input)
	for {
		fmt.Fprint(r.output, "\nYou: ")

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if exitKeywords[strings.ToLower(line)] {
			fmt.Fprintln(r.output, "Goodbye!")
			return nil
		}

		fmt.Fprintln(r.output, "\nThinking...")

		result, err := r.agent.Execute(ctx, agent.AgentRequest{
			SystemPrompt: SystemPrompt,
			UserMessage:  line,
		})
		if err != nil {
			log.Error("Agent run failed: %v", err)
			fmt.Fprintf(r.output, "\nAgent: Sorry, something went wrong: %v\n", err)
			continue
		}

		fmt.Fprintf(r.output, "\nAgent: %s\n", result.Content)
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintln(r.output, "DEX Liquidity AI Agent")
	fmt.Fprintln(r.output, strings.Repeat("=", 50))
	fmt.Fprintln(r.output, "Available commands:")
	fmt.Fprintln(r.output, "- Ask about TVL, volume, or APY for any Uniswap V3 pool")
	fmt.Fprintln(r.output, "- Example: 'What's the TVL and APY for the USDC/WETH 0.05% pool?'")
	fmt.Fprintln(r.output, "- Type 'exit' to quit")
	fmt.Fprintln(r.output, strings.Repeat("=", 50))
}
