package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dexmetrics/pool-agent/internal/graph"
)

const tvlQuery = `
query GetPoolTVL($poolAddress: String!) {
    pool(id: $poolAddress) {
        id
        token0 {
            symbol
            name
        }
        token1 {
            symbol
            name
        }
        totalValueLockedUSD
        totalValueLockedToken0
        totalValueLockedToken1
        feeTier
    }
}`

// poolToken is a token leg of a pool as returned by the subgraph
type poolToken struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// tvlPool mirrors the subgraph's pool entity for the TVL query.
// BigDecimal and BigInt fields arrive as strings.
type tvlPool struct {
	ID                     string    `json:"id"`
	Token0                 poolToken `json:"token0"`
	Token1                 poolToken `json:"token1"`
	TotalValueLockedUSD    string    `json:"totalValueLockedUSD"`
	TotalValueLockedToken0 string    `json:"totalValueLockedToken0"`
	TotalValueLockedToken1 string    `json:"totalValueLockedToken1"`
	FeeTier                string    `json:"feeTier"`
}

// TVLData is the flat result payload of the get_tvl tool
type TVLData struct {
	PoolAddress string  `json:"pool_address"`
	Pair        string  `json:"pair"`
	TVLUSD      float64 `json:"tvl_usd"`
	TVLToken0   float64 `json:"tvl_token0"`
	TVLToken1   float64 `json:"tvl_token1"`
	FeeTier     float64 `json:"fee_tier"`
	Token0      string  `json:"token0"`
	Token1      string  `json:"token1"`
	Summary     string  `json:"summary,omitempty"`
}

// fetchTVL retrieves the current TVL snapshot for a pool.
// Shared by the TVL and APY tools.
func fetchTVL(ctx context.Context, client *graph.Client, poolAddress string) (*TVLData, error) {
	variables := map[string]interface{}{
		"poolAddress": strings.ToLower(poolAddress),
	}

	var data struct {
		Pool *tvlPool `json:"pool"`
	}
	if err := client.Query(ctx, tvlQuery, variables, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch TVL: %w", err)
	}

	if data.Pool == nil {
		return nil, fmt.Errorf("pool %s not found", poolAddress)
	}
	pool := data.Pool

	tvlUSD, err := parseDecimal(pool.TotalValueLockedUSD, "totalValueLockedUSD")
	if err != nil {
		return nil, err
	}
	tvlToken0, err := parseDecimal(pool.TotalValueLockedToken0, "totalValueLockedToken0")
	if err != nil {
		return nil, err
	}
	tvlToken1, err := parseDecimal(pool.TotalValueLockedToken1, "totalValueLockedToken1")
	if err != nil {
		return nil, err
	}
	feeTier, err := strconv.ParseInt(pool.FeeTier, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed feeTier %q: %w", pool.FeeTier, err)
	}

	pair := fmt.Sprintf("%s/%s", pool.Token0.Symbol, pool.Token1.Symbol)
	result := &TVLData{
		PoolAddress: pool.ID,
		Pair:        pair,
		TVLUSD:      tvlUSD,
		TVLToken0:   tvlToken0,
		TVLToken1:   tvlToken1,
		FeeTier:     float64(feeTier) / 10000, // basis points of a hundredth to percent
		Token0:      pool.Token0.Symbol,
		Token1:      pool.Token1.Symbol,
	}
	result.Summary = fmt.Sprintf("%s pool holds %s in total value locked", pair, formatUSD(tvlUSD))
	return result, nil
}

func parseDecimal(value, field string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed %s %q: %w", field, value, err)
	}
	return f, nil
}

// TVLTool reports the current Total Value Locked of a Uniswap V3 pool
type TVLTool struct {
	client *graph.Client
}

// NewTVLTool creates the get_tvl tool over the given subgraph client
func NewTVLTool(client *graph.Client) *TVLTool {
	return &TVLTool{client: client}
}

func (t *TVLTool) Name() string {
	return "get_tvl"
}

func (t *TVLTool) Description() string {
	return "Get Total Value Locked (TVL) in USD for a specific Uniswap V3 pool"
}

func (t *TVLTool) Schema() *Schema {
	return ObjectSchema(map[string]Property{
		"pool_address": {
			Type:        "string",
			Description: "The contract address of the Uniswap V3 pool (e.g., '0x88e6a0c2ddd26feeb64f039a2c41296fcb3f5640' for the USDC/WETH 0.05% pool)",
		},
	}, "pool_address")
}

type tvlArgs struct {
	PoolAddress string `json:"pool_address"`
}

func (t *TVLTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	var a tvlArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return ErrorResult("failed to parse arguments: %v", err), nil
	}

	data, err := fetchTVL(ctx, t.client, a.PoolAddress)
	if err != nil {
		return ErrorResult("%v", err), nil
	}

	return SuccessResult(data), nil
}
