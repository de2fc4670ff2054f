package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/dexmetrics/pool-agent/internal/graph"
)

// APYData is the flat result payload of the get_apy tool
type APYData struct {
	PoolAddress  string  `json:"pool_address"`
	Pair         string  `json:"pair"`
	FeeTier      float64 `json:"fee_tier"`
	TVLUSD       float64 `json:"tvl_usd"`
	APY24h       float64 `json:"apy_24h"`
	APY7d        float64 `json:"apy_7d"`
	APY30d       float64 `json:"apy_30d"`
	DailyFeesUSD float64 `json:"daily_fees_usd"`
	DailyRate    float64 `json:"daily_rate"`
	Note         string  `json:"note"`
	Summary      string  `json:"summary,omitempty"`
}

// computeAPY compounds a realized daily fee rate over 365 periods and
// returns the yield as a percentage
func computeAPY(dailyFees, tvlUSD float64) float64 {
	dailyRate := dailyFees / tvlUSD
	return (math.Pow(1+dailyRate, 365) - 1) * 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// APYTool derives Annual Percentage Yield for a Uniswap V3 pool from its
// fees and TVL. It depends on the TVL and 24h volume sub-fetches: a failure
// in either short-circuits the computation with the propagated error so a
// percentage is never derived from partial data. The 7d/30d comparison
// figures are best-effort and stay zero when their window cannot be
// fetched.
type APYTool struct {
	client *graph.Client
}

// NewAPYTool creates the get_apy tool over the given subgraph client
func NewAPYTool(client *graph.Client) *APYTool {
	return &APYTool{client: client}
}

func (t *APYTool) Name() string {
	return "get_apy"
}

func (t *APYTool) Description() string {
	return "Calculate APY (Annual Percentage Yield) for a Uniswap V3 pool based on fees and TVL"
}

func (t *APYTool) Schema() *Schema {
	return ObjectSchema(map[string]Property{
		"pool_address": {
			Type:        "string",
			Description: "The contract address of the Uniswap V3 pool",
		},
	}, "pool_address")
}

type apyArgs struct {
	PoolAddress string `json:"pool_address"`
}

func (t *APYTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	var a apyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return ErrorResult("failed to parse arguments: %v", err), nil
	}

	tvl, err := fetchTVL(ctx, t.client, a.PoolAddress)
	if err != nil {
		return ErrorResult("%v", err), nil
	}
	if tvl.TVLUSD <= 0 {
		return ErrorResult("TVL is zero or negative, cannot calculate APY"), nil
	}

	volume24h, err := fetchVolume(ctx, t.client, a.PoolAddress, "24h")
	if err != nil {
		return ErrorResult("%v", err), nil
	}

	dailyFees := volume24h.TotalFeesUSD
	dailyRate := dailyFees / tvl.TVLUSD
	apy := computeAPY(dailyFees, tvl.TVLUSD)

	// Comparison windows; a failed fetch leaves the figure at zero
	var apy7d, apy30d float64
	if volume7d, err := fetchVolume(ctx, t.client, a.PoolAddress, "7d"); err == nil {
		apy7d = computeAPY(volume7d.AverageDailyFeesUSD, tvl.TVLUSD)
	}
	if volume30d, err := fetchVolume(ctx, t.client, a.PoolAddress, "30d"); err == nil {
		apy30d = computeAPY(volume30d.AverageDailyFeesUSD, tvl.TVLUSD)
	}

	result := &APYData{
		PoolAddress:  a.PoolAddress,
		Pair:         tvl.Pair,
		FeeTier:      tvl.FeeTier,
		TVLUSD:       tvl.TVLUSD,
		APY24h:       round2(apy),
		APY7d:        round2(apy7d),
		APY30d:       round2(apy30d),
		DailyFeesUSD: dailyFees,
		DailyRate:    round4(dailyRate * 100),
		Note:         "APY calculated from fees generated, actual returns may vary due to impermanent loss",
	}
	result.Summary = fmt.Sprintf("%s yields %s APY on %s TVL (24h fees)",
		tvl.Pair, formatPercent(result.APY24h), formatUSD(tvl.TVLUSD))

	return SuccessResult(result), nil
}
