package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dexmetrics/pool-agent/internal/graph"
)

const volumeQuery = `
query GetPoolVolume($poolAddress: String!, $startTime: Int!) {
    pool(id: $poolAddress) {
        id
        token0 {
            symbol
        }
        token1 {
            symbol
        }
    }
    poolDayDatas(
        where: {pool: $poolAddress, date_gte: $startTime}
        orderBy: date
        orderDirection: desc
    ) {
        date
        volumeUSD
        volumeToken0
        volumeToken1
        feesUSD
    }
}`

// poolDayData mirrors one daily record from the subgraph
type poolDayData struct {
	Date      int64  `json:"date"`
	VolumeUSD string `json:"volumeUSD"`
	FeesUSD   string `json:"feesUSD"`
}

// VolumeData is the flat result payload of the get_volume tool
type VolumeData struct {
	PoolAddress           string  `json:"pool_address"`
	Pair                  string  `json:"pair"`
	Period                string  `json:"period"`
	TotalVolumeUSD        float64 `json:"total_volume_usd"`
	AverageDailyVolumeUSD float64 `json:"average_daily_volume_usd"`
	TotalFeesUSD          float64 `json:"total_fees_usd"`
	AverageDailyFeesUSD   float64 `json:"average_daily_fees_usd"`
	DataPoints            int     `json:"data_points"`
	Summary               string  `json:"summary,omitempty"`
}

// periodDays resolves a period string to its day count.
// Rejecting the period here keeps invalid requests from ever reaching the
// network.
func periodDays(period string) (int, error) {
	switch period {
	case "24h":
		return 1, nil
	case "7d":
		return 7, nil
	case "30d":
		return 30, nil
	default:
		return 0, fmt.Errorf("invalid period %q, use '24h', '7d', or '30d'", period)
	}
}

// dailyVolume is one parsed day record used by the aggregation step
type dailyVolume struct {
	VolumeUSD float64
	FeesUSD   float64
}

// volumeTotals aggregates daily records over a period.
// Averages divide by the period's day count, not by the number of records,
// so sparse data yields a lower average instead of an inflated one.
type volumeTotals struct {
	TotalVolumeUSD        float64
	AverageDailyVolumeUSD float64
	TotalFeesUSD          float64
	AverageDailyFeesUSD   float64
}

func aggregateVolume(days []dailyVolume, periodDayCount int) volumeTotals {
	var totals volumeTotals
	for _, day := range days {
		totals.TotalVolumeUSD += day.VolumeUSD
		totals.TotalFeesUSD += day.FeesUSD
	}
	if periodDayCount > 0 {
		totals.AverageDailyVolumeUSD = totals.TotalVolumeUSD / float64(periodDayCount)
		totals.AverageDailyFeesUSD = totals.TotalFeesUSD / float64(periodDayCount)
	}
	return totals
}

// fetchVolume retrieves and aggregates trading volume for a pool over one
// of the supported periods. Shared by the volume and APY tools.
func fetchVolume(ctx context.Context, client *graph.Client, poolAddress, period string) (*VolumeData, error) {
	days, err := periodDays(period)
	if err != nil {
		return nil, err
	}

	startTime := time.Now().Add(-time.Duration(days) * 24 * time.Hour).Unix()
	variables := map[string]interface{}{
		"poolAddress": strings.ToLower(poolAddress),
		"startTime":   startTime,
	}

	var data struct {
		Pool *struct {
			ID     string    `json:"id"`
			Token0 poolToken `json:"token0"`
			Token1 poolToken `json:"token1"`
		} `json:"pool"`
		PoolDayDatas []poolDayData `json:"poolDayDatas"`
	}
	if err := client.Query(ctx, volumeQuery, variables, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch volume: %w", err)
	}

	if data.Pool == nil {
		return nil, fmt.Errorf("pool %s not found", poolAddress)
	}

	parsed := make([]dailyVolume, 0, len(data.PoolDayDatas))
	for _, record := range data.PoolDayDatas {
		volumeUSD, err := parseDecimal(record.VolumeUSD, "volumeUSD")
		if err != nil {
			return nil, err
		}
		feesUSD, err := parseDecimal(record.FeesUSD, "feesUSD")
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, dailyVolume{VolumeUSD: volumeUSD, FeesUSD: feesUSD})
	}

	totals := aggregateVolume(parsed, days)
	pair := fmt.Sprintf("%s/%s", data.Pool.Token0.Symbol, data.Pool.Token1.Symbol)

	result := &VolumeData{
		PoolAddress:           data.Pool.ID,
		Pair:                  pair,
		Period:                period,
		TotalVolumeUSD:        totals.TotalVolumeUSD,
		AverageDailyVolumeUSD: totals.AverageDailyVolumeUSD,
		TotalFeesUSD:          totals.TotalFeesUSD,
		AverageDailyFeesUSD:   totals.AverageDailyFeesUSD,
		DataPoints:            len(parsed),
	}
	result.Summary = fmt.Sprintf("%s traded %s over %s (%s in fees)",
		pair, formatUSD(totals.TotalVolumeUSD), period, formatUSD(totals.TotalFeesUSD))
	return result, nil
}

// VolumeTool reports trading volume and fees for a Uniswap V3 pool over a
// fixed period
type VolumeTool struct {
	client *graph.Client
}

// NewVolumeTool creates the get_volume tool over the given subgraph client
func NewVolumeTool(client *graph.Client) *VolumeTool {
	return &VolumeTool{client: client}
}

func (t *VolumeTool) Name() string {
	return "get_volume"
}

func (t *VolumeTool) Description() string {
	return "Get trading volume for a specific Uniswap V3 pool"
}

func (t *VolumeTool) Schema() *Schema {
	return ObjectSchema(map[string]Property{
		"pool_address": {
			Type:        "string",
			Description: "The contract address of the Uniswap V3 pool",
		},
		"period": {
			Type:        "string",
			Description: "Time period for volume data: '24h', '7d', or '30d'",
			Enum:        []string{"24h", "7d", "30d"},
		},
	}, "pool_address")
}

type volumeArgs struct {
	PoolAddress string `json:"pool_address"`
	Period      string `json:"period"`
}

func (t *VolumeTool) Execute(ctx context.Context, args json.RawMessage) (ToolResult, error) {
	var a volumeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return ErrorResult("failed to parse arguments: %v", err), nil
	}
	if a.Period == "" {
		a.Period = "24h"
	}

	data, err := fetchVolume(ctx, t.client, a.PoolAddress, a.Period)
	if err != nil {
		return ErrorResult("%v", err), nil
	}

	return SuccessResult(data), nil
}
