// Package graph provides a minimal client for The Graph's hosted gateway.
// Queries are plain POSTs of {query, variables}; transport failures, non-2xx
// statuses and GraphQL-level errors are all surfaced as Go errors so tool
// implementations can fold them into structured error payloads.
package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// UniswapV3SubgraphID is the Uniswap V3 (Ethereum mainnet) subgraph
const UniswapV3SubgraphID = "5zvR82QoaXYFyDEKLZ9t6v9adgnptxYpKpSbxtgVENFV"

// DefaultGatewayURL is The Graph's decentralized gateway
const DefaultGatewayURL = "https://gateway.thegraph.com"

// Config holds the configuration for the subgraph client
//
// Environment Variables:
// - GRAPH_API_KEY: API key for The Graph gateway (required)
// - GRAPH_API_URL: Gateway base URL (default: https://gateway.thegraph.com)
// - GRAPH_SUBGRAPH_ID: Subgraph to query (default: Uniswap V3 mainnet)
type Config struct {
	APIKey     string `json:"api_key"`
	GatewayURL string `json:"gateway_url"`
	SubgraphID string `json:"subgraph_id"`
	Timeout    int    `json:"timeout"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("Graph API key is required")
	}
	if c.GatewayURL == "" {
		return fmt.Errorf("gateway URL is required")
	}
	if c.SubgraphID == "" {
		return fmt.Errorf("subgraph id is required")
	}
	if c.Timeout < 1 {
		return fmt.Errorf("timeout must be greater than 0")
	}
	return nil
}

// Endpoint returns the full query URL for the configured subgraph
func (c *Config) Endpoint() string {
	return fmt.Sprintf("%s/api/%s/subgraphs/id/%s", c.GatewayURL, c.APIKey, c.SubgraphID)
}

// Client is a GraphQL client bound to one subgraph endpoint
// Thread-safe for concurrent use
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a subgraph client from the given configuration
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &Client{
		endpoint: config.Endpoint(),
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
	}, nil
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors,omitempty"`
}

// Query executes a GraphQL query and decodes the "data" object into out.
//
// ctx: Context for the request
// query: GraphQL query document
// variables: Query variables, may be nil
// out: Destination for the decoded data object
func (c *Client) Query(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	payload := graphQLRequest{
		Query:     query,
		Variables: variables,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var gqlResp graphQLResponse
	if err := json.Unmarshal(body, &gqlResp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		messages := make([]string, 0, len(gqlResp.Errors))
		for _, e := range gqlResp.Errors {
			messages = append(messages, e.Message)
		}
		return fmt.Errorf("GraphQL errors: %v", messages)
	}

	if out != nil {
		if err := json.Unmarshal(gqlResp.Data, out); err != nil {
			return fmt.Errorf("failed to decode data: %w", err)
		}
	}

	return nil
}
