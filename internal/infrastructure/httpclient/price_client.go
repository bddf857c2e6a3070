package httpclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"walletscope/internal/app/port"
	"walletscope/internal/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Canonical WETH, used as the ETH/USD proxy pair.
const wethAddress = "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"

// pairData is one DEX pair quote from the price aggregator.
type pairData struct {
	BaseToken struct {
		Address string `json:"address"`
		Symbol  string `json:"symbol"`
	} `json:"baseToken"`
	PriceUSD  string `json:"priceUsd"`
	Liquidity struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
}

// PriceClient implements port.PriceService against a DEX-pair price
// aggregator. Quotes come back per trading pair; the deepest pool by USD
// liquidity wins when a token trades in several.
type PriceClient struct {
	client              *fasthttp.Client
	baseURL             string
	chainID             string
	timeout             time.Duration
	logger              *zap.Logger
	maxTokensPerRequest int
}

// NewPriceClient creates a new PriceClient.
func NewPriceClient(baseURL, chainID string, timeout time.Duration, logger *zap.Logger, maxTokensPerRequest int) *PriceClient {
	if maxTokensPerRequest <= 0 {
		maxTokensPerRequest = 30
	}
	return &PriceClient{
		client:              &fasthttp.Client{},
		baseURL:             strings.TrimRight(baseURL, "/"),
		chainID:             chainID,
		timeout:             timeout,
		logger:              logger.Named("PriceClient"),
		maxTokensPerRequest: maxTokensPerRequest,
	}
}

// NativePriceUSD quotes ETH through the canonical WETH pair.
func (c *PriceClient) NativePriceUSD(ctx context.Context) (float64, error) {
	prices, err := c.fetchBatch(ctx, []string{wethAddress})
	if err != nil {
		return 0, err
	}
	price, ok := prices[wethAddress]
	if !ok || price <= 0 {
		return 0, fmt.Errorf("no usable WETH quote returned")
	}
	return price, nil
}

// TokenPricesUSD quotes a set of token contracts, splitting the request into
// provider-sized batches. Tokens with no pair are absent from the result.
func (c *PriceClient) TokenPricesUSD(ctx context.Context, contractAddresses []string) (map[string]float64, error) {
	prices := make(map[string]float64, len(contractAddresses))
	if len(contractAddresses) == 0 {
		return prices, nil
	}

	for _, batch := range utils.BatchStrings(contractAddresses, c.maxTokensPerRequest) {
		batchPrices, err := c.fetchBatch(ctx, batch)
		if err != nil {
			return nil, err
		}
		for addr, price := range batchPrices {
			prices[addr] = price
		}
	}
	return prices, nil
}

func (c *PriceClient) fetchBatch(ctx context.Context, addresses []string) (map[string]float64, error) {
	requestURL := fmt.Sprintf("%s/tokens/v1/%s/%s", c.baseURL, c.chainID, strings.Join(addresses, ","))
	c.logger.Debug("Requesting token pairs", zap.String("url", requestURL), zap.Int("tokenCount", len(addresses)))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetContentTypeBytes([]byte("application/json"))

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			return nil, fmt.Errorf("failed to execute request to %s with default timeout: %w", requestURL, err)
		}
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Price API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return nil, fmt.Errorf("price API request to %s failed with status %d", requestURL, resp.StatusCode())
	}

	var pairs []pairData
	if err := json.Unmarshal(rawBody, &pairs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal price response from %s: %w", requestURL, err)
	}

	return bestQuotes(pairs), nil
}

// bestQuotes reduces pair quotes to one price per base token, preferring the
// pool with the most USD liquidity.
func bestQuotes(pairs []pairData) map[string]float64 {
	prices := map[string]float64{}
	liquidity := map[string]float64{}

	for _, pair := range pairs {
		addr := utils.NormalizeAddress(pair.BaseToken.Address)
		price := utils.SafeFloat(pair.PriceUSD)
		if addr == "" || price <= 0 {
			continue
		}
		if _, seen := prices[addr]; seen && pair.Liquidity.USD <= liquidity[addr] {
			continue
		}
		prices[addr] = price
		liquidity[addr] = pair.Liquidity.USD
	}
	return prices
}

var _ port.PriceService = (*PriceClient)(nil)
