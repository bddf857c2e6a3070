package service

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/samber/lo"

	"walletscope/internal/app/port"
	"walletscope/internal/domain/entity"
	"walletscope/internal/pkg/cache"
	"walletscope/internal/pkg/metrics"
	"walletscope/internal/pkg/parallel"
	"walletscope/internal/pkg/utils"
)

// Holdings worth less than this (or without a quote) land in the long tail.
const longTailThresholdUSD = 1.0

const (
	metadataCacheTTL = 30 * time.Minute
	priceCacheTTL    = 5 * time.Minute
)

var stablecoinSymbols = map[string]struct{}{
	"USDT": {}, "USDC": {}, "DAI": {}, "BUSD": {}, "TUSD": {}, "USDE": {},
	"FDUSD": {}, "PYUSD": {}, "GUSD": {}, "LUSD": {}, "FRAX": {}, "USDP": {},
	"SUSD": {}, "USDD": {}, "GHO": {}, "CRVUSD": {},
}

var majorSymbols = map[string]struct{}{
	"WETH": {}, "WBTC": {}, "CBBTC": {}, "STETH": {}, "WSTETH": {}, "RETH": {},
	"BNB": {}, "UNI": {}, "LINK": {}, "AAVE": {}, "MKR": {}, "LDO": {},
	"ARB": {}, "OP": {}, "MATIC": {}, "POL": {}, "CRV": {}, "SNX": {}, "COMP": {},
}

// Meme classification falls back to naming heuristics after the fixed sets.
var memeHints = []string{
	"PEPE", "DOGE", "SHIB", "FLOKI", "INU", "ELON", "WOJAK", "MEME",
	"MOG", "TURBO", "BONK", "WIF", "BABY", "MOON", "CHAD", "APU",
}

// AssetsService builds the priced asset module for an address.
type AssetsService struct {
	chain        port.ChainClient
	prices       port.PriceService
	cache        port.Cache
	logger       port.Logger
	callTimeout  time.Duration
	metadataPool int
}

// NewAssetsService creates a new AssetsService.
func NewAssetsService(chain port.ChainClient, prices port.PriceService, c port.Cache, l port.Logger, callTimeout time.Duration) *AssetsService {
	return &AssetsService{
		chain:        chain,
		prices:       prices,
		cache:        c,
		logger:       l,
		callTimeout:  callTimeout,
		metadataPool: 5,
	}
}

// Build fetches, prices and classifies everything the wallet holds. Every
// sub-fetch degrades to a zero/empty result on failure; the worst case is an
// all-zero module, which is a valid output, not an error.
func (s *AssetsService) Build(ctx context.Context, address string) entity.AssetModule {
	addr := utils.NormalizeAddress(address)

	nativeWei := s.fetchNativeBalance(ctx, addr)
	rawBalances := s.fetchTokenBalances(ctx, addr)
	nativePrice := s.nativePrice(ctx)

	module := entity.AssetModule{
		NativeBalance: utils.WeiToEth(nativeWei),
	}
	module.NativeValueUSD = module.NativeBalance * nativePrice

	// Dedup token contracts case-insensitively before metadata and price
	// lookups to avoid redundant external calls.
	rawBalances = lo.UniqBy(rawBalances, func(b entity.RawTokenBalance) string {
		return utils.NormalizeAddress(b.ContractAddress)
	})

	holdings := s.buildHoldings(ctx, rawBalances)

	total := module.NativeValueUSD
	unpriced := 0
	for _, h := range holdings {
		total += h.ValueUSD
		if !h.HasPrice {
			unpriced++
		}
	}

	module.Holdings = holdings
	module.LongTail = lo.Filter(holdings, func(h entity.TokenHolding, _ int) bool {
		return !h.HasPrice || h.ValueUSD < longTailThresholdUSD
	})
	module.TotalValueUSD = total
	module.Allocation = buildAllocation(module.NativeValueUSD, holdings, total)

	if unpriced > 0 {
		module.Warning = fmt.Sprintf("%d token(s) have no available price quote and are counted at $0 in the total.", unpriced)
	}

	return module
}

func (s *AssetsService) fetchNativeBalance(ctx context.Context, addr string) *big.Int {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	wei, err := s.chain.NativeBalance(callCtx, addr)
	if err != nil {
		s.logger.Warn("Native balance fetch failed, using zero", "address", addr, "error", err)
		metrics.UpstreamFailures.WithLabelValues("rpc").Inc()
		return big.NewInt(0)
	}
	return wei
}

func (s *AssetsService) fetchTokenBalances(ctx context.Context, addr string) []entity.RawTokenBalance {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	balances, err := s.chain.TokenBalances(callCtx, addr)
	if err != nil {
		s.logger.Warn("Token balance fetch failed, using empty list", "address", addr, "error", err)
		metrics.UpstreamFailures.WithLabelValues("rpc").Inc()
		return nil
	}
	return balances
}

func (s *AssetsService) nativePrice(ctx context.Context) float64 {
	price, err := cache.GetOrCompute(s.cache, "price:native", priceCacheTTL, func() (float64, error) {
		callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
		return s.prices.NativePriceUSD(callCtx)
	})
	if err != nil {
		s.logger.Warn("Native price fetch failed, valuing native balance at zero", "error", err)
		metrics.UpstreamFailures.WithLabelValues("price").Inc()
		return 0
	}
	return price
}

// buildHoldings resolves metadata and prices for the deduplicated balances.
// Metadata lookups run through a bounded worker pool; a failed lookup leaves
// a placeholder symbol rather than dropping the holding.
func (s *AssetsService) buildHoldings(ctx context.Context, raw []entity.RawTokenBalance) []entity.TokenHolding {
	if len(raw) == 0 {
		return nil
	}

	metas := parallel.Map(ctx, raw, s.metadataPool, s.callTimeout,
		entity.TokenMetadata{Symbol: "", Decimals: 18},
		func(callCtx context.Context, b entity.RawTokenBalance) (entity.TokenMetadata, error) {
			key := "meta:" + utils.NormalizeAddress(b.ContractAddress)
			return cache.GetOrCompute(s.cache, key, metadataCacheTTL, func() (entity.TokenMetadata, error) {
				return s.chain.TokenMetadata(callCtx, b.ContractAddress)
			})
		})

	addresses := lo.Map(raw, func(b entity.RawTokenBalance, _ int) string {
		return utils.NormalizeAddress(b.ContractAddress)
	})
	priceMap := s.tokenPrices(ctx, addresses)

	holdings := make([]entity.TokenHolding, 0, len(raw))
	for i, b := range raw {
		meta := metas[i]
		symbol := meta.Symbol
		if symbol == "" {
			symbol = utils.ShortenAddress(b.ContractAddress)
		}

		amount := utils.BaseUnitsToFloat(b.RawAmount, meta.Decimals)
		price := priceMap[utils.NormalizeAddress(b.ContractAddress)]

		holdings = append(holdings, entity.TokenHolding{
			ContractAddress: utils.NormalizeAddress(b.ContractAddress),
			Symbol:          symbol,
			Decimals:        meta.Decimals,
			Amount:          amount,
			ValueUSD:        amount * price,
			HasPrice:        price > 0,
		})
	}
	return holdings
}

func (s *AssetsService) tokenPrices(ctx context.Context, addresses []string) map[string]float64 {
	if len(addresses) == 0 {
		return map[string]float64{}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	priceMap, err := s.prices.TokenPricesUSD(callCtx, addresses)
	if err != nil {
		s.logger.Warn("Token price batch failed, holdings will be unpriced", "count", len(addresses), "error", err)
		metrics.UpstreamFailures.WithLabelValues("price").Inc()
		return map[string]float64{}
	}
	return priceMap
}

// classifyHolding assigns a token to exactly one allocation category by
// symbol lookup against the fixed sets, then naming heuristics for memes.
func classifyHolding(symbol string) entity.AllocationCategory {
	upper := strings.ToUpper(strings.TrimSpace(symbol))
	if _, ok := stablecoinSymbols[upper]; ok {
		return entity.CategoryStablecoins
	}
	if _, ok := majorSymbols[upper]; ok {
		return entity.CategoryMajors
	}
	for _, hint := range memeHints {
		if strings.Contains(upper, hint) {
			return entity.CategoryMeme
		}
	}
	return entity.CategoryOthers
}

// buildAllocation groups valued holdings into buckets. ETH is always its own
// bucket when its value is positive. The bucket values sum to the total and
// the ratios sum to 1 when the total is positive, else every ratio is 0.
func buildAllocation(nativeValueUSD float64, holdings []entity.TokenHolding, totalValueUSD float64) []entity.AllocationBucket {
	values := map[entity.AllocationCategory]float64{}
	if nativeValueUSD > 0 {
		values[entity.CategoryETH] = nativeValueUSD
	}
	for _, h := range holdings {
		values[classifyHolding(h.Symbol)] += h.ValueUSD
	}

	order := []entity.AllocationCategory{
		entity.CategoryETH,
		entity.CategoryStablecoins,
		entity.CategoryMajors,
		entity.CategoryMeme,
		entity.CategoryOthers,
	}

	buckets := make([]entity.AllocationBucket, 0, len(values))
	for _, cat := range order {
		value, ok := values[cat]
		if !ok {
			continue
		}
		bucket := entity.AllocationBucket{Category: cat, ValueUSD: value}
		if totalValueUSD > 0 {
			bucket.Ratio = value / totalValueUSD
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}
