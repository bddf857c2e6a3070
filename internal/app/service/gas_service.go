package service

import (
	"context"
	"sort"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"walletscope/internal/app/port"
	"walletscope/internal/domain/entity"
	"walletscope/internal/pkg/cache"
	"walletscope/internal/pkg/metrics"
	"walletscope/internal/pkg/utils"
)

const topGasTxCount = 3

// GasService aggregates fee expenditure over a bounded sample of the
// wallet's recent outbound transactions.
type GasService struct {
	chain       port.ChainClient
	prices      port.PriceService
	cache       port.Cache
	logger      port.Logger
	sampleSize  int
	concurrency int
	callTimeout time.Duration
}

// NewGasService creates a new GasService. The concurrency limit bounds
// outbound receipt requests to respect upstream rate limits.
func NewGasService(chain port.ChainClient, prices port.PriceService, c port.Cache, l port.Logger, sampleSize, concurrency int, callTimeout time.Duration) *GasService {
	if sampleSize <= 0 {
		sampleSize = 50
	}
	if concurrency <= 0 {
		concurrency = 5
	}
	return &GasService{
		chain:       chain,
		prices:      prices,
		cache:       c,
		logger:      l,
		sampleSize:  sampleSize,
		concurrency: concurrency,
		callTimeout: callTimeout,
	}
}

// Build samples the first sampleSize transaction hashes from the transfer
// feed, fetches their receipts through a bounded worker pool and sums fee
// expenditure. Per-hash failures yield a zero contribution, never a batch
// failure.
func (s *GasService) Build(ctx context.Context, address string, transfers []entity.Transfer) entity.GasModule {
	addr := utils.NormalizeAddress(address)

	var hashes []string
	seen := map[string]struct{}{}
	for _, tr := range transfers {
		if utils.NormalizeAddress(tr.From) != addr || tr.Hash == "" {
			continue
		}
		if _, dup := seen[tr.Hash]; dup {
			continue
		}
		seen[tr.Hash] = struct{}{}
		hashes = append(hashes, tr.Hash)
		if len(hashes) >= s.sampleSize {
			break
		}
	}

	module := entity.GasModule{SampledTxs: len(hashes)}
	if len(hashes) == 0 {
		return module
	}

	costs := make([]entity.GasTx, len(hashes))

	g, poolCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, hash := range hashes {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(poolCtx, s.callTimeout)
			defer cancel()

			receipt, err := s.chain.TransactionReceipt(callCtx, hash)
			if err != nil {
				s.logger.Debug("Receipt fetch failed, zero gas contribution", "hash", hash, "error", err)
				metrics.UpstreamFailures.WithLabelValues("rpc").Inc()
				costs[i] = entity.GasTx{Hash: hash}
				return nil
			}
			costs[i] = entity.GasTx{Hash: hash, CostETH: receiptCostEth(receipt)}
			return nil
		})
	}
	_ = g.Wait()

	nativePrice := s.nativePrice(ctx)
	for i := range costs {
		costs[i].CostUSD = costs[i].CostETH * nativePrice
		module.TotalGasETH += costs[i].CostETH
	}
	module.TotalGasUSD = module.TotalGasETH * nativePrice
	module.TopTxs = topGasTxs(costs)
	return module
}

// receiptCostEth computes gasUsed × effectiveGasPrice in ether. The client
// already substitutes the legacy gasPrice when no effective price is
// reported; a receipt missing both prices contributes zero.
func receiptCostEth(r entity.Receipt) float64 {
	if r.EffectiveGasPrice == nil || r.GasUsed == 0 {
		return 0
	}
	gasPriceEth := utils.WeiToEth(r.EffectiveGasPrice)
	return gasPriceEth * float64(r.GasUsed)
}

// topGasTxs returns the most expensive transactions by native cost
// descending; ties keep the sample (recency) order.
func topGasTxs(costs []entity.GasTx) []entity.GasTx {
	ranked := lo.Filter(costs, func(tx entity.GasTx, _ int) bool {
		return tx.CostETH > 0
	})
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CostETH > ranked[j].CostETH
	})
	if len(ranked) > topGasTxCount {
		ranked = ranked[:topGasTxCount]
	}
	return ranked
}

func (s *GasService) nativePrice(ctx context.Context) float64 {
	price, err := cache.GetOrCompute(s.cache, "price:native", priceCacheTTL, func() (float64, error) {
		callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
		return s.prices.NativePriceUSD(callCtx)
	})
	if err != nil {
		s.logger.Warn("Native price fetch failed, gas USD totals will be zero", "error", err)
		metrics.UpstreamFailures.WithLabelValues("price").Inc()
		return 0
	}
	return price
}
