package service

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"walletscope/internal/domain/entity"
)

var errUpstream = errors.New("upstream unavailable")

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// memCache is a TTL-ignoring in-memory cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string]any
}

func newMemCache() *memCache {
	return &memCache{data: map[string]any{}}
}

func (c *memCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *memCache) Set(key string, value any, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

// fakeChain implements port.ChainClient with overridable call handlers.
// Unset handlers return errUpstream so tests exercise the degrade paths by
// default and only wire up what they assert on.
type fakeChain struct {
	nativeBalanceFn func(ctx context.Context, address string) (*big.Int, error)
	isContractFn    func(ctx context.Context, address string) (bool, error)
	tokenBalancesFn func(ctx context.Context, address string) ([]entity.RawTokenBalance, error)
	tokenMetadataFn func(ctx context.Context, contractAddress string) (entity.TokenMetadata, error)
	transfersFn     func(ctx context.Context, fromAddress string, maxCount int) ([]entity.Transfer, error)
	receiptFn       func(ctx context.Context, txHash string) (entity.Receipt, error)
}

func (f *fakeChain) NativeBalance(ctx context.Context, address string) (*big.Int, error) {
	if f.nativeBalanceFn == nil {
		return nil, errUpstream
	}
	return f.nativeBalanceFn(ctx, address)
}

func (f *fakeChain) IsContract(ctx context.Context, address string) (bool, error) {
	if f.isContractFn == nil {
		return false, errUpstream
	}
	return f.isContractFn(ctx, address)
}

func (f *fakeChain) TokenBalances(ctx context.Context, address string) ([]entity.RawTokenBalance, error) {
	if f.tokenBalancesFn == nil {
		return nil, errUpstream
	}
	return f.tokenBalancesFn(ctx, address)
}

func (f *fakeChain) TokenMetadata(ctx context.Context, contractAddress string) (entity.TokenMetadata, error) {
	if f.tokenMetadataFn == nil {
		return entity.TokenMetadata{}, errUpstream
	}
	return f.tokenMetadataFn(ctx, contractAddress)
}

func (f *fakeChain) AssetTransfers(ctx context.Context, fromAddress string, maxCount int) ([]entity.Transfer, error) {
	if f.transfersFn == nil {
		return nil, errUpstream
	}
	return f.transfersFn(ctx, fromAddress, maxCount)
}

func (f *fakeChain) TransactionReceipt(ctx context.Context, txHash string) (entity.Receipt, error) {
	if f.receiptFn == nil {
		return entity.Receipt{}, errUpstream
	}
	return f.receiptFn(ctx, txHash)
}

type fakeExplorer struct {
	contractNameFn func(ctx context.Context, address string) (string, error)
	transactionsFn func(ctx context.Context, address string, limit int) ([]entity.ExplorerTx, error)
}

func (f *fakeExplorer) ContractName(ctx context.Context, address string) (string, error) {
	if f.contractNameFn == nil {
		return "", errUpstream
	}
	return f.contractNameFn(ctx, address)
}

func (f *fakeExplorer) AccountTransactions(ctx context.Context, address string, limit int) ([]entity.ExplorerTx, error) {
	if f.transactionsFn == nil {
		return nil, errUpstream
	}
	return f.transactionsFn(ctx, address, limit)
}

type fakePrices struct {
	nativeFn func(ctx context.Context) (float64, error)
	tokensFn func(ctx context.Context, addresses []string) (map[string]float64, error)
}

func (f *fakePrices) NativePriceUSD(ctx context.Context) (float64, error) {
	if f.nativeFn == nil {
		return 0, errUpstream
	}
	return f.nativeFn(ctx)
}

func (f *fakePrices) TokenPricesUSD(ctx context.Context, addresses []string) (map[string]float64, error) {
	if f.tokensFn == nil {
		return nil, errUpstream
	}
	return f.tokensFn(ctx, addresses)
}

// staticLabels resolves from a fixed map and falls back to the raw address.
type staticLabels struct {
	labels map[string]string
}

func (s *staticLabels) Resolve(_ context.Context, address string) string {
	if label, ok := s.labels[address]; ok {
		return label
	}
	return address
}

// fakeStats is an in-memory StatsStore.
type fakeStats struct {
	mu      sync.Mutex
	views   map[string]int64
	history map[string][]entity.ValueSample
	failing bool
}

func newFakeStats() *fakeStats {
	return &fakeStats{views: map[string]int64{}, history: map[string][]entity.ValueSample{}}
}

func (f *fakeStats) IncrementView(_ context.Context, address string) (int64, error) {
	if f.failing {
		return 0, errUpstream
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views[address]++
	return f.views[address], nil
}

func (f *fakeStats) UniqueWallets(context.Context) (int64, error) {
	if f.failing {
		return 0, errUpstream
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.views)), nil
}

func (f *fakeStats) RecordValue(_ context.Context, address string, valueUSD float64) error {
	if f.failing {
		return errUpstream
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history[address] = append(f.history[address], entity.ValueSample{ValueUSD: valueUSD, RecordedAt: time.Now()})
	return nil
}

func (f *fakeStats) LatestValue(_ context.Context, address string) (entity.ValueSample, bool, error) {
	if f.failing {
		return entity.ValueSample{}, false, errUpstream
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	samples := f.history[address]
	if len(samples) == 0 {
		return entity.ValueSample{}, false, nil
	}
	return samples[len(samples)-1], true, nil
}

func (f *fakeStats) ValueHistory(_ context.Context, address string, limit int) ([]entity.ValueSample, error) {
	if f.failing {
		return nil, errUpstream
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	samples := f.history[address]
	if limit > 0 && len(samples) > limit {
		samples = samples[len(samples)-limit:]
	}
	return samples, nil
}
