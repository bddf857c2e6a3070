package service

import (
	"context"
	"math"
	"math/big"
	"testing"

	"walletscope/internal/domain/entity"
)

// gwei returns n gwei in wei.
func gwei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000))
}

func newTestGasService(chain *fakeChain, prices *fakePrices) *GasService {
	return NewGasService(chain, prices, newMemCache(), nopLogger{}, 50, 5, testTimeout)
}

func TestGasBuildEmptyFeed(t *testing.T) {
	module := newTestGasService(&fakeChain{}, &fakePrices{}).Build(context.Background(), wallet, nil)

	if module.SampledTxs != 0 || module.TotalGasETH != 0 || len(module.TopTxs) != 0 {
		t.Errorf("expected zeroed module, got %+v", module)
	}
}

func TestGasBuildSumsReceipts(t *testing.T) {
	transfers := []entity.Transfer{
		{From: wallet, Hash: "0xaaa"},
		{From: wallet, Hash: "0xbbb"},
		{From: "0x9999999999999999999999999999999999999999", Hash: "0xccc"}, // inbound, skipped
	}
	chain := &fakeChain{
		receiptFn: func(_ context.Context, hash string) (entity.Receipt, error) {
			// 100k gas at 10 gwei = 0.001 ETH per tx.
			return entity.Receipt{TxHash: hash, GasUsed: 100_000, EffectiveGasPrice: gwei(10)}, nil
		},
	}
	prices := &fakePrices{
		nativeFn: func(context.Context) (float64, error) { return 2000, nil },
	}

	module := newTestGasService(chain, prices).Build(context.Background(), wallet, transfers)

	if module.SampledTxs != 2 {
		t.Errorf("SampledTxs = %d, want 2", module.SampledTxs)
	}
	if math.Abs(module.TotalGasETH-0.002) > 1e-12 {
		t.Errorf("TotalGasETH = %v, want 0.002", module.TotalGasETH)
	}
	if math.Abs(module.TotalGasUSD-4) > 1e-9 {
		t.Errorf("TotalGasUSD = %v, want 4", module.TotalGasUSD)
	}
}

func TestGasBuildCachesNativePrice(t *testing.T) {
	transfers := []entity.Transfer{{From: wallet, Hash: "0xaaa"}}
	chain := &fakeChain{
		receiptFn: func(_ context.Context, hash string) (entity.Receipt, error) {
			return entity.Receipt{TxHash: hash, GasUsed: 21_000, EffectiveGasPrice: gwei(10)}, nil
		},
	}
	priceCalls := 0
	prices := &fakePrices{
		nativeFn: func(context.Context) (float64, error) {
			priceCalls++
			return 2000, nil
		},
	}

	svc := newTestGasService(chain, prices)
	for i := 0; i < 2; i++ {
		if module := svc.Build(context.Background(), wallet, transfers); module.TotalGasUSD == 0 {
			t.Fatalf("build %d: TotalGasUSD = 0, want priced total", i+1)
		}
	}
	if priceCalls != 1 {
		t.Errorf("native price fetched %d times, want 1 (cached)", priceCalls)
	}
}

func TestGasBuildReceiptFailureContributesZero(t *testing.T) {
	transfers := []entity.Transfer{
		{From: wallet, Hash: "0xaaa"},
		{From: wallet, Hash: "0xbbb"},
	}
	chain := &fakeChain{
		receiptFn: func(_ context.Context, hash string) (entity.Receipt, error) {
			if hash == "0xbbb" {
				return entity.Receipt{}, errUpstream
			}
			return entity.Receipt{TxHash: hash, GasUsed: 100_000, EffectiveGasPrice: gwei(10)}, nil
		},
	}
	prices := &fakePrices{
		nativeFn: func(context.Context) (float64, error) { return 2000, nil },
	}

	module := newTestGasService(chain, prices).Build(context.Background(), wallet, transfers)

	if module.SampledTxs != 2 {
		t.Errorf("SampledTxs = %d, want 2", module.SampledTxs)
	}
	if math.Abs(module.TotalGasETH-0.001) > 1e-12 {
		t.Errorf("TotalGasETH = %v, want 0.001 (failed receipt contributes zero)", module.TotalGasETH)
	}
}

func TestGasBuildSampleCapAndDedup(t *testing.T) {
	var transfers []entity.Transfer
	for i := 0; i < 5; i++ {
		// Duplicate hashes from multi-asset transfers in the same tx.
		transfers = append(transfers,
			entity.Transfer{From: wallet, Hash: "0xdup"},
			entity.Transfer{From: wallet, Hash: "0xdup"},
		)
	}
	var receiptCalls int
	chain := &fakeChain{
		receiptFn: func(_ context.Context, hash string) (entity.Receipt, error) {
			receiptCalls++
			return entity.Receipt{TxHash: hash, GasUsed: 21_000, EffectiveGasPrice: gwei(5)}, nil
		},
	}
	prices := &fakePrices{
		nativeFn: func(context.Context) (float64, error) { return 2000, nil },
	}

	svc := NewGasService(chain, prices, newMemCache(), nopLogger{}, 3, 2, testTimeout)
	module := svc.Build(context.Background(), wallet, transfers)

	if module.SampledTxs != 1 {
		t.Errorf("SampledTxs = %d, want 1 after dedup", module.SampledTxs)
	}
	if receiptCalls != 1 {
		t.Errorf("receipt fetched %d times, want 1", receiptCalls)
	}
}

func TestGasTopTxsRankedDescending(t *testing.T) {
	costs := []entity.GasTx{
		{Hash: "0x1", CostETH: 0.001},
		{Hash: "0x2", CostETH: 0.005},
		{Hash: "0x3", CostETH: 0},
		{Hash: "0x4", CostETH: 0.003},
		{Hash: "0x5", CostETH: 0.004},
	}

	top := topGasTxs(costs)

	if len(top) != 3 {
		t.Fatalf("topGasTxs returned %d entries, want 3", len(top))
	}
	want := []string{"0x2", "0x5", "0x4"}
	for i, hash := range want {
		if top[i].Hash != hash {
			t.Errorf("top[%d] = %s, want %s", i, top[i].Hash, hash)
		}
	}
}

func TestReceiptCostEth(t *testing.T) {
	tests := []struct {
		name    string
		receipt entity.Receipt
		want    float64
	}{
		{"nil price", entity.Receipt{GasUsed: 21_000}, 0},
		{"zero gas", entity.Receipt{EffectiveGasPrice: gwei(10)}, 0},
		{"standard transfer", entity.Receipt{GasUsed: 21_000, EffectiveGasPrice: gwei(10)}, 0.00021},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := receiptCostEth(tt.receipt); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("receiptCostEth = %v, want %v", got, tt.want)
			}
		})
	}
}
