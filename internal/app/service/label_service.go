package service

import (
	"context"
	"time"

	"walletscope/internal/app/port"
	"walletscope/internal/infrastructure/labels"
	"walletscope/internal/pkg/cache"
	"walletscope/internal/pkg/utils"
)

const labelCacheTTL = 6 * time.Hour

// LabelService resolves addresses to human labels: the embedded static
// dictionary first, then the explorer's verified-contract name, then a
// shortened form of the raw address. The ordered fallback chain is explicit;
// each strategy either produces a label or passes to the next.
type LabelService struct {
	explorer    port.ExplorerClient
	cache       port.Cache
	logger      port.Logger
	callTimeout time.Duration
}

// NewLabelService creates a new LabelService.
func NewLabelService(explorer port.ExplorerClient, c port.Cache, l port.Logger, callTimeout time.Duration) *LabelService {
	return &LabelService{explorer: explorer, cache: c, logger: l, callTimeout: callTimeout}
}

// Resolve never fails: a remote lookup error falls back to the shortened
// address so label resolution can never block an aggregator.
func (s *LabelService) Resolve(ctx context.Context, address string) string {
	addr := utils.NormalizeAddress(address)

	if label, ok := labels.Lookup(addr); ok {
		return label
	}

	label, err := cache.GetOrCompute(s.cache, "label:"+addr, labelCacheTTL, func() (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
		return s.explorer.ContractName(callCtx, addr)
	})
	if err != nil {
		s.logger.Debug("Label lookup failed, falling back to raw address", "address", addr, "error", err)
		return utils.ShortenAddress(addr)
	}
	if label == "" {
		return utils.ShortenAddress(addr)
	}
	return label
}

var _ port.LabelResolver = (*LabelService)(nil)
