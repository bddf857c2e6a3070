package service

import (
	"context"
	"time"

	"walletscope/internal/app/port"
	"walletscope/internal/domain/entity"
	"walletscope/internal/pkg/metrics"
	"walletscope/internal/pkg/utils"
)

// IdentityService classifies an address as contract or externally-owned and
// estimates its age from the earliest observed transfer.
type IdentityService struct {
	chain       port.ChainClient
	logger      port.Logger
	callTimeout time.Duration
	now         func() time.Time
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(chain port.ChainClient, l port.Logger, callTimeout time.Duration) *IdentityService {
	return &IdentityService{chain: chain, logger: l, callTimeout: callTimeout, now: time.Now}
}

// Build classifies the address and derives first-seen/age from the transfer
// feed. A code-lookup failure defaults to the EOA classification; no
// observed activity leaves FirstSeen zero and AgeDays 0.
func (s *IdentityService) Build(ctx context.Context, address string, transfers []entity.Transfer) entity.IdentityModule {
	module := entity.IdentityModule{Address: utils.ChecksumAddress(address)}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	isContract, err := s.chain.IsContract(callCtx, address)
	if err != nil {
		s.logger.Warn("Code lookup failed, assuming externally-owned account", "address", address, "error", err)
		metrics.UpstreamFailures.WithLabelValues("rpc").Inc()
	} else {
		module.IsContract = isContract
	}

	var earliest time.Time
	for _, tr := range transfers {
		if tr.Timestamp.IsZero() {
			continue
		}
		if earliest.IsZero() || tr.Timestamp.Before(earliest) {
			earliest = tr.Timestamp
		}
	}
	if !earliest.IsZero() {
		module.FirstSeen = earliest.UTC()
		module.AgeDays = int(s.now().UTC().Sub(module.FirstSeen).Hours() / 24)
		if module.AgeDays < 0 {
			module.AgeDays = 0
		}
	}
	return module
}
