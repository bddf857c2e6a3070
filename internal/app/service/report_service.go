package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"walletscope/internal/app/port"
	"walletscope/internal/domain/entity"
	"walletscope/internal/pkg/cache"
	"walletscope/internal/pkg/metrics"
	"walletscope/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
)

// ReportServiceImpl implements port.ReportService. It is the collaborator
// boundary for the presentation layer: everything below it degrades softly,
// so a report request only fails on invalid input.
type ReportServiceImpl struct {
	chain       port.ChainClient
	identity    *IdentityService
	assets      *AssetsService
	activity    *ActivityService
	gas         *GasService
	approvals   *ApprovalsService
	cache       port.Cache
	stats       port.StatsStore
	logger      port.Logger
	transferCap int
	reportTTL   time.Duration
	callTimeout time.Duration
	now         func() time.Time
}

// NewReportService creates a new ReportServiceImpl.
func NewReportService(
	chain port.ChainClient,
	identity *IdentityService,
	assets *AssetsService,
	activity *ActivityService,
	gas *GasService,
	approvals *ApprovalsService,
	c port.Cache,
	stats port.StatsStore,
	l port.Logger,
	transferCap int,
	reportTTL time.Duration,
	callTimeout time.Duration,
) port.ReportService {
	if transferCap <= 0 {
		transferCap = 500
	}
	return &ReportServiceImpl{
		chain:       chain,
		identity:    identity,
		assets:      assets,
		activity:    activity,
		gas:         gas,
		approvals:   approvals,
		cache:       c,
		stats:       stats,
		logger:      l,
		transferCap: transferCap,
		reportTTL:   reportTTL,
		callTimeout: callTimeout,
		now:         time.Now,
	}
}

// BuildReport assembles the full wallet report. The five aggregators run
// concurrently and join on an all-complete barrier before the risk engine and
// summary generator consume their outputs.
func (s *ReportServiceImpl) BuildReport(ctx context.Context, address string) (*entity.Report, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid wallet address: %s", address)
	}
	addr := utils.NormalizeAddress(address)

	if cached, ok := s.cache.Get("report:" + addr); ok {
		if report, ok := cached.(*entity.Report); ok {
			s.logger.Debug("Serving report from cache", "address", addr)
			metrics.ReportsBuilt.WithLabelValues("cache").Inc()
			served := *report
			served.FromCache = true
			served.PageViews = s.bumpViews(ctx, addr)
			return &served, nil
		}
	}

	started := s.now()
	s.logger.Info("Building wallet report", "address", addr)

	// Activity, gas and identity all consume the same initiator-scoped
	// transfer feed, so it is fetched once up front (tolerantly).
	transfers := s.loadTransfers(ctx, addr)

	report := &entity.Report{Address: utils.ChecksumAddress(addr)}

	g, groupCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report.Identity = s.identity.Build(groupCtx, addr, transfers)
		return nil
	})
	g.Go(func() error {
		report.Assets = s.assets.Build(groupCtx, addr)
		return nil
	})
	g.Go(func() error {
		report.Activity = s.activity.Build(groupCtx, addr, transfers)
		return nil
	})
	g.Go(func() error {
		report.Gas = s.gas.Build(groupCtx, addr, transfers)
		return nil
	})
	g.Go(func() error {
		report.Approvals = s.approvals.Build(groupCtx, addr)
		return nil
	})
	// Aggregators are individually failure-tolerant and never return errors;
	// the group is only the completion barrier.
	_ = g.Wait()

	report.Risk = ComputeRisk(report.Assets, report.Activity)
	report.Summary = BuildSummary(report.Identity, report.Assets, report.Activity, report.Risk)
	report.GeneratedAt = s.now().UTC()

	s.attachHistory(ctx, addr, report)
	report.PageViews = s.bumpViews(ctx, addr)

	s.cache.Set("report:"+addr, report, s.reportTTL)

	metrics.ReportsBuilt.WithLabelValues("fresh").Inc()
	metrics.ReportDuration.Observe(s.now().Sub(started).Seconds())
	s.logger.Info("Wallet report built",
		"address", addr,
		"total_value_usd", report.Assets.TotalValueUSD,
		"risk_score", report.Risk.Score,
		"duration_ms", s.now().Sub(started).Milliseconds())
	return report, nil
}

// loadTransfers fetches the initiator-scoped transfer feed, degrading to an
// empty feed on failure. The result is cached for the report TTL so the
// per-request aggregators share one upstream call.
func (s *ReportServiceImpl) loadTransfers(ctx context.Context, addr string) []entity.Transfer {
	transfers, err := cache.GetOrCompute(s.cache, "transfers:"+addr, s.reportTTL, func() ([]entity.Transfer, error) {
		callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
		return s.chain.AssetTransfers(callCtx, addr, s.transferCap)
	})
	if err != nil {
		s.logger.Warn("Transfer feed unavailable, activity modules will be empty", "address", addr, "error", err)
		metrics.UpstreamFailures.WithLabelValues("rpc").Inc()
		return nil
	}
	return transfers
}

// attachHistory records the current total value and computes the delta
// against the previous recorded sample. Store failures are logged and
// ignored; history is best-effort decoration.
func (s *ReportServiceImpl) attachHistory(ctx context.Context, addr string, report *entity.Report) {
	if s.stats == nil {
		return
	}

	previous, ok, err := s.stats.LatestValue(ctx, addr)
	if err != nil {
		s.logger.Warn("Value history lookup failed", "address", addr, "error", err)
	} else if ok {
		prev := previous.ValueUSD
		delta := report.Assets.TotalValueUSD - prev
		report.PreviousValueUSD = &prev
		report.ValueDeltaUSD = &delta
	}

	if err := s.stats.RecordValue(ctx, addr, report.Assets.TotalValueUSD); err != nil {
		s.logger.Warn("Value history record failed", "address", addr, "error", err)
	}
}

func (s *ReportServiceImpl) bumpViews(ctx context.Context, addr string) int64 {
	if s.stats == nil {
		return 0
	}
	views, err := s.stats.IncrementView(ctx, addr)
	if err != nil {
		s.logger.Warn("View counter increment failed", "address", addr, "error", err)
		return 0
	}
	return views
}
