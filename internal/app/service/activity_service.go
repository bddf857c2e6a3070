package service

import (
	"context"
	"sort"
	"time"

	"walletscope/internal/app/port"
	"walletscope/internal/domain/entity"
	"walletscope/internal/pkg/utils"
)

const topCounterpartyCount = 3

// ActivityService summarizes initiator-scoped transfer activity.
type ActivityService struct {
	labels port.LabelResolver
	logger port.Logger
}

// NewActivityService creates a new ActivityService.
func NewActivityService(labels port.LabelResolver, l port.Logger) *ActivityService {
	return &ActivityService{labels: labels, logger: l}
}

// Build summarizes the outbound transfer feed for an address. An empty feed
// yields a fully zeroed module, not an error.
func (s *ActivityService) Build(ctx context.Context, address string, transfers []entity.Transfer) entity.ActivityModule {
	addr := utils.NormalizeAddress(address)

	outbound := make([]entity.Transfer, 0, len(transfers))
	for _, tr := range transfers {
		if utils.NormalizeAddress(tr.From) == addr {
			outbound = append(outbound, tr)
		}
	}

	module := entity.ActivityModule{TxCount: len(outbound)}
	if len(outbound) == 0 {
		return module
	}

	module.ActiveDays = countActiveDays(outbound)
	module.TopContracts, module.ContractsInteracted = s.topCounterparties(ctx, addr, outbound)
	module.WeeklyHistogram = weeklyHistogram(outbound)
	return module
}

// countActiveDays counts distinct UTC calendar days with at least one
// outbound transfer. Transfers without a block time are skipped.
func countActiveDays(transfers []entity.Transfer) int {
	days := map[string]struct{}{}
	for _, tr := range transfers {
		if tr.Timestamp.IsZero() {
			continue
		}
		days[tr.Timestamp.UTC().Format("2006-01-02")] = struct{}{}
	}
	return len(days)
}

// topCounterparties ranks counterparties by interaction count descending.
// Ties keep first-seen order from the feed (newest-first), implemented with a
// stable sort over the insertion sequence — the documented tie-break.
// Self-transfers are excluded.
func (s *ActivityService) topCounterparties(ctx context.Context, addr string, transfers []entity.Transfer) ([]entity.Counterparty, int) {
	counts := map[string]int{}
	var order []string

	for _, tr := range transfers {
		to := utils.NormalizeAddress(tr.To)
		if to == "" || to == addr {
			continue
		}
		if _, seen := counts[to]; !seen {
			order = append(order, to)
		}
		counts[to]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	top := order
	if len(top) > topCounterpartyCount {
		top = top[:topCounterpartyCount]
	}

	result := make([]entity.Counterparty, 0, len(top))
	for _, address := range top {
		result = append(result, entity.Counterparty{
			Address: address,
			Label:   s.labels.Resolve(ctx, address),
			Count:   counts[address],
		})
	}
	return result, len(order)
}

// weeklyHistogram buckets outbound transfers by ISO week (Monday start, UTC),
// sorted ascending by week start.
func weeklyHistogram(transfers []entity.Transfer) []entity.WeekBucket {
	counts := map[time.Time]int{}
	for _, tr := range transfers {
		if tr.Timestamp.IsZero() {
			continue
		}
		counts[weekStart(tr.Timestamp)]++
	}

	buckets := make([]entity.WeekBucket, 0, len(counts))
	for start, count := range counts {
		buckets = append(buckets, entity.WeekBucket{WeekStart: start, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].WeekStart.Before(buckets[j].WeekStart)
	})
	return buckets
}

// weekStart truncates a timestamp to the preceding Monday midnight UTC.
func weekStart(t time.Time) time.Time {
	t = t.UTC()
	day := t.Truncate(24 * time.Hour)
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}
