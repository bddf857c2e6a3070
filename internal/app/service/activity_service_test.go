package service

import (
	"context"
	"testing"
	"time"

	"walletscope/internal/domain/entity"
)

const wallet = "0x1111111111111111111111111111111111111111"

func ts(day string) time.Time {
	t, _ := time.Parse("2006-01-02 15:04", day)
	return t.UTC()
}

func newTestActivityService(labels map[string]string) *ActivityService {
	return NewActivityService(&staticLabels{labels: labels}, nopLogger{})
}

func TestActivityBuildEmptyFeed(t *testing.T) {
	module := newTestActivityService(nil).Build(context.Background(), wallet, nil)

	if module.TxCount != 0 || module.ActiveDays != 0 || module.ContractsInteracted != 0 {
		t.Errorf("expected zeroed module, got %+v", module)
	}
	if len(module.TopContracts) != 0 || len(module.WeeklyHistogram) != 0 {
		t.Errorf("expected empty slices, got %+v", module)
	}
}

func TestActivityBuildCountsOnlyOutbound(t *testing.T) {
	transfers := []entity.Transfer{
		{From: wallet, To: "0xaa00000000000000000000000000000000000001", Timestamp: ts("2026-08-01 10:00")},
		{From: "0xbb00000000000000000000000000000000000002", To: wallet, Timestamp: ts("2026-08-01 11:00")},
		{From: wallet, To: "0xaa00000000000000000000000000000000000001", Timestamp: ts("2026-08-02 09:00")},
	}

	module := newTestActivityService(nil).Build(context.Background(), wallet, transfers)

	if module.TxCount != 2 {
		t.Errorf("TxCount = %d, want 2 (inbound excluded)", module.TxCount)
	}
	if module.ActiveDays != 2 {
		t.Errorf("ActiveDays = %d, want 2", module.ActiveDays)
	}
}

func TestActivityTopCounterpartiesRankingAndTies(t *testing.T) {
	a := "0xaa00000000000000000000000000000000000001"
	b := "0xbb00000000000000000000000000000000000002"
	c := "0xcc00000000000000000000000000000000000003"
	d := "0xdd00000000000000000000000000000000000004"

	// b appears 3 times, a and c twice each (a seen first), d once.
	var transfers []entity.Transfer
	for _, to := range []string{a, b, c, b, a, c, b, d} {
		transfers = append(transfers, entity.Transfer{From: wallet, To: to, Timestamp: ts("2026-08-01 10:00")})
	}

	module := newTestActivityService(map[string]string{b: "Uniswap V3: Router"}).Build(context.Background(), wallet, transfers)

	if module.ContractsInteracted != 4 {
		t.Errorf("ContractsInteracted = %d, want 4", module.ContractsInteracted)
	}
	if len(module.TopContracts) != 3 {
		t.Fatalf("TopContracts = %+v, want 3 entries", module.TopContracts)
	}
	if module.TopContracts[0].Address != b || module.TopContracts[0].Count != 3 {
		t.Errorf("top[0] = %+v, want %s with count 3", module.TopContracts[0], b)
	}
	if module.TopContracts[0].Label != "Uniswap V3: Router" {
		t.Errorf("top[0] label = %q, want resolved label", module.TopContracts[0].Label)
	}
	// a ties with c on count 2; first-seen order keeps a ahead.
	if module.TopContracts[1].Address != a {
		t.Errorf("top[1] = %s, want %s (first-seen tie-break)", module.TopContracts[1].Address, a)
	}
	if module.TopContracts[2].Address != c {
		t.Errorf("top[2] = %s, want %s", module.TopContracts[2].Address, c)
	}
}

func TestActivityExcludesSelfTransfers(t *testing.T) {
	transfers := []entity.Transfer{
		{From: wallet, To: wallet, Timestamp: ts("2026-08-01 10:00")},
	}

	module := newTestActivityService(nil).Build(context.Background(), wallet, transfers)

	if module.TxCount != 1 {
		t.Errorf("TxCount = %d, want 1", module.TxCount)
	}
	if module.ContractsInteracted != 0 || len(module.TopContracts) != 0 {
		t.Errorf("self-transfer counted as counterparty: %+v", module)
	}
}

func TestWeeklyHistogramBucketsAndOrder(t *testing.T) {
	transfers := []entity.Transfer{
		// 2026-08-10 is a Monday; 2026-08-12 lands in the same week.
		{From: wallet, To: "0xaa00000000000000000000000000000000000001", Timestamp: ts("2026-08-12 08:00")},
		{From: wallet, To: "0xaa00000000000000000000000000000000000001", Timestamp: ts("2026-08-10 23:00")},
		// Sunday 2026-08-09 belongs to the week starting Monday 2026-08-03.
		{From: wallet, To: "0xaa00000000000000000000000000000000000001", Timestamp: ts("2026-08-09 12:00")},
	}

	module := newTestActivityService(nil).Build(context.Background(), wallet, transfers)

	if len(module.WeeklyHistogram) != 2 {
		t.Fatalf("WeeklyHistogram = %+v, want 2 buckets", module.WeeklyHistogram)
	}
	first, second := module.WeeklyHistogram[0], module.WeeklyHistogram[1]
	if !first.WeekStart.Before(second.WeekStart) {
		t.Error("histogram not sorted ascending by week start")
	}
	if got := first.WeekStart.Format("2006-01-02"); got != "2026-08-03" {
		t.Errorf("first bucket week start = %s, want 2026-08-03", got)
	}
	if first.Count != 1 || second.Count != 2 {
		t.Errorf("bucket counts = %d, %d, want 1, 2", first.Count, second.Count)
	}
}

func TestWeekStartIsMondayUTC(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2026-08-10 00:00", "2026-08-10"}, // Monday maps to itself
		{"2026-08-13 16:30", "2026-08-10"}, // Thursday
		{"2026-08-16 23:59", "2026-08-10"}, // Sunday still previous Monday
	}
	for _, tt := range tests {
		if got := weekStart(ts(tt.in)).Format("2006-01-02"); got != tt.want {
			t.Errorf("weekStart(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
