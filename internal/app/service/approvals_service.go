package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"walletscope/internal/app/port"
	"walletscope/internal/domain/entity"
	"walletscope/internal/infrastructure/labels"
	"walletscope/internal/pkg/cache"
	"walletscope/internal/pkg/metrics"
	"walletscope/internal/pkg/utils"
)

// ERC-20 approve(address,uint256) selector.
const approveMethodID = "0x095ea7b3"

// The maximum representable allowance: 32 bytes of 0xff.
var unlimitedAllowanceHex = strings.Repeat("f", 64)

const maxApprovalResults = 5

// ApprovalsService scans recent transaction history for token approvals and
// flags unlimited approvals granted to unknown spenders.
type ApprovalsService struct {
	explorer    port.ExplorerClient
	chain       port.ChainClient
	cache       port.Cache
	logger      port.Logger
	scanDepth   int
	callTimeout time.Duration
}

// NewApprovalsService creates a new ApprovalsService.
func NewApprovalsService(explorer port.ExplorerClient, chain port.ChainClient, c port.Cache, l port.Logger, scanDepth int, callTimeout time.Duration) *ApprovalsService {
	if scanDepth <= 0 {
		scanDepth = 100
	}
	return &ApprovalsService{
		explorer:    explorer,
		chain:       chain,
		cache:       c,
		logger:      l,
		scanDepth:   scanDepth,
		callTimeout: callTimeout,
	}
}

// Build scans up to scanDepth recent outbound transactions for approve calls.
// Explorer failures (including a missing API key) yield an empty module.
func (s *ApprovalsService) Build(ctx context.Context, address string) entity.ApprovalsModule {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	txs, err := s.explorer.AccountTransactions(callCtx, address, s.scanDepth)
	if err != nil {
		s.logger.Warn("Explorer transaction history unavailable, skipping approval scan", "address", address, "error", err)
		metrics.UpstreamFailures.WithLabelValues("explorer").Inc()
		return entity.ApprovalsModule{}
	}

	module := entity.ApprovalsModule{Scanned: len(txs)}

	// The feed is newest first; the first occurrence of a (token, spender)
	// pair is the most recent approval and wins the dedup.
	type pairKey struct{ token, spender string }
	seen := map[pairKey]struct{}{}
	var approvals []entity.Approval

	for _, tx := range txs {
		if !isApproveCall(tx) {
			continue
		}

		spender, ok := decodeSpender(tx.Input)
		if !ok {
			continue
		}

		token := utils.NormalizeAddress(tx.To)
		key := pairKey{token: token, spender: spender}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		unlimited := decodeAllowanceUnlimited(tx.Input)
		whitelisted := labels.IsWhitelistedSpender(spender)

		approvals = append(approvals, entity.Approval{
			TokenAddress: token,
			TokenSymbol:  s.tokenSymbol(ctx, token),
			Spender:      spender,
			SpenderLabel: s.spenderLabel(spender),
			Unlimited:    unlimited,
			HighRisk:     unlimited && !whitelisted,
			Timestamp:    tx.Timestamp,
		})
	}

	for _, a := range approvals {
		if a.HighRisk {
			module.HighRiskCount++
		}
	}

	// Flagged entries first; the stable sort keeps recency order inside each
	// partition, which is the documented secondary key.
	sort.SliceStable(approvals, func(i, j int) bool {
		return approvals[i].HighRisk && !approvals[j].HighRisk
	})
	if len(approvals) > maxApprovalResults {
		approvals = approvals[:maxApprovalResults]
	}
	module.Approvals = approvals
	return module
}

// isApproveCall matches by 4-byte method id or decoded function name.
func isApproveCall(tx entity.ExplorerTx) bool {
	if strings.EqualFold(tx.MethodID, approveMethodID) {
		return true
	}
	return strings.HasPrefix(tx.FunctionName, "approve(")
}

// decodeSpender extracts the spender address from the first 32-byte
// parameter slot of the call input. Returns ok=false when the input is too
// short or the slot decodes to the zero address.
func decodeSpender(input string) (string, bool) {
	input = strings.TrimPrefix(strings.ToLower(input), "0x")
	// 8 hex chars of selector + 64 of the spender slot.
	if len(input) < 72 {
		return "", false
	}
	slot := input[8:72]
	spender := "0x" + slot[24:]
	if spender == entityZeroAddress {
		return "", false
	}
	return spender, true
}

// decodeAllowanceUnlimited reports whether the allowance slot holds the
// maximum representable value (every hex digit f).
func decodeAllowanceUnlimited(input string) bool {
	input = strings.TrimPrefix(strings.ToLower(input), "0x")
	if len(input) < 136 {
		return false
	}
	return input[72:136] == unlimitedAllowanceHex
}

const entityZeroAddress = "0x0000000000000000000000000000000000000000"

func (s *ApprovalsService) tokenSymbol(ctx context.Context, token string) string {
	key := "meta:" + token
	meta, err := cache.GetOrCompute(s.cache, key, metadataCacheTTL, func() (entity.TokenMetadata, error) {
		callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
		return s.chain.TokenMetadata(callCtx, token)
	})
	if err != nil || meta.Symbol == "" {
		return utils.ShortenAddress(token)
	}
	return meta.Symbol
}

func (s *ApprovalsService) spenderLabel(spender string) string {
	if label, ok := labels.Lookup(spender); ok {
		return label
	}
	return utils.ShortenAddress(spender)
}
