package httpclient

import (
	"context"
	stdjson "encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"walletscope/internal/app/port"
	"walletscope/internal/domain/entity"
	"walletscope/internal/pkg/utils"
)

// explorerEnvelope is the common wrapper of every explorer API response.
// Result stays raw because its shape depends on the requested action.
type explorerEnvelope struct {
	Status  string             `json:"status"`
	Message string             `json:"message"`
	Result  stdjson.RawMessage `json:"result"`
}

type sourceCodeEntry struct {
	ContractName string `json:"ContractName"`
}

type txListEntry struct {
	Hash         string `json:"hash"`
	From         string `json:"from"`
	To           string `json:"to"`
	Input        string `json:"input"`
	MethodID     string `json:"methodId"`
	FunctionName string `json:"functionName"`
	TimeStamp    string `json:"timeStamp"`
}

// ExplorerClient implements port.ExplorerClient against an Etherscan-style
// REST API. Requests share a rate limiter sized to the API key's allowance.
// With no API key configured the client degrades to empty results so the
// dashboard renders without explorer-backed modules.
type ExplorerClient struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewExplorerClient creates a new ExplorerClient. requestsPerSecond bounds
// the request rate; free-tier explorer keys allow 5 rps.
func NewExplorerClient(baseURL, apiKey string, timeout time.Duration, requestsPerSecond float64, logger *zap.Logger) *ExplorerClient {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5
	}
	return &ExplorerClient{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		logger:  logger.Named("ExplorerClient"),
	}
}

// ContractName returns the verified contract name for an address, or "" for
// unverified contracts.
func (c *ExplorerClient) ContractName(ctx context.Context, address string) (string, error) {
	if c.apiKey == "" {
		return "", nil
	}

	query := fmt.Sprintf("module=contract&action=getsourcecode&address=%s", utils.NormalizeAddress(address))
	result, err := c.call(ctx, query)
	if err != nil {
		return "", err
	}

	var entries []sourceCodeEntry
	if err := json.Unmarshal(result, &entries); err != nil {
		return "", fmt.Errorf("failed to unmarshal getsourcecode result: %w", err)
	}
	if len(entries) == 0 {
		return "", nil
	}
	return entries[0].ContractName, nil
}

// AccountTransactions lists up to limit recent transactions sent by the
// address, newest first.
func (c *ExplorerClient) AccountTransactions(ctx context.Context, address string, limit int) ([]entity.ExplorerTx, error) {
	if c.apiKey == "" {
		return nil, nil
	}

	query := fmt.Sprintf("module=account&action=txlist&address=%s&page=1&offset=%d&sort=desc",
		utils.NormalizeAddress(address), limit)
	result, err := c.call(ctx, query)
	if err != nil {
		return nil, err
	}

	var entries []txListEntry
	if err := json.Unmarshal(result, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal txlist result: %w", err)
	}

	addr := utils.NormalizeAddress(address)
	txs := make([]entity.ExplorerTx, 0, len(entries))
	for _, e := range entries {
		// txlist includes inbound entries; only calls sent by the wallet can
		// carry its approvals.
		if utils.NormalizeAddress(e.From) != addr {
			continue
		}
		if e.Input == "" || e.Input == "0x" {
			continue
		}
		tx := entity.ExplorerTx{
			Hash:         e.Hash,
			To:           utils.NormalizeAddress(e.To),
			MethodID:     e.MethodID,
			FunctionName: e.FunctionName,
			Input:        e.Input,
		}
		if unix, err := strconv.ParseInt(e.TimeStamp, 10, 64); err == nil {
			tx.Timestamp = time.Unix(unix, 0).UTC()
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// call performs one rate-limited GET against the explorer API and unwraps
// the response envelope.
func (c *ExplorerClient) call(ctx context.Context, query string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait cancelled: %w", err)
	}

	requestURL := fmt.Sprintf("%s?%s&apikey=%s", c.baseURL, query, c.apiKey)
	c.logger.Debug("Requesting explorer API", zap.String("query", query))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, fmt.Errorf("failed to execute explorer request: %w", err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			return nil, fmt.Errorf("failed to execute explorer request with default timeout: %w", err)
		}
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Explorer API request failed",
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return nil, fmt.Errorf("explorer API request failed with status %d", resp.StatusCode())
	}

	var envelope explorerEnvelope
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal explorer envelope: %w", err)
	}

	// Status "0" with "No transactions found" is an empty result, not an
	// error; any other non-OK status is a real failure.
	if envelope.Status != "1" && !strings.Contains(envelope.Message, "No transactions found") {
		return nil, fmt.Errorf("explorer API returned status %s: %s", envelope.Status, envelope.Message)
	}
	return envelope.Result, nil
}

var _ port.ExplorerClient = (*ExplorerClient)(nil)
