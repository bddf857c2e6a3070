package client

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"walletscope/internal/app/port"
	"walletscope/internal/domain/entity"
	"walletscope/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	networkdefinition "walletscope/internal/infrastructure/network/definition"
)

// Transfer categories requested from the indexer feed: native value moves
// (top-level and trace-level), fungible tokens and both NFT standards.
var transferCategories = []string{"external", "internal", "erc20", "erc721", "erc1155"}

// EVMClient implements port.ChainClient against an EVM JSON-RPC endpoint with
// indexing extensions (token balances, token metadata, asset transfers).
type EVMClient struct {
	ethClient *ethclient.Client
	rpcClient *rpc.Client
	netDef    networkdefinition.Definition
	logger    port.Logger
}

// NewEVMClient dials the network's endpoints in order and returns a client on
// the first endpoint that accepts a connection.
func NewEVMClient(netDef networkdefinition.Definition, connectionTimeout time.Duration, l port.Logger) (*EVMClient, error) {
	var lastErr error

	for _, rpcURL := range netDef.RPCURLs() {
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		ethClient, err := ethclient.DialContext(ctx, rpcURL)
		cancel()

		if err == nil {
			l.Info("Connected to RPC endpoint", "network", netDef.Name, "rpc_url", rpcURL)
			return &EVMClient{
				ethClient: ethClient,
				rpcClient: ethClient.Client(),
				netDef:    netDef,
				logger:    l,
			}, nil
		}
		l.Warn("RPC endpoint unreachable, trying next", "rpc_url", rpcURL, "error", err)
		lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
	}

	return nil, fmt.Errorf("all RPC connection attempts failed for network %s: %w", netDef.Name, lastErr)
}

// NativeBalance fetches the latest native balance in wei.
func (c *EVMClient) NativeBalance(ctx context.Context, address string) (*big.Int, error) {
	balance, err := c.ethClient.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, fmt.Errorf("eth_getBalance for %s: %w", address, err)
	}
	return balance, nil
}

// IsContract reports whether code is deployed at the address.
func (c *EVMClient) IsContract(ctx context.Context, address string) (bool, error) {
	code, err := c.ethClient.CodeAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return false, fmt.Errorf("eth_getCode for %s: %w", address, err)
	}
	return len(code) > 0, nil
}

// tokenBalancesResult mirrors the indexer's token balance response.
type tokenBalancesResult struct {
	Address       string `json:"address"`
	TokenBalances []struct {
		ContractAddress string `json:"contractAddress"`
		TokenBalance    string `json:"tokenBalance"`
		Error           any    `json:"error"`
	} `json:"tokenBalances"`
}

// TokenBalances lists non-zero fungible token balances via the indexer's
// token-balance extension. Balances that fail to decode are skipped.
func (c *EVMClient) TokenBalances(ctx context.Context, address string) ([]entity.RawTokenBalance, error) {
	var result tokenBalancesResult
	err := c.rpcClient.CallContext(ctx, &result, "alchemy_getTokenBalances", common.HexToAddress(address), "erc20")
	if err != nil {
		return nil, fmt.Errorf("alchemy_getTokenBalances for %s: %w", address, err)
	}

	balances := make([]entity.RawTokenBalance, 0, len(result.TokenBalances))
	for _, tb := range result.TokenBalances {
		if tb.Error != nil {
			continue
		}
		amount, ok := parseHexBig(tb.TokenBalance)
		if !ok {
			c.logger.Debug("Skipping undecodable token balance", "contract", tb.ContractAddress, "raw", tb.TokenBalance)
			continue
		}
		if amount.Sign() == 0 {
			continue
		}
		balances = append(balances, entity.RawTokenBalance{
			ContractAddress: utils.NormalizeAddress(tb.ContractAddress),
			RawAmount:       amount,
		})
	}
	return balances, nil
}

// tokenMetadataResult mirrors the indexer's token metadata response.
// Decimals is nullable for non-standard contracts.
type tokenMetadataResult struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals *int   `json:"decimals"`
}

// TokenMetadata resolves symbol and decimals for a token contract. Contracts
// that report no decimals default to 18.
func (c *EVMClient) TokenMetadata(ctx context.Context, contractAddress string) (entity.TokenMetadata, error) {
	var result tokenMetadataResult
	err := c.rpcClient.CallContext(ctx, &result, "alchemy_getTokenMetadata", common.HexToAddress(contractAddress))
	if err != nil {
		return entity.TokenMetadata{}, fmt.Errorf("alchemy_getTokenMetadata for %s: %w", contractAddress, err)
	}

	meta := entity.TokenMetadata{Symbol: strings.TrimSpace(result.Symbol), Decimals: 18}
	if result.Decimals != nil && *result.Decimals >= 0 && *result.Decimals <= 255 {
		meta.Decimals = uint8(*result.Decimals)
	}
	return meta, nil
}

// assetTransfersParams is the request body of the transfer-feed extension.
type assetTransfersParams struct {
	FromBlock    string   `json:"fromBlock"`
	ToBlock      string   `json:"toBlock"`
	FromAddress  string   `json:"fromAddress,omitempty"`
	Category     []string `json:"category"`
	WithMetadata bool     `json:"withMetadata"`
	MaxCount     string   `json:"maxCount"`
	Order        string   `json:"order"`
}

// assetTransfersResult mirrors the transfer-feed response.
type assetTransfersResult struct {
	Transfers []struct {
		Hash     string   `json:"hash"`
		From     string   `json:"from"`
		To       string   `json:"to"`
		Asset    string   `json:"asset"`
		Category string   `json:"category"`
		Value    *float64 `json:"value"`
		BlockNum string   `json:"blockNum"`
		Metadata struct {
			BlockTimestamp string `json:"blockTimestamp"`
		} `json:"metadata"`
	} `json:"transfers"`
}

// AssetTransfers lists up to maxCount transfers initiated by the address,
// newest first, with block timestamps attached.
func (c *EVMClient) AssetTransfers(ctx context.Context, fromAddress string, maxCount int) ([]entity.Transfer, error) {
	params := assetTransfersParams{
		FromBlock:    "0x0",
		ToBlock:      "latest",
		FromAddress:  common.HexToAddress(fromAddress).Hex(),
		Category:     transferCategories,
		WithMetadata: true,
		MaxCount:     hexutil.EncodeUint64(uint64(maxCount)),
		Order:        "desc",
	}

	var result assetTransfersResult
	if err := c.rpcClient.CallContext(ctx, &result, "alchemy_getAssetTransfers", params); err != nil {
		return nil, fmt.Errorf("alchemy_getAssetTransfers for %s: %w", fromAddress, err)
	}

	transfers := make([]entity.Transfer, 0, len(result.Transfers))
	for _, raw := range result.Transfers {
		tr := entity.Transfer{
			Hash:     raw.Hash,
			From:     utils.NormalizeAddress(raw.From),
			To:       utils.NormalizeAddress(raw.To),
			Asset:    raw.Asset,
			Category: raw.Category,
			BlockNum: utils.ParseHexUint64(raw.BlockNum),
		}
		if raw.Value != nil {
			tr.Value = *raw.Value
		}
		if ts, err := time.Parse(time.RFC3339, raw.Metadata.BlockTimestamp); err == nil {
			tr.Timestamp = ts.UTC()
		}
		transfers = append(transfers, tr)
	}
	return transfers, nil
}

// rawReceipt carries only the fee fields of eth_getTransactionReceipt.
// Pre-1559 nodes omit effectiveGasPrice; gasPrice is the legacy fallback.
type rawReceipt struct {
	TransactionHash   string       `json:"transactionHash"`
	GasUsed           string       `json:"gasUsed"`
	EffectiveGasPrice *hexutil.Big `json:"effectiveGasPrice"`
	GasPrice          *hexutil.Big `json:"gasPrice"`
}

// TransactionReceipt fetches the execution receipt of a mined transaction.
func (c *EVMClient) TransactionReceipt(ctx context.Context, txHash string) (entity.Receipt, error) {
	var raw *rawReceipt
	if err := c.rpcClient.CallContext(ctx, &raw, "eth_getTransactionReceipt", common.HexToHash(txHash)); err != nil {
		return entity.Receipt{}, fmt.Errorf("eth_getTransactionReceipt for %s: %w", txHash, err)
	}
	if raw == nil {
		return entity.Receipt{}, fmt.Errorf("receipt not found for %s", txHash)
	}

	receipt := entity.Receipt{
		TxHash:  raw.TransactionHash,
		GasUsed: utils.ParseHexUint64(raw.GasUsed),
	}
	switch {
	case raw.EffectiveGasPrice != nil:
		receipt.EffectiveGasPrice = raw.EffectiveGasPrice.ToInt()
	case raw.GasPrice != nil:
		receipt.EffectiveGasPrice = raw.GasPrice.ToInt()
	}
	return receipt, nil
}

// Close releases the underlying RPC connection.
func (c *EVMClient) Close() {
	c.ethClient.Close()
}

// parseHexBig decodes a 0x-prefixed big integer of arbitrary width.
func parseHexBig(value string) (*big.Int, bool) {
	value = strings.TrimPrefix(strings.ToLower(value), "0x")
	if value == "" {
		return nil, false
	}
	amount, ok := new(big.Int).SetString(value, 16)
	return amount, ok
}

var _ port.ChainClient = (*EVMClient)(nil)
