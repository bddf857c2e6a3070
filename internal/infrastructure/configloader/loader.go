package configloader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"read_timeout_seconds"`
	WriteTimeout int    `yaml:"write_timeout_seconds"`
	IdleTimeout  int    `yaml:"idle_timeout_seconds"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ChainConfig holds the RPC/indexing endpoint configuration for the tracked
// network.
type ChainConfig struct {
	Name                 string   `yaml:"name"`
	ChainID              uint64   `yaml:"chainID"`
	PrimaryRPCURL        string   `yaml:"primaryRpcUrl"`
	FallbackRPCURLs      []string `yaml:"fallbackRpcUrls"`
	NativeSymbol         string   `yaml:"nativeSymbol"`
	NativeDecimals       int      `yaml:"nativeDecimals"`
	WrappedNativeAddress string   `yaml:"wrappedNativeAddress"`
	DEXScreenerChainID   string   `yaml:"dexScreenerChainId"`
	RPCCallTimeoutSecs   int      `yaml:"rpc_call_timeout_seconds"`
}

// ExplorerConfig holds block-explorer API configuration. An empty APIKey is
// valid: explorer-backed modules degrade to empty results.
type ExplorerConfig struct {
	BaseURL              string  `yaml:"baseURL"`
	APIKey               string  `yaml:"apiKey"`
	RequestTimeoutMillis int64   `yaml:"requestTimeoutMillis"`
	RequestsPerSecond    float64 `yaml:"requestsPerSecond"`
}

// PriceConfig holds the price-quote API configuration.
type PriceConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	MaxAddressesPerBatch int    `yaml:"maxAddressesPerBatch"`
	CacheTTLMinutes      int    `yaml:"cacheTTLMinutes"`
	NativeRefreshSpec    string `yaml:"nativeRefreshSpec"`
}

// ReportConfig bounds the per-request aggregation work.
type ReportConfig struct {
	CacheTTLSeconds    int `yaml:"cacheTTLSeconds"`
	TransferCap        int `yaml:"transferCap"`
	GasSampleSize      int `yaml:"gasSampleSize"`
	GasConcurrency     int `yaml:"gasConcurrency"`
	ApprovalScanDepth  int `yaml:"approvalScanDepth"`
	CallTimeoutSeconds int `yaml:"callTimeoutSeconds"`
	ValueHistorySize   int `yaml:"valueHistorySize"`
}

// StatsConfig holds the counter-store configuration.
type StatsConfig struct {
	DBPath string `yaml:"dbPath"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Chain    ChainConfig    `yaml:"chain"`
	Explorer ExplorerConfig `yaml:"explorer"`
	Price    PriceConfig    `yaml:"price"`
	Report   ReportConfig   `yaml:"report"`
	Stats    StatsConfig    `yaml:"stats"`
}

// Load reads the YAML configuration file from the given path, unmarshals it
// and fills in defaults for anything left unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if cfg.Chain.PrimaryRPCURL == "" {
		return nil, fmt.Errorf("config %s: chain.primaryRpcUrl is required", path)
	}

	// Explorer key may also arrive via the environment (.env overlay).
	if cfg.Explorer.APIKey == "" {
		cfg.Explorer.APIKey = os.Getenv("EXPLORER_API_KEY")
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 30
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = 60
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}

	if cfg.Chain.Name == "" {
		cfg.Chain.Name = "ethereum"
	}
	if cfg.Chain.ChainID == 0 {
		cfg.Chain.ChainID = 1
	}
	if cfg.Chain.NativeSymbol == "" {
		cfg.Chain.NativeSymbol = "ETH"
	}
	if cfg.Chain.NativeDecimals <= 0 {
		cfg.Chain.NativeDecimals = 18
	}
	if cfg.Chain.WrappedNativeAddress == "" {
		cfg.Chain.WrappedNativeAddress = "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"
	}
	if cfg.Chain.DEXScreenerChainID == "" {
		cfg.Chain.DEXScreenerChainID = "ethereum"
	}
	if cfg.Chain.RPCCallTimeoutSecs <= 0 {
		cfg.Chain.RPCCallTimeoutSecs = 8
	}

	if cfg.Explorer.BaseURL == "" {
		cfg.Explorer.BaseURL = "https://api.etherscan.io/api"
	}
	if cfg.Explorer.RequestTimeoutMillis <= 0 {
		cfg.Explorer.RequestTimeoutMillis = 8000
	}
	if cfg.Explorer.RequestsPerSecond <= 0 {
		cfg.Explorer.RequestsPerSecond = 5
	}

	if cfg.Price.BaseURL == "" {
		cfg.Price.BaseURL = "https://api.dexscreener.com"
	}
	if cfg.Price.RequestTimeoutMillis <= 0 {
		cfg.Price.RequestTimeoutMillis = 8000
	}
	if cfg.Price.MaxAddressesPerBatch <= 0 {
		cfg.Price.MaxAddressesPerBatch = 100
	}
	if cfg.Price.CacheTTLMinutes <= 0 {
		cfg.Price.CacheTTLMinutes = 5
	}
	if cfg.Price.NativeRefreshSpec == "" {
		cfg.Price.NativeRefreshSpec = "@every 2m"
	}

	if cfg.Report.CacheTTLSeconds <= 0 {
		cfg.Report.CacheTTLSeconds = 60
	}
	if cfg.Report.TransferCap <= 0 {
		cfg.Report.TransferCap = 500
	}
	if cfg.Report.GasSampleSize <= 0 {
		cfg.Report.GasSampleSize = 50
	}
	if cfg.Report.GasConcurrency <= 0 {
		cfg.Report.GasConcurrency = 5
	}
	if cfg.Report.ApprovalScanDepth <= 0 {
		cfg.Report.ApprovalScanDepth = 100
	}
	if cfg.Report.CallTimeoutSeconds <= 0 {
		cfg.Report.CallTimeoutSeconds = 8
	}
	if cfg.Report.ValueHistorySize <= 0 {
		cfg.Report.ValueHistorySize = 30
	}

	if cfg.Stats.DBPath == "" {
		cfg.Stats.DBPath = "data/walletscope.db"
	}
}
