package networkdefinition

// Definition describes one EVM network the service can point at.
type Definition struct {
	ChainID          uint64
	Name             string
	NativeSymbol     string
	Decimals         uint8
	PrimaryRPCURL    string
	FallbackRPCURLs  []string
	BlockExplorerURL string
}

// Ethereum is the only network served today. The transfer-feed RPC extensions
// the chain client depends on are mainnet-indexed, so adding a network means
// adding an indexing provider for it first.
var Ethereum = Definition{
	ChainID:          1,
	Name:             "Ethereum Mainnet",
	NativeSymbol:     "ETH",
	Decimals:         18,
	PrimaryRPCURL:    "https://ethereum-rpc.publicnode.com",
	FallbackRPCURLs:  []string{"https://rpc.ankr.com/eth", "https://eth.llamarpc.com"},
	BlockExplorerURL: "https://etherscan.io",
}

// Resolve merges configured RPC endpoints into the Ethereum definition.
// An empty primary keeps the built-in public endpoint; configured fallbacks
// replace the defaults entirely.
func Resolve(primaryRPCURL string, fallbackRPCURLs []string) Definition {
	def := Ethereum
	if primaryRPCURL != "" {
		def.PrimaryRPCURL = primaryRPCURL
	}
	if len(fallbackRPCURLs) > 0 {
		def.FallbackRPCURLs = fallbackRPCURLs
	}
	return def
}

// RPCURLs returns the primary endpoint followed by the fallbacks, in dial
// order.
func (d Definition) RPCURLs() []string {
	return append([]string{d.PrimaryRPCURL}, d.FallbackRPCURLs...)
}
