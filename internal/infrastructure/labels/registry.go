// Package labels embeds a static address→label dictionary for well-known
// protocol contracts. It is consulted before any remote explorer lookup and
// doubles as the approval-spender whitelist.
package labels

import "strings"

type known struct {
	label string
	// safeSpender marks contracts whose unlimited approvals are routine
	// (audited routers, Permit2 and the like) and should not be flagged.
	safeSpender bool
}

// Addresses are keyed lower-cased; lookups normalize before matching.
var registry = map[string]known{
	"0x7a250d5630b4cf539739df2c5dacb4c659f2488d": {"Uniswap V2 Router", true},
	"0xe592427a0aece92de3edee1f18e0157c05861564": {"Uniswap V3 Router", true},
	"0x68b3465833fb72a70ecdf485e0e4c7bd8665fc45": {"Uniswap V3 Router 2", true},
	"0x3fc91a3afd70395cd496c647d5a6cc9d4b2b7fad": {"Uniswap Universal Router", true},
	"0x000000000022d473030f116ddee9f6b43ac78ba3": {"Permit2", true},
	"0x1111111254eeb25477b68fb85ed929f73a960582": {"1inch V5 Router", true},
	"0x111111125421ca6dc452d289314280a0f8842a65": {"1inch V6 Router", true},
	"0xdef1c0ded9bec7f1a1670819833240f027b25eff": {"0x Exchange Proxy", true},
	"0x1e0049783f008a0085193e00003d00cd54003c71": {"OpenSea Conduit", true},
	"0x00000000006c3852cbef3e08e8df289169ede581": {"Seaport 1.1", false},
	"0x00000000000000adc04c56bf30ac9d3c0aaf14dc": {"Seaport 1.5", false},
	"0xd9e1ce17f2641f24ae83637ab66a2cca9c378b9f": {"SushiSwap Router", true},
	"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48": {"USDC", false},
	"0xdac17f958d2ee523a2206206994597c13d831ec7": {"USDT", false},
	"0x6b175474e89094c44da98b954eedeac495271d0f": {"DAI", false},
	"0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2": {"WETH", false},
	"0x2260fac5e5542a773aa44fbcfedf7c193bc2c599": {"WBTC", false},
	"0x7d2768de32b0b80b7a3454c06bdac94a69ddc7a9": {"Aave V2 Pool", true},
	"0x87870bca3f3fd6335c3f4ce8392d69350b4fa4e2": {"Aave V3 Pool", true},
	"0x28c6c06298d514db089934071355e5743bf21d60": {"Binance 14", false},
	"0x21a31ee1afc51d94c2efccaa2092ad1028285549": {"Binance 15", false},
	"0xdfd5293d8e347dfe59e90efd55b2956a1343963d": {"Binance 16", false},
	"0x3cd751e6b0078be393132286c442345e5dc49699": {"Coinbase 4", false},
	"0x503828976d22510aad0201ac7ec88293211d23da": {"Coinbase 2", false},
	"0xd551234ae421e3bcba99a0da6d736074f22192ff": {"Binance 2", false},
	"0xae2fc483527b8ef99eb5d9b44875f005ba1fae13": {"MEV Bot", false},
}

// Lookup returns the static label for an address, if one is known.
func Lookup(address string) (string, bool) {
	entry, ok := registry[strings.ToLower(address)]
	if !ok {
		return "", false
	}
	return entry.label, true
}

// IsWhitelistedSpender reports whether unlimited approvals granted to this
// address are considered routine rather than risky.
func IsWhitelistedSpender(address string) bool {
	entry, ok := registry[strings.ToLower(address)]
	return ok && entry.safeSpender
}
