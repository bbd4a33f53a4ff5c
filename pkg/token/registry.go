package token

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Well-known symbols. VOTE is the poll reward token; MNT is the chain's
// native currency with WMNT as its wrapped form; USDC is the reference
// stablecoin and the only 6-decimal token in the system.
const (
	SymbolNative  = "MNT"
	SymbolWrapped = "WMNT"
	SymbolStable  = "USDC"
	SymbolReward  = "VOTE"

	// UnknownSymbol is returned for addresses outside the address book.
	UnknownSymbol = "TOKEN"
)

const (
	DefaultDecimals = 18
	StableDecimals  = 6
)

// NativeSentinel is the pseudo-address convention for the chain's native
// currency in places that expect a token address.
var NativeSentinel = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

// book is the fixed per-chain address table consulted by ResolveSymbol.
type book struct {
	wrapped common.Address
	stable  common.Address
	reward  common.Address
}

var books = map[uint64]book{
	// Mantle mainnet
	5000: {
		wrapped: common.HexToAddress("0x78c1b0C915c4FAA5FffA6CAbf0219DA63d7f4cb8"),
		stable:  common.HexToAddress("0x09Bc4E0D864854c6aFB6eB9A9cdF58aC190D0dF9"),
		reward:  common.HexToAddress("0x217f32b51Ba15a0B1A7E3C372Cd7E921A3a6A963"),
	},
	// Mantle Sepolia testnet
	5003: {
		wrapped: common.HexToAddress("0x19f5557E23e9914A18239990f6C70D68FDF0deD5"),
		stable:  common.HexToAddress("0x086a532583CdF6d9666c978Fa153B25816488CBb"),
		reward:  common.HexToAddress("0x3e8d46F0CD81F78a9b988a6fC1b4e1F96FE06978"),
	},
}

// Registry resolves token identifiers to decimal precision and display
// symbols for one chain. Lookups never fail: anything outside the address
// book resolves to the documented defaults.
type Registry struct {
	chainID      uint64
	rewardSymbol string
	addresses    book
}

// Opts configures a Registry. Zero values take defaults.
type Opts struct {
	RewardSymbol string // display symbol for the reward token, default "VOTE"
}

// NewRegistry returns the registry for the given chain. Chains without an
// address book still get symbol defaults and decimal resolution.
func NewRegistry(chainID uint64, opts Opts) *Registry {
	if opts.RewardSymbol == "" {
		opts.RewardSymbol = SymbolReward
	}
	return &Registry{
		chainID:      chainID,
		rewardSymbol: opts.RewardSymbol,
		addresses:    books[chainID],
	}
}

// ChainID returns the chain this registry serves.
func (r *Registry) ChainID() uint64 {
	return r.chainID
}

// RewardSymbol returns the display symbol of the poll reward token.
func (r *Registry) RewardSymbol() string {
	return r.rewardSymbol
}

// ResolveDecimals returns the decimal precision for a token symbol or
// address: 6 for the stablecoin, 18 for everything else, known or not.
func (r *Registry) ResolveDecimals(symbolOrAddress string) int {
	s := strings.TrimSpace(symbolOrAddress)
	if strings.EqualFold(s, SymbolStable) {
		return StableDecimals
	}
	if common.IsHexAddress(s) && common.HexToAddress(s) == r.addresses.stable && r.addresses.stable != (common.Address{}) {
		return StableDecimals
	}
	return DefaultDecimals
}

// ResolveSymbol maps a token address to its display symbol via the chain's
// address book. Unmatched addresses return UnknownSymbol.
func (r *Registry) ResolveSymbol(address string) string {
	if !common.IsHexAddress(address) {
		return UnknownSymbol
	}
	addr := common.HexToAddress(address)
	switch {
	case addr == NativeSentinel:
		return SymbolNative
	case addr == r.addresses.wrapped && r.addresses.wrapped != (common.Address{}):
		return SymbolWrapped
	case addr == r.addresses.stable && r.addresses.stable != (common.Address{}):
		return SymbolStable
	case addr == r.addresses.reward && r.addresses.reward != (common.Address{}):
		return r.rewardSymbol
	default:
		return UnknownSymbol
	}
}
