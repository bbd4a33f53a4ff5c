package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDecimals(t *testing.T) {
	reg := NewRegistry(5000, Opts{})

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "stablecoin symbol", input: "USDC", want: 6},
		{name: "stablecoin symbol lowercase", input: "usdc", want: 6},
		{name: "stablecoin address", input: "0x09Bc4E0D864854c6aFB6eB9A9cdF58aC190D0dF9", want: 6},
		{name: "stablecoin address lowercase", input: "0x09bc4e0d864854c6afb6eb9a9cdf58ac190d0df9", want: 6},
		{name: "native symbol", input: "MNT", want: 18},
		{name: "reward symbol", input: "VOTE", want: 18},
		{name: "unknown symbol", input: "SHIB", want: 18},
		{name: "unknown address", input: "0x0000000000000000000000000000000000001234", want: 18},
		{name: "empty", input: "", want: 18},
		{name: "garbage", input: "not a token at all", want: 18},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, reg.ResolveDecimals(tc.input))
		})
	}
}

func TestResolveSymbol(t *testing.T) {
	reg := NewRegistry(5000, Opts{})

	tests := []struct {
		name    string
		address string
		want    string
	}{
		{name: "native sentinel", address: "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE", want: "MNT"},
		{name: "wrapped native", address: "0x78c1b0C915c4FAA5FffA6CAbf0219DA63d7f4cb8", want: "WMNT"},
		{name: "wrapped native lowercase", address: "0x78c1b0c915c4faa5fffa6cabf0219da63d7f4cb8", want: "WMNT"},
		{name: "stablecoin", address: "0x09Bc4E0D864854c6aFB6eB9A9cdF58aC190D0dF9", want: "USDC"},
		{name: "reward token", address: "0x217f32b51Ba15a0B1A7E3C372Cd7E921A3a6A963", want: "VOTE"},
		{name: "unknown address", address: "0x0000000000000000000000000000000000001234", want: "TOKEN"},
		{name: "not an address", address: "definitely-not-hex", want: "TOKEN"},
		{name: "empty", address: "", want: "TOKEN"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, reg.ResolveSymbol(tc.address))
		})
	}
}

func TestResolveSymbolUnknownChain(t *testing.T) {
	// A chain with no address book still resolves the native sentinel and
	// defaults everything else.
	reg := NewRegistry(31337, Opts{})

	assert.Equal(t, "MNT", reg.ResolveSymbol("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"))
	assert.Equal(t, "TOKEN", reg.ResolveSymbol("0x78c1b0C915c4FAA5FffA6CAbf0219DA63d7f4cb8"))
	assert.Equal(t, 18, reg.ResolveDecimals("0x09Bc4E0D864854c6aFB6eB9A9cdF58aC190D0dF9"))
	assert.Equal(t, 6, reg.ResolveDecimals("USDC"))
}

func TestRewardSymbolOverride(t *testing.T) {
	reg := NewRegistry(5000, Opts{RewardSymbol: "PLL"})

	assert.Equal(t, "PLL", reg.RewardSymbol())
	assert.Equal(t, "PLL", reg.ResolveSymbol("0x217f32b51Ba15a0B1A7E3C372Cd7E921A3a6A963"))
}
