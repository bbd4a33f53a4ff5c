// Package format renders canonical token amounts as display strings. The
// precision rules mirror what users expect per token class: stablecoin
// amounts read like fiat, native-currency amounts keep extra digits when
// small, and everything else stays terse.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/pollbase/pollbase/pkg/token"
)

type category int

const (
	catOther category = iota
	catStable
	catNative
)

// Formatter renders amounts with locale-aware digit grouping. The zero
// value is not usable; construct with NewFormatter.
type Formatter struct {
	registry *token.Registry
	printer  *message.Printer
}

// Opts configures a Formatter. Zero values take defaults.
type Opts struct {
	Locale string // BCP 47 tag, default "en"
}

// NewFormatter builds a formatter bound to the chain's token registry.
func NewFormatter(registry *token.Registry, opts Opts) *Formatter {
	tag := language.English
	if opts.Locale != "" {
		if parsed, err := language.Parse(opts.Locale); err == nil {
			tag = parsed
		}
	}
	return &Formatter{
		registry: registry,
		printer:  message.NewPrinter(tag),
	}
}

// Amount renders one token amount. An empty symbol means the reward token.
//
// Zero is always "0 SYM". The stablecoin is fixed at two fraction digits.
// The native currency shows 2-4 digits, widening to 2-6 below one whole
// token. Everything else shows 0-2 digits, widening to 2-4 below one.
func (f *Formatter) Amount(amount decimal.Decimal, symbol string) string {
	if symbol == "" {
		symbol = f.registry.RewardSymbol()
	}
	if amount.IsZero() {
		return "0 " + symbol
	}

	min, max := fractionDigits(f.categoryOf(symbol), amount)
	v, _ := amount.Float64()
	rendered := f.printer.Sprintf("%v", number.Decimal(v,
		number.MinFractionDigits(min),
		number.MaxFractionDigits(max)))
	return rendered + " " + symbol
}

// Totals carries one running sum per token class, for polls funded in
// several tokens at once.
type Totals struct {
	Reward decimal.Decimal
	Stable decimal.Decimal
	Native decimal.Decimal
}

// Aggregate renders the non-zero totals joined with " + ", in reward,
// stablecoin, native order. When every total is zero the reward token is
// still shown, so there is always at least one component.
func (f *Formatter) Aggregate(totals Totals) string {
	var parts []string
	if !totals.Reward.IsZero() {
		parts = append(parts, f.Amount(totals.Reward, f.registry.RewardSymbol()))
	}
	if !totals.Stable.IsZero() {
		parts = append(parts, f.Amount(totals.Stable, token.SymbolStable))
	}
	if !totals.Native.IsZero() {
		parts = append(parts, f.Amount(totals.Native, token.SymbolNative))
	}
	if len(parts) == 0 {
		return "0 " + f.registry.RewardSymbol()
	}
	return strings.Join(parts, " + ")
}

func (f *Formatter) categoryOf(symbol string) category {
	switch {
	case strings.EqualFold(symbol, token.SymbolStable):
		return catStable
	case strings.EqualFold(symbol, token.SymbolNative),
		strings.EqualFold(symbol, token.SymbolWrapped):
		return catNative
	default:
		return catOther
	}
}

var one = decimal.New(1, 0)

func fractionDigits(cat category, amount decimal.Decimal) (min, max int) {
	small := amount.Abs().LessThan(one)
	switch cat {
	case catStable:
		return 2, 2
	case catNative:
		if small {
			return 2, 6
		}
		return 2, 4
	default:
		if small {
			return 2, 4
		}
		return 0, 2
	}
}
