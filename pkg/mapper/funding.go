package mapper

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pollbase/pollbase/pkg/token"
)

// MapFunding normalizes one raw funding record. Funder and token refs are
// accepted in both flat and nested shapes.
//
// Decimals come from the nested token object when the query selected them,
// else fall back to 18. This path intentionally does not consult the token
// registry, so a stablecoin funding whose record omits decimals converts at
// 18 while the poll mapper's registry path would use 6. The divergence is
// pinned in funding_test.go.
func MapFunding(raw *RawFunding) (*Funding, error) {
	if raw == nil {
		return nil, fmt.Errorf("map funding: nil raw record")
	}

	units, err := decimal.NewFromString(raw.Amount)
	if err != nil {
		return nil, fmt.Errorf("map funding: parse amount %q: %w", raw.Amount, err)
	}

	decimals := int64(token.DefaultDecimals)
	if raw.Token.Decimals != nil {
		decimals = *raw.Token.Decimals
	}

	return &Funding{
		Funder:    raw.Funder.ID,
		Token:     raw.Token.ID,
		Amount:    units.Shift(int32(-decimals)),
		Timestamp: raw.Timestamp.Time(),
	}, nil
}
