package domain

import (
	"bytes"
	"strings"

	"github.com/shopspring/decimal"
)

// Price is a monetary amount in KES. The external API serves prices as
// either JSON numbers or numeric strings; both are coerced here, once,
// at the decode boundary. Anything unparseable coerces to zero so that
// a bad price can never surface as NaN downstream.
type Price struct {
	decimal.Decimal
}

func NewPrice(s string) Price {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Price{}
	}
	return Price{d}
}

func PriceFromFloat(f float64) Price {
	return Price{decimal.NewFromFloat(f)}
}

func (p *Price) UnmarshalJSON(data []byte) error {
	raw := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if raw == "" || raw == "null" {
		p.Decimal = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		p.Decimal = decimal.Zero
		return nil
	}
	p.Decimal = d
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.Decimal.String()), nil
}

func (p Price) Mul(quantity int) Price {
	return Price{p.Decimal.Mul(decimal.NewFromInt(int64(quantity)))}
}

func (p Price) Add(other Price) Price {
	return Price{p.Decimal.Add(other.Decimal)}
}
