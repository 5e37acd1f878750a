package service

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// SplitCommission divides a winning price into the platform commission and the
// seller proceeds. Both are rounded half away from zero to 2 decimal places and
// always add back up to the rounded price.
func SplitCommission(price, commissionPercent float64) (commission, proceeds float64) {
	p := decimal.NewFromFloat(price)
	c := p.Mul(decimal.NewFromFloat(commissionPercent)).Div(hundred).Round(2)
	f := p.Round(2).Sub(c)
	return c.InexactFloat64(), f.InexactFloat64()
}
