package taxetrade

import "github.com/shopspring/decimal"

// KESt (Kapitalertragsteuer) flat rate on realized capital gains.
var kestRate = decimal.RequireFromString("0.275")

// Statutory E1kv reporting codes: realized gains and losses from
// securities without domestic withholding are declared under separate
// Kennzahlen on the Austrian form.
const (
	KennzahlGains  = "994"
	KennzahlLosses = "892"
)

// YearlyTaxSummary accumulates realized gains and losses for one calendar
// year. It is created on the first processed event of a year and grows
// monotonically; only the Engine mutates it.
type YearlyTaxSummary struct {
	Year        int
	TotalGains  Money // sum of positive realized gains, ≥ 0
	TotalLosses Money // sum of negative realized losses, ≤ 0
}

// NetGainLoss is the year's total after offsetting losses against gains.
// Losses offset gains within the same year only; Austrian law allows no
// carryforward to later years.
func (s YearlyTaxSummary) NetGainLoss() Money {
	return s.TotalGains.Add(s.TotalLosses)
}

// TaxableGain is the net gain floored at zero: a loss year owes nothing
// and the excess loss simply expires.
func (s YearlyTaxSummary) TaxableGain() Money {
	net := s.NetGainLoss()
	if net.IsNegative() {
		return EUR(0)
	}
	return net
}

// KEStDue is the 27.5% tax on the taxable gain, rounded half-up to cents.
func (s YearlyTaxSummary) KEStDue() Money {
	return s.TaxableGain().Convert(kestRate, "EUR").Round2()
}
