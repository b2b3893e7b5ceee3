package billing

import "github.com/shopspring/decimal"

// CalculateAmount maps a payment kind to a monetary total: the rate
// multiplied by the duration field matching the kind. Pure and
// deterministic.
//
// An unrecognized kind yields decimal.Zero rather than an error. Callers
// building terms through the PaymentTerms constructors can never hit
// that branch; it exists only for raw inputs arriving from outside the
// package (e.g. deserialized records).
func CalculateAmount(kind PaymentKind, rate decimal.Decimal, d Duration) decimal.Decimal {
	switch kind {
	case PaymentHourly:
		return rate.Mul(decimal.NewFromInt(int64(d.Hours)))
	case PaymentDaily:
		return rate.Mul(decimal.NewFromInt(int64(d.Days)))
	case PaymentMonthly:
		return rate.Mul(decimal.NewFromInt(int64(d.Months)))
	default:
		return decimal.Zero
	}
}
