package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/warp/billing-engine/billing"
)

func TestCalculateAmount_KnownKinds(t *testing.T) {
	tests := []struct {
		name     string
		kind     billing.PaymentKind
		rate     int64
		duration billing.Duration
		want     int64
	}{
		{"hourly", billing.PaymentHourly, 150, billing.Duration{Hours: 16}, 2400},
		{"daily", billing.PaymentDaily, 8000, billing.Duration{Days: 40}, 320000},
		{"monthly", billing.PaymentMonthly, 90000, billing.Duration{Months: 3}, 270000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := billing.CalculateAmount(tt.kind, decimal.NewFromInt(tt.rate), tt.duration)
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)),
				"want %d, got %s", tt.want, got)
		})
	}
}

func TestCalculateAmount_IgnoresNonMatchingDurationFields(t *testing.T) {
	// Duration carries all three fields; only the one matching the kind
	// may contribute.
	d := billing.Duration{Hours: 100, Days: 40, Months: 12}
	got := billing.CalculateAmount(billing.PaymentDaily, decimal.NewFromInt(8000), d)
	assert.True(t, got.Equal(decimal.NewFromInt(320000)))
}

func TestCalculateAmount_UnknownKindIsZero(t *testing.T) {
	// Raw inputs from outside the package can carry arbitrary kinds; the
	// calculator answers zero rather than failing.
	got := billing.CalculateAmount(billing.PaymentKind("weekly"), decimal.NewFromInt(8000), billing.Duration{Days: 40})
	assert.True(t, got.IsZero(), "unknown kind must yield zero, got %s", got)
}

func TestPaymentTerms_ConstructorsAgreeWithCalculator(t *testing.T) {
	rate := decimal.NewFromInt(8000)

	terms := billing.DailyTerms(rate, 40)
	assert.Equal(t, billing.PaymentDaily, terms.Kind)
	assert.True(t, terms.Amount().Equal(decimal.NewFromInt(320000)))

	hourly := billing.HourlyTerms(decimal.NewFromInt(150), 16)
	assert.True(t, hourly.Amount().Equal(decimal.NewFromInt(2400)))

	monthly := billing.MonthlyTerms(decimal.NewFromInt(90000), 3)
	assert.True(t, monthly.Amount().Equal(decimal.NewFromInt(270000)))
}
