package salary

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTaxableIncome(t *testing.T) {
	table := DefaultTaxTable()

	t.Run("gross minus insurance minus personal deduction", func(t *testing.T) {
		got := table.TaxableIncome(dec("22000000"), dec("2100000"))
		assert.True(t, got.Equal(dec("8900000")), got.String())
	})

	t.Run("clamped at zero", func(t *testing.T) {
		got := table.TaxableIncome(dec("10000000"), dec("1050000"))
		assert.True(t, got.Equal(decimal.Zero), got.String())
	})
}

func TestTaxBrackets(t *testing.T) {
	table := DefaultTaxTable()

	cases := []struct {
		name    string
		taxable string
		want    string
	}{
		{"zero", "0", "0"},
		{"entirely in first bracket", "4000000", "200000"},
		{"first bracket boundary", "5000000", "250000"},
		// 5M * 0.05 + 3.9M * 0.10
		{"spans two brackets", "8900000", "640000"},
		// 5M*0.05 + 5M*0.10 + 8M*0.15 + 2M*0.20
		{"spans four brackets", "20000000", "2350000"},
		// full ladder: 250k + 500k + 1.2M + 2.8M + 5M + 8.4M = 18.15M,
		// then 20M above the 80M threshold at 0.35
		{"open-ended top bracket", "100000000", "25150000"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := table.Tax(dec(c.taxable))
			assert.True(t, got.Equal(dec(c.want)), "Tax(%s) = %s, want %s", c.taxable, got.String(), c.want)
		})
	}
}

func TestTaxMonotonic(t *testing.T) {
	table := DefaultTaxTable()

	prev := decimal.Zero
	for _, taxable := range []string{"1000000", "5000000", "10000000", "18000000", "32000000", "52000000", "80000000", "120000000"} {
		got := table.Tax(dec(taxable))
		assert.True(t, got.GreaterThanOrEqual(prev), "tax must not decrease at %s", taxable)
		prev = got
	}
}

func TestTaxNegativeInput(t *testing.T) {
	table := DefaultTaxTable()
	assert.True(t, table.Tax(dec("-5000000")).Equal(decimal.Zero))
}
