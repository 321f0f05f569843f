package salary

import "github.com/shopspring/decimal"

// TaxBracket taxes the portion of income within its width at the given rate.
// A nil Width marks the open-ended top bracket.
type TaxBracket struct {
	Width *decimal.Decimal
	Rate  decimal.Decimal
}

// TaxTable is a progressive bracket table applied cumulatively in ascending
// order. Brackets and the personal deduction are configuration, not business
// invariants.
type TaxTable struct {
	PersonalDeduction decimal.Decimal
	Brackets          []TaxBracket
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DefaultTaxTable is the Vietnamese personal income tax schedule.
func DefaultTaxTable() TaxTable {
	w := func(s string) *decimal.Decimal {
		d := dec(s)
		return &d
	}
	return TaxTable{
		PersonalDeduction: dec("11000000"),
		Brackets: []TaxBracket{
			{Width: w("5000000"), Rate: dec("0.05")},
			{Width: w("5000000"), Rate: dec("0.10")},
			{Width: w("8000000"), Rate: dec("0.15")},
			{Width: w("14000000"), Rate: dec("0.20")},
			{Width: w("20000000"), Rate: dec("0.25")},
			{Width: w("28000000"), Rate: dec("0.30")},
			{Width: nil, Rate: dec("0.35")},
		},
	}
}

// TaxableIncome is gross minus insurance minus the personal deduction,
// clamped at zero.
func (t TaxTable) TaxableIncome(gross, insuranceDeduction decimal.Decimal) decimal.Decimal {
	taxable := gross.Sub(insuranceDeduction).Sub(t.PersonalDeduction)
	if taxable.IsNegative() {
		return decimal.Zero
	}
	return taxable
}

// Tax applies the brackets cumulatively: each bracket taxes only the portion
// of income falling within it.
func (t TaxTable) Tax(taxableIncome decimal.Decimal) decimal.Decimal {
	if taxableIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	tax := decimal.Zero
	remaining := taxableIncome
	for _, bracket := range t.Brackets {
		if bracket.Width == nil || remaining.LessThanOrEqual(*bracket.Width) {
			return tax.Add(remaining.Mul(bracket.Rate))
		}
		tax = tax.Add(bracket.Width.Mul(bracket.Rate))
		remaining = remaining.Sub(*bracket.Width)
	}
	return tax
}
