// Package report turns core computation results into API-facing report
// documents: display-formatted amounts, chart colors and advice text.
package report

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultPalette is the chart color cycle for category breakdowns.
var DefaultPalette = []string{
	"#4E79A7", "#F28E2B", "#E15759", "#76B7B2",
	"#59A14F", "#EDC948", "#B07AA1", "#FF9DA7",
}

// LegendColor is the shared swatch color for chart legends.
const LegendColor = "#6B7280"

// FormatAmount renders an amount in a currency's conventional display form
// ("NT$1,234" or "$12.34"). Unknown codes fall back to two fraction digits
// with the code as symbol.
func FormatAmount(amount float64, code string) string {
	fraction := 2
	if c := money.GetCurrency(code); c != nil {
		fraction = c.Fraction
	}
	minor := decimal.NewFromFloat(amount).
		Shift(int32(fraction)).
		Round(0).
		IntPart()
	return money.New(minor, code).Display()
}

// FormatMinor renders an already-rounded integer amount of whole currency
// units, the shape the budget and summary computations produce.
func FormatMinor(units int64, code string) string {
	return FormatAmount(float64(units), code)
}
