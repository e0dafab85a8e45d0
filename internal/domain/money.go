package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency Organizze reports amounts in.
const DefaultCurrency = "BRL"

// Money represents a monetary amount in a specific currency, stored in minor units (e.g. centavos for BRL).
type Money struct {
	MinorUnit int64  `json:"minorUnits"` // Amount in the currency's smallest unit (e.g. 100 for R$1.00)
	Currency  string `json:"currency"`   // ISO4217 Alpha Currency code (e.g. BRL, USD, EUR)
}

// MoneyFromDecimal converts a major unit amount to Money, rounding half away from zero
// to the currency's fraction. Unknown currencies are treated as having two decimal places.
func MoneyFromDecimal(amount decimal.Decimal, currencyCode string) Money {
	fraction := int32(2)
	if currency := money.GetCurrency(currencyCode); currency != nil {
		fraction = int32(currency.Fraction)
	}

	return Money{
		MinorUnit: amount.Shift(fraction).Round(0).IntPart(),
		Currency:  currencyCode,
	}
}

// ToMajorUnit converts the Money amount from minor units to major units (e.g., centavos to reais).
// If the currency is invalid or not found, it returns the minor unit as a float64 without conversion.
func (m Money) ToMajorUnit() float64 {
	currency := money.GetCurrency(m.Currency)
	if currency == nil {
		return float64(m.MinorUnit)
	}

	return float64(m.MinorUnit) / math.Pow10(currency.Fraction)
}

// String returns the amount in major units with the currency's fractional precision.
// If the currency is invalid, it returns a string indicating the error along with the raw minor unit and currency code.
//
// Example:
//
//	m := Money{MinorUnit: 10050, Currency: "BRL"}
//	fmt.Println(m.String()) // Outputs: "100.50"
//	m = Money{MinorUnit: 10050, Currency: "INVALID"}
//	fmt.Println(m.String()) // Outputs: "invalid currency: 10050 (INVALID)"
func (m Money) String() string {
	currency := money.GetCurrency(m.Currency)
	if currency == nil {
		return fmt.Sprintf("invalid currency: %d (%s)", m.MinorUnit, m.Currency)
	}

	return fmt.Sprintf("%.*f", currency.Fraction, m.ToMajorUnit())
}

// Display returns the amount formatted with the currency's symbol and separators, e.g. "R$1.234,56".
func (m Money) Display() string {
	if money.GetCurrency(m.Currency) == nil {
		return m.String()
	}

	return money.New(m.MinorUnit, m.Currency).Display()
}

// CurrencyNumberFormat returns a spreadsheet number format for the currency,
// e.g. `"R$" #,##0.00` for BRL. Unknown currencies get a plain two decimal format.
func CurrencyNumberFormat(currencyCode string) string {
	currency := money.GetCurrency(currencyCode)
	if currency == nil {
		return "#,##0.00"
	}

	format := "#,##0"
	if currency.Fraction > 0 {
		format += "." + strings.Repeat("0", currency.Fraction)
	}

	return fmt.Sprintf("%q %s", currency.Grapheme, format)
}
