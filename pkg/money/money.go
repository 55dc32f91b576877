// Package money formatea montos en pesos para reportes (PDF y CLI).
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Spanish)

// Format redondea a pesos enteros y agrega separador de miles: 1234567.4 -> "$1.234.567".
func Format(v decimal.Decimal) string {
	n := v.Round(0).IntPart()
	if n < 0 {
		return printer.Sprintf("-$%d", -n)
	}
	return printer.Sprintf("$%d", n)
}

// Percent formatea una fracción como porcentaje con un decimal: 0.4 -> "40,0%".
func Percent(v decimal.Decimal) string {
	tenths := v.Mul(decimal.NewFromInt(1000)).Round(0).IntPart()
	sign := ""
	if tenths < 0 {
		sign = "-"
		tenths = -tenths
	}
	return printer.Sprintf("%s%d,%d%%", sign, tenths/10, tenths%10)
}
