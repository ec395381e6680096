package models

import "strings"

const DefaultCurrency = "USD"

// CurrencyPrecision maps supported ISO 4217 codes to their minor unit digits.
var CurrencyPrecision = map[string]int32{
	"USD": 2,
	"EUR": 2,
	"GBP": 2,
	"NGN": 2,
	"KES": 2,
	"JPY": 0,
	"KWD": 3,
}

// Precision returns the minor unit digits of code and whether it is supported.
func Precision(code string) (int32, bool) {
	p, ok := CurrencyPrecision[strings.ToUpper(code)]
	return p, ok
}
