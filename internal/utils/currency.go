package utils

import (
	"fmt"
	"math"
)

type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

var SupportedCurrencies = map[string]Currency{
	"USD": {Code: "USD", Symbol: "$", Name: "US Dollar"},
	"EUR": {Code: "EUR", Symbol: "€", Name: "Euro"},
	"GBP": {Code: "GBP", Symbol: "£", Name: "British Pound"},
	"BDT": {Code: "BDT", Symbol: "৳", Name: "Bangladeshi Taka"},
	"INR": {Code: "INR", Symbol: "₹", Name: "Indian Rupee"},
	"JPY": {Code: "JPY", Symbol: "¥", Name: "Japanese Yen"},
}

func FormatCurrency(amount float64, currencyCode string) string {
	currency, exists := SupportedCurrencies[currencyCode]
	if !exists {
		currency = SupportedCurrencies[DefaultCurrency]
	}

	// Round to 2 decimal places
	amount = math.Round(amount*100) / 100

	switch currencyCode {
	case "JPY": // no decimal places
		return fmt.Sprintf("%s%.0f", currency.Symbol, amount)
	default:
		return fmt.Sprintf("%s%.2f", currency.Symbol, amount)
	}
}

// RoundMoney rounds to 2 decimal places for stored monetary values.
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// TruncateBody limits an external response body for error reporting.
func TruncateBody(body string, limit int) string {
	if len(body) <= limit {
		return body
	}
	return body[:limit]
}
