package money

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the code listings are priced in unless stated otherwise.
const DefaultCurrency = "KSH"

// FormatPrice renders an amount rounded to whole units with thousands
// separators, prefixed by the currency code ("KSH 1,250,000").
func FormatPrice(amount decimal.Decimal, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	return currency + " " + group(amount.Round(0).StringFixed(0))
}

// FormatMileage renders an odometer reading ("78,000 km"); zero is unknown.
func FormatMileage(km int) string {
	if km <= 0 {
		return "N/A"
	}
	return group(strconv.Itoa(km)) + " km"
}

// ParseAmount reads a user-entered amount, tolerating separators and a
// currency prefix. Empty input yields a zero amount and ok=false.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(strings.ToUpper(cleaned), DefaultCurrency)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil || amount.IsNegative() {
		return decimal.Zero, false
	}
	return amount, true
}

func group(digits string) string {
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if len(digits) <= 3 {
		return sign + digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}
