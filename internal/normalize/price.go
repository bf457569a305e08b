package normalize

import (
	"strconv"
	"strings"
)

// currencySymbols maps price-string prefixes to ISO currency codes.
var currencySymbols = map[string]string{
	"$":   "USD",
	"US$": "USD",
	"€":   "EUR",
	"£":   "GBP",
	"₹":   "INR",
	"¥":   "JPY",
	"A$":  "AUD",
	"C$":  "CAD",
}

// currencyCodes recognized as word prefixes ("USD 25").
var currencyCodes = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "INR": true,
	"JPY": true, "AUD": true, "CAD": true,
}

// ParsePrice extracts a numeric amount and a currency code from a
// currency-prefixed price string. "Free" yields (0, ""), anything
// unparsable yields (nil, "").
func ParsePrice(s string) (*float64, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ""
	}

	if strings.EqualFold(s, "free") || strings.Contains(strings.ToLower(s), "free admission") {
		zero := 0.0
		return &zero, ""
	}

	currency := ""
	// Word-prefixed code: "USD 25.00"
	if fields := strings.Fields(s); len(fields) == 2 && currencyCodes[strings.ToUpper(fields[0])] {
		currency = strings.ToUpper(fields[0])
		s = fields[1]
	} else {
		// Symbol prefix, longest first so "US$" beats "$".
		for _, sym := range []string{"US$", "A$", "C$", "$", "€", "£", "₹", "¥"} {
			if strings.HasPrefix(s, sym) {
				currency = currencySymbols[sym]
				s = strings.TrimSpace(strings.TrimPrefix(s, sym))
				break
			}
		}
	}

	// Ranges like "25.00 - 100.00" keep the lower bound.
	if idx := strings.IndexAny(s, "-–"); idx > 0 {
		s = strings.TrimSpace(s[:idx])
	}
	s = strings.ReplaceAll(s, ",", "")

	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, ""
	}
	return &amount, currency
}
