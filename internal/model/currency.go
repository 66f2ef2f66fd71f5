package model

import (
	"strings"
)

// UAH is the special-cased currency: its rates come from the national bank
// authority rather than the multi-currency historical provider.
const UAH = "UAH"

// supportedPairs is the fixed allow-list of base/target combinations.
var supportedPairs = map[string]bool{
	// Major pairs
	"EUR/USD": true, "EUR/GBP": true, "EUR/CHF": true,
	"USD/EUR": true, "USD/GBP": true, "USD/CHF": true,
	"EUR/SGD": true, "USD/SGD": true,
	// UAH as base
	"UAH/EUR": true, "UAH/GBP": true, "UAH/USD": true, "UAH/CHF": true, "UAH/PLN": true,
	// UAH as target
	"USD/UAH": true, "EUR/UAH": true, "GBP/UAH": true, "CHF/UAH": true, "PLN/UAH": true,
}

// currencyAliases maps common misspellings and names to ISO codes.
var currencyAliases = map[string]string{
	"GPB":     "GBP",
	"UDS":     "USD",
	"ERU":     "EUR",
	"DOLLAR":  "USD",
	"EURO":    "EUR",
	"POUND":   "GBP",
	"HRYVNIA": "UAH",
	"ГРИВНА":  "UAH",
	"ГРИВНЯ":  "UAH",
	"ЗЛОТИЙ":  "PLN",
}

// ErrUnsupportedPair is returned when a currency pair is not in the allow-list.
type ErrUnsupportedPair struct {
	Base   string
	Target string
}

func (e ErrUnsupportedPair) Error() string {
	return "unsupported currency pair: " + e.Base + "/" + e.Target
}

// ErrInvalidPair is returned when pair text cannot be split into two codes.
type ErrInvalidPair struct {
	Text string
}

func (e ErrInvalidPair) Error() string {
	return "invalid pair format: " + e.Text + " (expected BASE/TARGET, e.g. EUR/USD)"
}

// NormalizeCode uppercases a currency code and resolves known aliases.
func NormalizeCode(code string) string {
	up := strings.ToUpper(strings.TrimSpace(code))
	if canonical, ok := currencyAliases[up]; ok {
		return canonical
	}
	return up
}

// IsSupportedPair reports whether base/target is in the allow-list.
func IsSupportedPair(base, target string) bool {
	return supportedPairs[base+"/"+target]
}

// SupportedPairs returns the allow-list in unspecified order.
func SupportedPairs() []string {
	pairs := make([]string, 0, len(supportedPairs))
	for p := range supportedPairs {
		pairs = append(pairs, p)
	}
	return pairs
}

// ParsePair validates free text like "EUR/USD", "eur usd" or "gpb,uah" into a
// normalized supported pair.
func ParsePair(text string) (base, target string, err error) {
	raw := strings.NewReplacer(",", " ", "/", " ").Replace(strings.TrimSpace(text))
	parts := strings.Fields(raw)
	if len(parts) != 2 {
		return "", "", ErrInvalidPair{Text: text}
	}

	base = NormalizeCode(parts[0])
	target = NormalizeCode(parts[1])
	if !IsSupportedPair(base, target) {
		return "", "", ErrUnsupportedPair{Base: base, Target: target}
	}
	return base, target, nil
}

// InvolvesUAH reports whether exactly one side of the pair is UAH. Pairs with
// UAH on both sides are not representable and are never in the allow-list.
func InvolvesUAH(base, target string) bool {
	return (base == UAH) != (target == UAH)
}
