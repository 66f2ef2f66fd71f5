package dateparse

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount normalizes a user-written amount into a decimal. It tolerates
// the thousand and decimal separator variants users actually type:
// "1 234,56", "1'234.56", "1_000", "1,5". The last separator followed by
// 1–2 digits is taken as the decimal point; everything else is grouping.
func ParseAmount(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount cannot be empty")
	}

	// Strip unambiguous grouping characters first.
	s = strings.NewReplacer(" ", "", "'", "", "_", "").Replace(s)

	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')

	sep := lastDot
	if lastComma > sep {
		sep = lastComma
	}

	if sep >= 0 {
		intPart := s[:sep]
		fracPart := s[sep+1:]
		if len(fracPart) >= 3 && !strings.ContainsAny(intPart, ".,") {
			// A single separator with 3+ trailing digits is grouping
			// ("1.000" means one thousand), not a decimal point.
			s = strings.NewReplacer(".", "", ",", "").Replace(s)
		} else {
			intPart = strings.NewReplacer(".", "", ",", "").Replace(intPart)
			s = intPart + "." + fracPart
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount: %q", text)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount must be positive: %q", text)
	}
	return d, nil
}
