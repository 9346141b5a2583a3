package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Decimals is the minor-unit precision for wallet currency (paise).
const Decimals = 2

// Amount is a currency amount in minor units. 150050 represents 1500.50.
type Amount int64

// Parse converts a human-readable amount string to minor units.
// "100.5" → 10050, "100" → 10000. More than two decimal places is an
// error: the ledger carries two, and silently truncating user input
// would submit a different amount than the one typed.
func Parse(amountStr string) (Amount, error) {
	return parse(amountStr, true)
}

// parse uses string manipulation rather than float conversion to avoid
// precision issues. When strict is false, excess decimal places are
// truncated (used for wire values the server already rounded).
func parse(amountStr string, strict bool) (Amount, error) {
	s := strings.TrimSpace(amountStr)
	if s == "" {
		return 0, fmt.Errorf("amount is required")
	}

	// Server-side doubles may serialize in exponent form.
	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", amountStr)
		}
		return Amount(math.Round(f * 100)), nil
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}

	parts := strings.SplitN(s, ".", 2)
	intPart := parts[0]
	if intPart == "" {
		intPart = "0"
	}

	decPart := ""
	if len(parts) > 1 {
		decPart = parts[1]
	}
	if len(decPart) > Decimals {
		if strict && strings.TrimLeft(decPart[Decimals:], "0") != "" {
			return 0, fmt.Errorf("amount %q has more than %d decimal places", amountStr, Decimals)
		}
		decPart = decPart[:Decimals]
	}
	for len(decPart) < Decimals {
		decPart += "0"
	}

	combined := strings.TrimLeft(intPart+decPart, "0")
	if combined == "" {
		combined = "0"
	}

	n, err := strconv.ParseInt(combined, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", amountStr)
	}
	if negative {
		n = -n
	}
	return Amount(n), nil
}

// String renders the amount as a plain decimal with two places: "1500.50".
// This is the form sent on the wire.
func (a Amount) String() string {
	minor := int64(a)
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool {
	return a > 0
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		*a = 0
		return nil
	}
	v, err := parse(s, false)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// MarshalJSON emits the amount as a JSON number with two decimal places.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}
