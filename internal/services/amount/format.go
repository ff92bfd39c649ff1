package amount

import (
	"strings"
)

const DefaultAutoDecimals = 6

type FormatOptions struct {
	// Decimals is the number of fractional digits. In auto mode it is the
	// upper bound before trailing zeros are trimmed.
	Decimals int
	Auto     bool
	// ZeroDecimalNotAuto renders zero as a canonical "0.000000" instead of "0".
	ZeroDecimalNotAuto bool
}

// Format renders a with rounding half away from zero on the last digit.
// ZeroDecimalNotAuto applies whenever the rounded result is zero, so a tiny
// non-zero value shows as "0.000000" rather than "0".
func Format(a Amount, opts FormatOptions) string {
	decimals := max(opts.Decimals, 0)

	s := a.Rat().FloatString(decimals)
	zero := zeroString(decimals)
	if s == "-"+zero {
		s = s[1:]
	}
	if s == zero && opts.ZeroDecimalNotAuto {
		return zero
	}
	if opts.Auto {
		s = trimFraction(s)
	}
	return s
}

func FormatFixed(a Amount, decimals int) string {
	return Format(a, FormatOptions{Decimals: decimals})
}

// FormatAuto keeps at most six fractional digits and trims trailing zeros.
func FormatAuto(a Amount) string {
	return Format(a, FormatOptions{Decimals: DefaultAutoDecimals, Auto: true})
}

// FormatUnits renders base units in UI form using the asset's own precision.
func FormatUnits(b BaseUnits) string {
	return Format(b.ToAmount(), FormatOptions{Decimals: int(b.Decimals), Auto: true})
}

func trimFraction(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func zeroString(decimals int) string {
	if decimals == 0 {
		return "0"
	}
	return "0." + strings.Repeat("0", decimals)
}
