package amount

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/hxuan190/swap-engine/internal/common"
)

// Parse turns a decimal string, Go integer or exact rational into an Amount.
// nil and the empty string are the legitimate "no amount entered" state and
// parse to 0/1.
func Parse(v any) (Amount, error) {
	switch t := v.(type) {
	case nil:
		return Zero(), nil
	case string:
		return parseDecimal(t)
	case Amount:
		return t, nil
	case *Amount:
		if t == nil {
			return Zero(), nil
		}
		return *t, nil
	case *big.Rat:
		return FromRat(t), nil
	case *big.Int:
		return FromBigInt(t), nil
	case int:
		return FromInt64(int64(t)), nil
	case int8:
		return FromInt64(int64(t)), nil
	case int16:
		return FromInt64(int64(t)), nil
	case int32:
		return FromInt64(int64(t)), nil
	case int64:
		return FromInt64(t), nil
	case uint:
		return FromBigInt(new(big.Int).SetUint64(uint64(t))), nil
	case uint8:
		return FromInt64(int64(t)), nil
	case uint16:
		return FromInt64(int64(t)), nil
	case uint32:
		return FromInt64(int64(t)), nil
	case uint64:
		return FromBigInt(new(big.Int).SetUint64(t)), nil
	default:
		return Amount{}, fmt.Errorf("%w: unsupported amount type %T", common.ErrInputValidation, v)
	}
}

// MustParse is Parse for literals known to be valid.
func MustParse(v any) Amount {
	a, err := Parse(v)
	if err != nil {
		panic(err)
	}
	return a
}

// parseDecimal accepts sign? digits? (.digits?)? where the integer digits may
// be grouped with ',' or '_'. A separator must sit between two digits.
func parseDecimal(s string) (Amount, error) {
	if s == "" {
		return Zero(), nil
	}
	invalid := func(reason string) (Amount, error) {
		return Amount{}, fmt.Errorf("%w: %q: %s", common.ErrInputValidation, s, reason)
	}

	for _, r := range s {
		if !(r == '-' || r == ',' || r == '.' || r == '_' || (r >= '0' && r <= '9')) {
			return invalid("unexpected character")
		}
	}

	body := s
	negative := false
	if strings.HasPrefix(body, "-") {
		negative = true
		body = body[1:]
	}
	if strings.Contains(body, "-") {
		return invalid("misplaced sign")
	}

	intPart, fracPart, hasDot := strings.Cut(body, ".")
	if hasDot && strings.Contains(fracPart, ".") {
		return invalid("more than one decimal point")
	}
	if strings.ContainsAny(fracPart, ",_") {
		return invalid("separator in fractional part")
	}

	digits, err := stripSeparators(intPart)
	if err != nil {
		return invalid(err.Error())
	}

	numStr := digits + fracPart
	if numStr == "" {
		if negative {
			return invalid("sign without digits")
		}
		return Zero(), nil
	}

	num, ok := new(big.Int).SetString(numStr, 10)
	if !ok {
		return invalid("not a number")
	}
	if negative {
		if num.Sign() == 0 {
			return invalid("negative zero")
		}
		num.Neg(num)
	}
	return Amount{num: num, den: pow10(len(fracPart))}, nil
}

func stripSeparators(intPart string) (string, error) {
	if intPart == "" {
		return "", nil
	}
	var b strings.Builder
	b.Grow(len(intPart))
	prevDigit := false
	for i := 0; i < len(intPart); i++ {
		c := intPart[i]
		if c == ',' || c == '_' {
			if !prevDigit || i == len(intPart)-1 {
				return "", errors.New("dangling separator")
			}
			prevDigit = false
			continue
		}
		b.WriteByte(c)
		prevDigit = true
	}
	return b.String(), nil
}
