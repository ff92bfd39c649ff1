package amount

import (
	"fmt"
	"math/big"

	"github.com/hxuan190/swap-engine/internal/common"
)

var (
	hundred = FromInt64(100)
	bpsUnit = FromInt64(10_000)
)

// ParseSlippage reads a tolerance either as a fraction ("0.005") or, when
// isPercent is set, as a percentage ("0.5"). The result is a fraction in [0, 1].
func ParseSlippage(v any, isPercent bool) (Amount, error) {
	a, err := Parse(v)
	if err != nil {
		return Amount{}, err
	}
	if isPercent {
		if a, err = a.Quo(hundred); err != nil {
			return Amount{}, err
		}
	}
	if a.Sign() < 0 || a.Cmp(FromInt64(1)) > 0 {
		return Amount{}, fmt.Errorf("%w: slippage %s out of range", common.ErrInputValidation, FormatAuto(a))
	}
	return a, nil
}

func SlippageFromBps(bps uint16) Amount {
	return Amount{num: big.NewInt(int64(bps)), den: big.NewInt(10_000)}
}

// SlippageBps truncates a fractional tolerance to basis points.
func SlippageBps(fraction Amount) uint16 {
	bps := fraction.Mul(bpsUnit).Truncate()
	if bps.Sign() <= 0 {
		return 0
	}
	if bps.Cmp(big.NewInt(common.MaxSlippageBps)) > 0 {
		return common.MaxSlippageBps
	}
	return uint16(bps.Uint64())
}

// MinAmountOut applies the tolerance to an expected output, rounding down.
func MinAmountOut(out BaseUnits, slippage Amount) BaseUnits {
	keep := FromInt64(1).Sub(slippage)
	if keep.Sign() < 0 {
		keep = Zero()
	}
	v := out.Raw().Mul(keep).Truncate()
	return BaseUnits{Value: v, Decimals: out.Decimals}
}
