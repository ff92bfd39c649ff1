package amount

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/hxuan190/swap-engine/internal/common"
)

// BaseUnits is a non-negative smallest-denomination quantity of one asset.
type BaseUnits struct {
	Value    *big.Int
	Decimals uint8
}

func NewBaseUnits(v uint64, decimals uint8) BaseUnits {
	return BaseUnits{Value: new(big.Int).SetUint64(v), Decimals: decimals}
}

// Uint64 is the wire form. ToBaseUnits guarantees the value fits.
func (b BaseUnits) Uint64() uint64 {
	if b.Value == nil {
		return 0
	}
	return b.Value.Uint64()
}

func (b BaseUnits) IsZero() bool {
	return b.Value == nil || b.Value.Sign() == 0
}

// Raw is the base-unit integer as an unscaled Amount.
func (b BaseUnits) Raw() Amount {
	return FromBigInt(b.Value)
}

// ToAmount scales back down to the UI-decimal value.
func (b BaseUnits) ToAmount() Amount {
	v := b.Value
	if v == nil {
		v = new(big.Int)
	}
	return Amount{num: new(big.Int).Set(v), den: pow10(int(b.Decimals))}
}

func (b BaseUnits) String() string {
	if b.Value == nil {
		return "0"
	}
	return b.Value.String()
}

// ToBaseUnits converts a UI-decimal amount to base units by scaling with
// 10^decimals and truncating toward zero. alreadyScaled marks an amount that
// came back from a collaborator in UI-decimal form; it is scaled the same way.
func ToBaseUnits(a Amount, decimals uint8, alreadyScaled bool) (BaseUnits, error) {
	if a.Sign() < 0 {
		return BaseUnits{}, fmt.Errorf("%w: negative amount %s", common.ErrInputValidation, a)
	}
	scaled := a.Mul(FromBigInt(pow10(int(decimals))))
	v := scaled.Truncate()

	u, overflow := uint256.FromBig(v)
	if overflow {
		return BaseUnits{}, fmt.Errorf("%w: %s exceeds 256 bits", common.ErrConversionOverflow, v)
	}
	if !u.IsUint64() {
		return BaseUnits{}, fmt.Errorf("%w: %s exceeds u64", common.ErrConversionOverflow, v)
	}
	return BaseUnits{Value: v, Decimals: decimals}, nil
}
