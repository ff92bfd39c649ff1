// Package amount converts user-typed decimal amounts into exact rationals,
// on-chain base units and display strings.
package amount

import (
	"fmt"
	"math/big"

	"github.com/hxuan190/swap-engine/internal/common"
)

var (
	bigOne = big.NewInt(1)
	bigTen = big.NewInt(10)
)

// Amount is an exact rational. The fraction is kept unreduced; the
// denominator is always positive. The zero value is 0/1.
type Amount struct {
	num *big.Int
	den *big.Int
}

func New(num, den *big.Int) (Amount, error) {
	if num == nil || den == nil {
		return Amount{}, fmt.Errorf("%w: nil numerator or denominator", common.ErrInputValidation)
	}
	if den.Sign() == 0 {
		return Amount{}, fmt.Errorf("%w: zero denominator", common.ErrInputValidation)
	}
	n := new(big.Int).Set(num)
	d := new(big.Int).Set(den)
	if d.Sign() < 0 {
		n.Neg(n)
		d.Neg(d)
	}
	return Amount{num: n, den: d}, nil
}

func Zero() Amount {
	return Amount{num: new(big.Int), den: big.NewInt(1)}
}

func FromInt64(v int64) Amount {
	return Amount{num: big.NewInt(v), den: big.NewInt(1)}
}

func FromBigInt(v *big.Int) Amount {
	if v == nil {
		return Zero()
	}
	return Amount{num: new(big.Int).Set(v), den: big.NewInt(1)}
}

func FromRat(r *big.Rat) Amount {
	if r == nil {
		return Zero()
	}
	return Amount{num: new(big.Int).Set(r.Num()), den: new(big.Int).Set(r.Denom())}
}

func (a Amount) parts() (*big.Int, *big.Int) {
	n, d := a.num, a.den
	if n == nil {
		n = new(big.Int)
	}
	if d == nil {
		d = bigOne
	}
	return n, d
}

// Num returns a copy of the numerator.
func (a Amount) Num() *big.Int {
	n, _ := a.parts()
	return new(big.Int).Set(n)
}

// Den returns a copy of the denominator.
func (a Amount) Den() *big.Int {
	_, d := a.parts()
	return new(big.Int).Set(d)
}

func (a Amount) Rat() *big.Rat {
	n, d := a.parts()
	return new(big.Rat).SetFrac(n, d)
}

func (a Amount) Sign() int {
	n, _ := a.parts()
	return n.Sign()
}

func (a Amount) IsZero() bool {
	return a.Sign() == 0
}

// Cmp compares by cross-multiplication.
func (a Amount) Cmp(b Amount) int {
	an, ad := a.parts()
	bn, bd := b.parts()
	l := new(big.Int).Mul(an, bd)
	r := new(big.Int).Mul(bn, ad)
	return l.Cmp(r)
}

func (a Amount) Add(b Amount) Amount {
	an, ad := a.parts()
	bn, bd := b.parts()
	n := new(big.Int).Mul(an, bd)
	n.Add(n, new(big.Int).Mul(bn, ad))
	return Amount{num: n, den: new(big.Int).Mul(ad, bd)}
}

func (a Amount) Sub(b Amount) Amount {
	bn, bd := b.parts()
	return a.Add(Amount{num: new(big.Int).Neg(bn), den: bd})
}

func (a Amount) Mul(b Amount) Amount {
	an, ad := a.parts()
	bn, bd := b.parts()
	return Amount{num: new(big.Int).Mul(an, bn), den: new(big.Int).Mul(ad, bd)}
}

// Quo divides a by b. Division by zero is an input validation error.
func (a Amount) Quo(b Amount) (Amount, error) {
	an, ad := a.parts()
	bn, bd := b.parts()
	if bn.Sign() == 0 {
		return Amount{}, fmt.Errorf("%w: division by zero", common.ErrInputValidation)
	}
	return New(new(big.Int).Mul(an, bd), new(big.Int).Mul(ad, bn))
}

// Truncate drops the fractional part toward zero.
func (a Amount) Truncate() *big.Int {
	n, d := a.parts()
	return new(big.Int).Quo(n, d)
}

func (a Amount) String() string {
	n, d := a.parts()
	return n.String() + "/" + d.String()
}

// Equal reports whether a and b denote the same rational. A missing operand
// is never equal to anything.
func Equal(a, b *Amount) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Sub(*b).IsZero()
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(bigTen, big.NewInt(int64(n)), nil)
}
