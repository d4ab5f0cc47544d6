package num

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Uint is an unsigned 256 bit integer, the base numeric type for all
// prices, sizes and collateral amounts. Arithmetic that can overflow
// reports it to the caller instead of wrapping.
type Uint struct {
	u uint256.Int
}

// NewUint creates a new Uint from a uint64.
func NewUint(val uint64) *Uint {
	return &Uint{*uint256.NewInt(val)}
}

// UintZero returns a new Uint set to zero.
func UintZero() *Uint {
	return NewUint(0)
}

// UintFromString creates a new Uint from a string interpreted in the
// given base. The bool is true on failure or overflow.
func UintFromString(str string, base int) (*Uint, bool) {
	b, ok := big.NewInt(0).SetString(str, base)
	if !ok {
		return UintZero(), true
	}
	return UintFromBig(b)
}

// MustUintFromString creates a new Uint from a base 10 string and panics
// if the value does not fit. Meant for constants.
func MustUintFromString(str string) *Uint {
	u, overflow := UintFromString(str, 10)
	if overflow {
		panic("num: invalid uint string " + str)
	}
	return u
}

// UintFromBig construct a new Uint from a big.Int, the bool is true in
// case of negative value or overflow.
func UintFromBig(b *big.Int) (*Uint, bool) {
	if b.Sign() < 0 {
		return UintZero(), true
	}
	u, overflow := uint256.FromBig(b)
	if overflow {
		return UintZero(), true
	}
	return &Uint{*u}, false
}

// UintFromDecimal returns a new Uint from a Decimal, the bool is true in
// case of negative value or overflow.
func UintFromDecimal(d Decimal) (*Uint, bool) {
	return UintFromBig(d.BigInt())
}

// Sum returns the sum of all the uints given, the bool is true if any
// intermediate addition overflowed.
func Sum(vals ...*Uint) (*Uint, bool) {
	s := UintZero()
	for _, v := range vals {
		var overflow bool
		s, overflow = s.AddOverflow(v)
		if overflow {
			return UintZero(), true
		}
	}
	return s, false
}

// Clone returns a copy of the Uint.
func (u *Uint) Clone() *Uint {
	return &Uint{u.u}
}

// Set sets the value to that of the given Uint.
func (u *Uint) Set(v *Uint) *Uint {
	u.u.Set(&v.u)
	return u
}

// AddOverflow returns u+v and whether the addition overflowed.
func (u *Uint) AddOverflow(v *Uint) (*Uint, bool) {
	r := UintZero()
	_, carry := r.u.AddOverflow(&u.u, &v.u)
	return r, carry
}

// SubOverflow returns u-v and whether the subtraction underflowed.
func (u *Uint) SubOverflow(v *Uint) (*Uint, bool) {
	r := UintZero()
	_, borrow := r.u.SubOverflow(&u.u, &v.u)
	return r, borrow
}

// MulOverflow returns u*v and whether the multiplication overflowed.
func (u *Uint) MulOverflow(v *Uint) (*Uint, bool) {
	r := UintZero()
	_, overflow := r.u.MulOverflow(&u.u, &v.u)
	return r, overflow
}

// Div returns u/v truncated. Division by zero returns zero.
func (u *Uint) Div(v *Uint) *Uint {
	r := UintZero()
	r.u.Div(&u.u, &v.u)
	return r
}

func (u *Uint) IsZero() bool {
	return u.u.IsZero()
}

func (u *Uint) EQ(v *Uint) bool {
	return u.u.Eq(&v.u)
}

func (u *Uint) GT(v *Uint) bool {
	return u.u.Gt(&v.u)
}

func (u *Uint) GTE(v *Uint) bool {
	return !u.u.Lt(&v.u)
}

func (u *Uint) LT(v *Uint) bool {
	return u.u.Lt(&v.u)
}

func (u *Uint) LTE(v *Uint) bool {
	return !u.u.Gt(&v.u)
}

// Uint64 returns the value as a uint64, truncating if it does not fit.
func (u *Uint) Uint64() uint64 {
	return u.u.Uint64()
}

// BigInt returns a copy of the value as a big.Int.
func (u *Uint) BigInt() *big.Int {
	return u.u.ToBig()
}

// ToDecimal returns the value as a Decimal.
func (u *Uint) ToDecimal() Decimal {
	return NewDecimalFromBigInt(u.BigInt(), 0)
}

func (u *Uint) String() string {
	return u.u.Dec()
}

// Max returns the largest of the two uints.
func Max(a, b *Uint) *Uint {
	if a.GT(b) {
		return a.Clone()
	}
	return b.Clone()
}

// Min returns the smallest of the two uints.
func Min(a, b *Uint) *Uint {
	if a.LT(b) {
		return a.Clone()
	}
	return b.Clone()
}
