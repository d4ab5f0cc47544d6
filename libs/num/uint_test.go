package num

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUintFromString(t *testing.T) {
	u, bad := UintFromString("42", 10)
	require.False(t, bad)
	assert.EqualValues(t, 42, u.Uint64())

	_, bad = UintFromString("not a number", 10)
	assert.True(t, bad)

	_, bad = UintFromString("-1", 10)
	assert.True(t, bad, "negative values do not fit")

	// 2^256 overflows by one
	tooBig := new(big.Int).Lsh(big.NewInt(1), 256)
	_, bad = UintFromString(tooBig.String(), 10)
	assert.True(t, bad)

	max := new(big.Int).Sub(tooBig, big.NewInt(1))
	u, bad = UintFromString(max.String(), 10)
	require.False(t, bad)
	assert.Equal(t, max.String(), u.String())
}

func TestUintArithmetic(t *testing.T) {
	a, b := NewUint(100), NewUint(40)

	sum, overflow := a.AddOverflow(b)
	require.False(t, overflow)
	assert.EqualValues(t, 140, sum.Uint64())

	diff, underflow := a.SubOverflow(b)
	require.False(t, underflow)
	assert.EqualValues(t, 60, diff.Uint64())

	_, underflow = b.SubOverflow(a)
	assert.True(t, underflow)

	prod, overflow := a.MulOverflow(b)
	require.False(t, overflow)
	assert.EqualValues(t, 4000, prod.Uint64())

	assert.EqualValues(t, 2, a.Div(b).Uint64(), "integer division floors")
}

func TestUintOverflowReported(t *testing.T) {
	max := MustUintFromString(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)).String())

	_, overflow := max.AddOverflow(NewUint(1))
	assert.True(t, overflow)

	_, overflow = max.MulOverflow(NewUint(2))
	assert.True(t, overflow)
}

func TestUintComparisons(t *testing.T) {
	a, b := NewUint(5), NewUint(7)
	assert.True(t, a.LT(b))
	assert.True(t, a.LTE(b))
	assert.True(t, b.GT(a))
	assert.True(t, b.GTE(a))
	assert.True(t, a.EQ(NewUint(5)))
	assert.True(t, UintZero().IsZero())

	assert.True(t, Max(a, b).EQ(b))
	assert.True(t, Min(a, b).EQ(a))
}

func TestUintCloneIsDetached(t *testing.T) {
	a := NewUint(10)
	b := a.Clone()
	b.Set(NewUint(99))
	assert.EqualValues(t, 10, a.Uint64())
	assert.EqualValues(t, 99, b.Uint64())
}

func TestUintDecimalRoundTrip(t *testing.T) {
	u := NewUint(1_234_567)
	d := u.ToDecimal()
	assert.True(t, d.Equal(DecimalFromInt64(1_234_567)))

	back, overflow := UintFromDecimal(d)
	require.False(t, overflow)
	assert.True(t, back.EQ(u))

	// negative decimals do not fit
	_, overflow = UintFromDecimal(DecimalFromInt64(-1))
	assert.True(t, overflow)
}

func TestUintSum(t *testing.T) {
	total, overflow := Sum(NewUint(1), NewUint(2), NewUint(3))
	require.False(t, overflow)
	assert.EqualValues(t, 6, total.Uint64())
}
