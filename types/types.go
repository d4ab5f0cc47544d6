package types

import (
	"code.lumenmarkets.io/liquidity/libs/num"
)

// PriceDecimals is the fixed point scale shared by all prices and sizes.
// A stored value of 1_000_000 reads as 1.0.
const PriceDecimals = 6

// bps denominator and the collateral policy divisor (10% of max notional).
const (
	bpsDivisor        = 10000
	collateralDivisor = 10
)

var priceScale = num.MustUintFromString("1000000")

// Scale returns the fixed point scale (10^PriceDecimals).
func Scale() *num.Uint {
	return priceScale.Clone()
}

// Side identifies which half of a two sided quote a fill consumes.
type Side int8

const (
	SideUnspecified Side = iota
	// SideBid is the maker's buy side, a fill makes the maker longer.
	SideBid
	// SideAsk is the maker's sell side, a fill makes the maker shorter.
	SideAsk
)

func (s Side) String() string {
	switch s {
	case SideBid:
		return "bid"
	case SideAsk:
		return "ask"
	default:
		return "unspecified"
	}
}

// Notional returns price*size at the fixed point scale.
func Notional(price, size *num.Uint) (*num.Uint, error) {
	raw, overflow := price.MulOverflow(size)
	if overflow {
		return nil, ErrMathOverflow
	}
	return raw.Div(priceScale), nil
}

// SpreadBps returns the quoted spread in basis points relative to the bid.
// A crossed or zero width quote (ask <= bid) and a zero bid are rejected
// as invalid prices.
func SpreadBps(bidPrice, askPrice *num.Uint) (*num.Uint, error) {
	if bidPrice.IsZero() {
		return nil, ErrInvalidPrice
	}
	if askPrice.LTE(bidPrice) {
		return nil, ErrInvalidPrice
	}
	diff, _ := askPrice.SubOverflow(bidPrice)
	raw, overflow := diff.MulOverflow(num.NewUint(bpsDivisor))
	if overflow {
		return nil, ErrMathOverflow
	}
	return raw.Div(bidPrice), nil
}

// MidPrice returns the arithmetic mid of bid and ask.
func MidPrice(bidPrice, askPrice *num.Uint) (*num.Uint, error) {
	sum, overflow := bidPrice.AddOverflow(askPrice)
	if overflow {
		return nil, ErrMathOverflow
	}
	return sum.Div(num.NewUint(2)), nil
}

// CollateralForQuote returns the collateral a quote must reserve: 10% of
// the larger of the two side notionals. Max, not sum, because the maker
// can only ever be hit into one net direction at a time.
func CollateralForQuote(bidPrice, bidSize, askPrice, askSize *num.Uint) (*num.Uint, error) {
	bidNotional, err := Notional(bidPrice, bidSize)
	if err != nil {
		return nil, err
	}
	askNotional, err := Notional(askPrice, askSize)
	if err != nil {
		return nil, err
	}
	return num.Max(bidNotional, askNotional).Div(num.NewUint(collateralDivisor)), nil
}

// FeeForNotional returns the maker fee on a fill notional given the
// registry fee factor in basis points.
func FeeForNotional(notional *num.Uint, feeBps uint32) (*num.Uint, error) {
	raw, overflow := notional.MulOverflow(num.NewUint(uint64(feeBps)))
	if overflow {
		return nil, ErrMathOverflow
	}
	return raw.Div(num.NewUint(bpsDivisor)), nil
}
