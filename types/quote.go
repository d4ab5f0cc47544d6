package types

import (
	"time"

	"code.lumenmarkets.io/liquidity/libs/num"
)

// Quote is a resting two sided price commitment owned by one market
// maker. Collateral is shared across both sides (max of the two
// notionals, not the sum), which is why it is one record rather than two
// single sided quotes.
type Quote struct {
	ID          string
	MarketMaker string
	Registry    string

	BidPrice     *num.Uint
	BidSize      *num.Uint
	BidRemaining *num.Uint

	AskPrice     *num.Uint
	AskSize      *num.Uint
	AskRemaining *num.Uint

	// MinFillSize guards against dust fills. Zero disables the check.
	MinFillSize *num.Uint

	CollateralLocked *num.Uint

	CreatedAt time.Time
	UpdatedAt time.Time
	// ExpiresAt zero value means the quote never expires. Expiry is
	// evaluated lazily by readers and writers, there is no sweep.
	ExpiresAt time.Time

	IsActive bool
}

// SpreadBps returns the quote's spread in basis points.
func (q *Quote) SpreadBps() (*num.Uint, error) {
	return SpreadBps(q.BidPrice, q.AskPrice)
}

// MidPrice returns the quote's mid price.
func (q *Quote) MidPrice() (*num.Uint, error) {
	return MidPrice(q.BidPrice, q.AskPrice)
}

// IsExpired reports whether the quote is past its expiry at the given
// time.
func (q *Quote) IsExpired(now time.Time) bool {
	return !q.ExpiresAt.IsZero() && !now.Before(q.ExpiresAt)
}

// IsTradable reports whether a fill may target the quote: active, not
// expired, and at least one side with remaining size.
func (q *Quote) IsTradable(now time.Time) bool {
	if !q.IsActive || q.IsExpired(now) {
		return false
	}
	return !q.BidRemaining.IsZero() || !q.AskRemaining.IsZero()
}

// Remaining returns the unfilled size on the given side.
func (q *Quote) Remaining(side Side) *num.Uint {
	if side == SideBid {
		return q.BidRemaining
	}
	return q.AskRemaining
}

// Price returns the quoted price on the given side.
func (q *Quote) Price(side Side) *num.Uint {
	if side == SideBid {
		return q.BidPrice
	}
	return q.AskPrice
}

// Size returns the original size on the given side.
func (q *Quote) Size(side Side) *num.Uint {
	if side == SideBid {
		return q.BidSize
	}
	return q.AskSize
}

// RequiredCollateral computes the collateral the quote must hold against
// its current remaining sizes.
func (q *Quote) RequiredCollateral() (*num.Uint, error) {
	return CollateralForQuote(q.BidPrice, q.BidRemaining, q.AskPrice, q.AskRemaining)
}

// Snapshot returns a copy safe to hand out to readers.
func (q *Quote) Snapshot() *Quote {
	cpy := *q
	cpy.BidPrice = q.BidPrice.Clone()
	cpy.BidSize = q.BidSize.Clone()
	cpy.BidRemaining = q.BidRemaining.Clone()
	cpy.AskPrice = q.AskPrice.Clone()
	cpy.AskSize = q.AskSize.Clone()
	cpy.AskRemaining = q.AskRemaining.Clone()
	cpy.MinFillSize = q.MinFillSize.Clone()
	cpy.CollateralLocked = q.CollateralLocked.Clone()
	return &cpy
}
