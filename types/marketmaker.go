package types

import (
	"time"

	"code.lumenmarkets.io/liquidity/libs/num"
)

// MakerStatus is the market maker lifecycle state.
type MakerStatus int8

const (
	MakerStatusInactive MakerStatus = iota
	MakerStatusActive
	MakerStatusSuspended
	MakerStatusDeregistered
)

func (s MakerStatus) String() string {
	switch s {
	case MakerStatusInactive:
		return "inactive"
	case MakerStatusActive:
		return "active"
	case MakerStatusSuspended:
		return "suspended"
	case MakerStatusDeregistered:
		return "deregistered"
	default:
		return "unknown"
	}
}

// makerTransitions is the status transition table. Deregistered is
// terminal.
var makerTransitions = map[MakerStatus][]MakerStatus{
	MakerStatusInactive:  {MakerStatusActive},
	MakerStatusActive:    {MakerStatusSuspended, MakerStatusDeregistered},
	MakerStatusSuspended: {MakerStatusActive, MakerStatusDeregistered},
}

// CanTransitionTo reports whether the transition table allows moving from
// s to target.
func (s MakerStatus) CanTransitionTo(target MakerStatus) bool {
	for _, t := range makerTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// MarketMaker is the per (registry, owner) collateral ledger and
// inventory book.
type MarketMaker struct {
	ID       string
	Owner    string
	Registry string

	CollateralDeposited *num.Uint
	CollateralLocked    *num.Uint

	// Inventory is the signed net size at the fixed point scale,
	// positive means net long. AverageEntryPrice is volume weighted over
	// increases in the same direction.
	Inventory         num.Decimal
	AverageEntryPrice *num.Uint
	RealizedPnl       num.Decimal

	TotalVolume *num.Uint
	TotalFills  uint64
	TotalFees   *num.Uint

	RegisteredAt time.Time
	LastActiveAt time.Time

	ActiveQuotes uint32
	MaxQuotes    uint32
	Status       MakerStatus
}

// DefaultMaxQuotes caps the number of simultaneously active quotes per
// maker.
const DefaultMaxQuotes = 10

// NewMarketMaker creates an active maker with the initial collateral
// fully available.
func NewMarketMaker(id, owner, registry string, initialCollateral *num.Uint, now time.Time) *MarketMaker {
	return &MarketMaker{
		ID:                  id,
		Owner:               owner,
		Registry:            registry,
		CollateralDeposited: initialCollateral.Clone(),
		CollateralLocked:    num.UintZero(),
		Inventory:           num.DecimalZero(),
		AverageEntryPrice:   num.UintZero(),
		RealizedPnl:         num.DecimalZero(),
		TotalVolume:         num.UintZero(),
		TotalFees:           num.UintZero(),
		RegisteredAt:        now,
		LastActiveAt:        now,
		MaxQuotes:           DefaultMaxQuotes,
		Status:              MakerStatusActive,
	}
}

// CollateralAvailable is deposited minus locked. Derived on demand, never
// stored, so it cannot drift.
func (m *MarketMaker) CollateralAvailable() *num.Uint {
	avail, underflow := m.CollateralDeposited.SubOverflow(m.CollateralLocked)
	if underflow {
		// locked <= deposited is a hard invariant, treat a violation as
		// nothing available rather than a wrapped huge value
		return num.UintZero()
	}
	return avail
}

// HasAvailableCollateral reports whether amount can be locked.
func (m *MarketMaker) HasAvailableCollateral(amount *num.Uint) bool {
	return m.CollateralAvailable().GTE(amount)
}

// LockCollateral reserves amount against open quotes.
func (m *MarketMaker) LockCollateral(amount *num.Uint) error {
	if !m.HasAvailableCollateral(amount) {
		return ErrInsufficientCollateral
	}
	locked, overflow := m.CollateralLocked.AddOverflow(amount)
	if overflow {
		return ErrMathOverflow
	}
	m.CollateralLocked = locked
	return nil
}

// UnlockCollateral releases amount back to the available pool. Releasing
// more than is locked releases exactly what is locked.
func (m *MarketMaker) UnlockCollateral(amount *num.Uint) {
	unlocked, underflow := m.CollateralLocked.SubOverflow(amount)
	if underflow {
		unlocked = num.UintZero()
	}
	m.CollateralLocked = unlocked
}

// ApplyFill updates inventory, average entry price and realized PnL for a
// fill of size at price on the given quote side. A bid fill makes the
// maker longer, an ask fill shorter.
func (m *MarketMaker) ApplyFill(side Side, price, size *num.Uint) {
	signed := size.ToDecimal()
	if side == SideAsk {
		signed = signed.Neg()
	}

	inv := m.Inventory
	switch {
	case inv.IsZero():
		m.Inventory = signed
		m.AverageEntryPrice = price.Clone()

	case inv.Sign() == signed.Sign():
		// increasing the position, volume weighted average entry
		oldValue := inv.Abs().Mul(m.AverageEntryPrice.ToDecimal())
		newValue := signed.Abs().Mul(price.ToDecimal())
		totalSize := inv.Abs().Add(signed.Abs())
		avg, _ := num.UintFromDecimal(oldValue.Add(newValue).Div(totalSize).Floor())
		m.AverageEntryPrice = avg
		m.Inventory = inv.Add(signed)

	default:
		// reducing or flipping, realize PnL on the closed portion
		closeSize := num.MinD(signed.Abs(), inv.Abs())
		diff := price.ToDecimal().Sub(m.AverageEntryPrice.ToDecimal())
		if inv.Sign() < 0 {
			diff = diff.Neg()
		}
		m.RealizedPnl = m.RealizedPnl.Add(diff.Mul(closeSize).Div(priceScale.ToDecimal()))
		m.Inventory = inv.Add(signed)

		if m.Inventory.IsZero() {
			m.AverageEntryPrice = num.UintZero()
		} else if m.Inventory.Sign() == signed.Sign() {
			// flipped through zero, the residual opened at the fill price
			m.AverageEntryPrice = price.Clone()
		}
	}
}

// UnrealizedPnl values the open inventory against an external mark
// price. Display only, never authoritative for fills.
func (m *MarketMaker) UnrealizedPnl(markPrice *num.Uint) num.Decimal {
	if m.Inventory.IsZero() {
		return num.DecimalZero()
	}
	diff := markPrice.ToDecimal().Sub(m.AverageEntryPrice.ToDecimal())
	return m.Inventory.Mul(diff).Div(priceScale.ToDecimal())
}

// Snapshot returns a copy safe to hand out to readers.
func (m *MarketMaker) Snapshot() *MarketMaker {
	cpy := *m
	cpy.CollateralDeposited = m.CollateralDeposited.Clone()
	cpy.CollateralLocked = m.CollateralLocked.Clone()
	cpy.AverageEntryPrice = m.AverageEntryPrice.Clone()
	cpy.TotalVolume = m.TotalVolume.Clone()
	cpy.TotalFees = m.TotalFees.Clone()
	return &cpy
}
