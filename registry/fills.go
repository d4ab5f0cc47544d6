package registry

import (
	"context"

	"code.lumenmarkets.io/liquidity/libs/num"
	"code.lumenmarkets.io/liquidity/logging"
	"code.lumenmarkets.io/liquidity/metrics"
	"code.lumenmarkets.io/liquidity/types"
)

// FillResult reports the outcome of a fill back to the taker.
type FillResult struct {
	FillPrice  *num.Uint
	FillAmount *num.Uint
	Notional   *num.Uint
	Fee        *num.Uint
}

// FillQuote consumes up to size from one side of a resting quote. The
// request is capped to the remaining size, never over-filling. An
// optional priceBound rejects the fill outright instead of filling at a
// worse price than the taker will accept: a max price when buying
// against the ask, a min price when selling into the bid.
//
// Either every effect of the fill applies, quote remaining, maker
// inventory and collateral, registry counters, or none of them do.
func (e *Engine) FillQuote(ctx context.Context, registryID, quoteID string, side types.Side, size *num.Uint, priceBound *num.Uint) (*FillResult, error) {
	if side != types.SideBid && side != types.SideAsk {
		return nil, types.ErrInvalidAmount
	}
	if size.IsZero() {
		return nil, types.ErrInvalidAmount
	}

	rs, err := e.getRegistry(registryID)
	if err != nil {
		return nil, err
	}

	rs.mu.RLock()
	tradingEnabled := rs.registry.IsTradingEnabled
	feeBps := rs.registry.MakerFeeBps
	owner, known := rs.quoteOwners[quoteID]
	var ms *makerState
	if known {
		ms = rs.makers[owner]
	}
	rs.mu.RUnlock()

	if !tradingEnabled {
		return nil, types.ErrTradingDisabled
	}
	if ms == nil {
		return nil, types.ErrQuoteNotFound
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	quote, ok := ms.quotes[quoteID]
	if !ok {
		return nil, types.ErrQuoteNotFound
	}

	now := e.now()
	if !quote.IsActive {
		return nil, types.ErrQuoteNotFillable
	}
	if quote.IsExpired(now) {
		return nil, types.ErrQuoteExpired
	}
	// a suspended maker's resting quotes are frozen, not fillable
	if ms.maker.Status != types.MakerStatusActive {
		return nil, types.ErrQuoteNotFillable
	}

	remaining := quote.Remaining(side)
	if remaining.IsZero() {
		return nil, types.ErrQuoteNotFillable
	}

	fillPrice := quote.Price(side)
	if priceBound != nil {
		// buying against the ask: price must not exceed the bound,
		// selling into the bid: price must not fall below it
		if side == types.SideAsk && fillPrice.GT(priceBound) {
			return nil, types.ErrSlippageExceeded
		}
		if side == types.SideBid && fillPrice.LT(priceBound) {
			return nil, types.ErrSlippageExceeded
		}
	}

	if size.LT(quote.MinFillSize) && size.LT(remaining) {
		return nil, types.ErrFillSizeTooSmall
	}

	fillAmount := num.Min(size, remaining)
	notional, err := types.Notional(fillPrice, fillAmount)
	if err != nil {
		return nil, err
	}
	fee, err := types.FeeForNotional(notional, feeBps)
	if err != nil {
		return nil, err
	}

	// compute every post-fill value before mutating anything, a failure
	// from here on must leave no partial state behind
	newRemaining, _ := remaining.SubOverflow(fillAmount)
	makerVolume, overflow := ms.maker.TotalVolume.AddOverflow(notional)
	if overflow {
		return nil, types.ErrMathOverflow
	}
	makerFees, overflow := ms.maker.TotalFees.AddOverflow(fee)
	if overflow {
		return nil, types.ErrMathOverflow
	}

	if err := e.settlement.SettleFill(ctx, ms.maker.Owner, side, notional, fee); err != nil {
		return nil, err
	}

	// commit
	if side == types.SideBid {
		quote.BidRemaining = newRemaining
	} else {
		quote.AskRemaining = newRemaining
	}
	quote.UpdatedAt = now

	ms.maker.ApplyFill(side, fillPrice, fillAmount)
	ms.maker.TotalVolume = makerVolume
	ms.maker.TotalFills++
	ms.maker.TotalFees = makerFees
	ms.maker.LastActiveAt = now

	// collateral backing the quote shrinks with the remaining risk
	required, _ := quote.RequiredCollateral()
	if required.LT(quote.CollateralLocked) {
		freed, _ := quote.CollateralLocked.SubOverflow(required)
		ms.maker.UnlockCollateral(freed)
		quote.CollateralLocked = required
	}

	if quote.BidRemaining.IsZero() && quote.AskRemaining.IsZero() {
		// fully filled, same bookkeeping as a cancel but a different
		// terminal reason
		quote.IsActive = false
		if ms.maker.ActiveQuotes > 0 {
			ms.maker.ActiveQuotes--
		}
		rs.addActiveQuotes(-1)
	}

	rs.addVolumeAndFees(notional, fee)
	metrics.FillsTotal.Inc()
	metrics.FillVolume.Add(float64(notional.Uint64()))

	if e.log.IsDebug() {
		e.log.Debug("quote filled",
			logging.QuoteID(quoteID),
			logging.MakerID(ms.maker.ID),
			logging.String("side", side.String()),
			logging.String("size", fillAmount.String()),
			logging.String("price", fillPrice.String()),
			logging.String("fee", fee.String()))
	}

	return &FillResult{
		FillPrice:  fillPrice.Clone(),
		FillAmount: fillAmount,
		Notional:   notional,
		Fee:        fee,
	}, nil
}
