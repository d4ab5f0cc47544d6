package registry

import (
	"context"
	"time"

	"code.lumenmarkets.io/liquidity/libs/num"
	"code.lumenmarkets.io/liquidity/logging"
	"code.lumenmarkets.io/liquidity/metrics"
	"code.lumenmarkets.io/liquidity/types"

	uuid "github.com/satori/go.uuid"
)

// QuoteSubmission carries the parameters of a new two sided quote.
type QuoteSubmission struct {
	BidPrice *num.Uint
	BidSize  *num.Uint
	AskPrice *num.Uint
	AskSize  *num.Uint
	// MinFillSize rejects dust fills, zero disables the check.
	MinFillSize *num.Uint
	// ExpiresIn is the time until expiry, zero means the quote never
	// expires.
	ExpiresIn time.Duration
}

// QuoteAmendment is a partial update, nil fields keep their current
// value.
type QuoteAmendment struct {
	BidPrice *num.Uint
	BidSize  *num.Uint
	AskPrice *num.Uint
	AskSize  *num.Uint
}

// PostQuote validates and rests a new quote for the caller, locking the
// collateral it requires, and returns the quote ID.
func (e *Engine) PostQuote(ctx context.Context, registryID, caller string, sub QuoteSubmission) (string, error) {
	rs, ms, err := e.getMaker(registryID, caller)
	if err != nil {
		return "", err
	}

	rs.mu.RLock()
	maxSpreadBps := rs.registry.MaxSpreadBps
	sizeOK := rs.registry.SizeInBounds(sub.BidSize) && rs.registry.SizeInBounds(sub.AskSize)
	rs.mu.RUnlock()

	// index the quote before taking the maker lock so fills can resolve
	// it by ID; rolled back if validation rejects the submission
	quoteID := uuid.NewV4().String()
	rs.indexQuote(quoteID, caller)
	posted := false
	defer func() {
		if !posted {
			rs.unindexQuote(quoteID)
		}
	}()

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.maker.Owner != caller {
		return "", types.ErrUnauthorized
	}
	if ms.maker.Status != types.MakerStatusActive {
		return "", types.ErrMarketMakerNotActive
	}
	if ms.maker.ActiveQuotes >= ms.maker.MaxQuotes {
		return "", types.ErrMaxQuotesReached
	}

	spread, err := types.SpreadBps(sub.BidPrice, sub.AskPrice)
	if err != nil {
		return "", err
	}
	if spread.GT(num.NewUint(uint64(maxSpreadBps))) {
		return "", types.ErrSpreadTooWide
	}
	if !sizeOK {
		return "", types.ErrSizeOutOfBounds
	}

	required, err := types.CollateralForQuote(sub.BidPrice, sub.BidSize, sub.AskPrice, sub.AskSize)
	if err != nil {
		return "", err
	}
	if err := ms.maker.LockCollateral(required); err != nil {
		return "", err
	}

	now := e.now()
	minFill := num.UintZero()
	if sub.MinFillSize != nil {
		minFill = sub.MinFillSize.Clone()
	}
	quote := &types.Quote{
		ID:               quoteID,
		MarketMaker:      ms.maker.ID,
		Registry:         registryID,
		BidPrice:         sub.BidPrice.Clone(),
		BidSize:          sub.BidSize.Clone(),
		BidRemaining:     sub.BidSize.Clone(),
		AskPrice:         sub.AskPrice.Clone(),
		AskSize:          sub.AskSize.Clone(),
		AskRemaining:     sub.AskSize.Clone(),
		MinFillSize:      minFill,
		CollateralLocked: required,
		CreatedAt:        now,
		UpdatedAt:        now,
		IsActive:         true,
	}
	if sub.ExpiresIn > 0 {
		quote.ExpiresAt = now.Add(sub.ExpiresIn)
	}

	ms.quotes[quote.ID] = quote
	ms.maker.ActiveQuotes++
	ms.maker.LastActiveAt = now
	rs.addActiveQuotes(1)
	posted = true

	metrics.QuotesPosted.Inc()
	if e.log.IsDebug() {
		e.log.Debug("quote posted",
			logging.QuoteID(quote.ID),
			logging.MakerID(ms.maker.ID),
			logging.String("bid", sub.BidPrice.String()),
			logging.String("ask", sub.AskPrice.String()),
			logging.String("spread-bps", spread.String()),
			logging.String("collateral", required.String()))
	}
	return quote.ID, nil
}

// UpdateQuote amends a resting quote. Spread and size bounds are
// re-validated against the merged values, the collateral delta is locked
// or released, and both remaining sizes reset to the new sizes, an update
// replaces the resting quote rather than preserving fill progress.
func (e *Engine) UpdateQuote(ctx context.Context, registryID, caller, quoteID string, amendment QuoteAmendment) error {
	rs, ms, err := e.getMaker(registryID, caller)
	if err != nil {
		return err
	}

	rs.mu.RLock()
	maxSpreadBps := rs.registry.MaxSpreadBps
	minSize := rs.registry.MinQuoteSize.Clone()
	maxSize := rs.registry.MaxQuoteSize.Clone()
	rs.mu.RUnlock()

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.maker.Owner != caller {
		return types.ErrUnauthorized
	}
	if ms.maker.Status != types.MakerStatusActive {
		return types.ErrMarketMakerNotActive
	}
	quote, ok := ms.quotes[quoteID]
	if !ok {
		return types.ErrQuoteNotFound
	}
	if !quote.IsActive {
		return types.ErrQuoteNotActive
	}

	merge := func(nv, cur *num.Uint) *num.Uint {
		if nv != nil {
			return nv.Clone()
		}
		return cur.Clone()
	}
	bidPrice := merge(amendment.BidPrice, quote.BidPrice)
	bidSize := merge(amendment.BidSize, quote.BidSize)
	askPrice := merge(amendment.AskPrice, quote.AskPrice)
	askSize := merge(amendment.AskSize, quote.AskSize)

	spread, err := types.SpreadBps(bidPrice, askPrice)
	if err != nil {
		return err
	}
	if spread.GT(num.NewUint(uint64(maxSpreadBps))) {
		return types.ErrSpreadTooWide
	}
	for _, size := range []*num.Uint{bidSize, askSize} {
		if size.LT(minSize) || size.GT(maxSize) {
			return types.ErrSizeOutOfBounds
		}
	}

	required, err := types.CollateralForQuote(bidPrice, bidSize, askPrice, askSize)
	if err != nil {
		return err
	}

	// lock or release the collateral delta before touching the quote
	if required.GT(quote.CollateralLocked) {
		additional, _ := required.SubOverflow(quote.CollateralLocked)
		if err := ms.maker.LockCollateral(additional); err != nil {
			return err
		}
	} else if required.LT(quote.CollateralLocked) {
		freed, _ := quote.CollateralLocked.SubOverflow(required)
		ms.maker.UnlockCollateral(freed)
	}

	now := e.now()
	quote.BidPrice = bidPrice
	quote.BidSize = bidSize
	quote.BidRemaining = bidSize.Clone()
	quote.AskPrice = askPrice
	quote.AskSize = askSize
	quote.AskRemaining = askSize.Clone()
	quote.CollateralLocked = required
	quote.UpdatedAt = now
	ms.maker.LastActiveAt = now

	if e.log.IsDebug() {
		e.log.Debug("quote updated",
			logging.QuoteID(quote.ID),
			logging.MakerID(ms.maker.ID),
			logging.String("spread-bps", spread.String()),
			logging.String("collateral", required.String()))
	}
	return nil
}

// CancelQuote deactivates a resting quote and releases all of its
// collateral. Suspended makers may still cancel, they need a path to wind
// down and deregister.
func (e *Engine) CancelQuote(ctx context.Context, registryID, caller, quoteID string) error {
	rs, ms, err := e.getMaker(registryID, caller)
	if err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.maker.Owner != caller {
		return types.ErrUnauthorized
	}
	quote, ok := ms.quotes[quoteID]
	if !ok {
		return types.ErrQuoteNotFound
	}
	if !quote.IsActive {
		return types.ErrQuoteNotActive
	}

	ms.maker.UnlockCollateral(quote.CollateralLocked)
	quote.CollateralLocked = num.UintZero()
	quote.IsActive = false
	quote.UpdatedAt = e.now()

	if ms.maker.ActiveQuotes > 0 {
		ms.maker.ActiveQuotes--
	}
	ms.maker.LastActiveAt = quote.UpdatedAt
	rs.addActiveQuotes(-1)

	metrics.QuotesCancelled.Inc()
	return nil
}

// GetQuote returns a snapshot of one of the caller's quotes.
func (e *Engine) GetQuote(registryID, owner, quoteID string) (*types.Quote, error) {
	_, ms, err := e.getMaker(registryID, owner)
	if err != nil {
		return nil, err
	}
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	quote, ok := ms.quotes[quoteID]
	if !ok {
		return nil, types.ErrQuoteNotFound
	}
	return quote.Snapshot(), nil
}
