package registry

import (
	"sort"

	"code.lumenmarkets.io/liquidity/libs/num"
	"code.lumenmarkets.io/liquidity/types"
)

// BestQuotes holds the touch of the aggregated book. Either side may be
// nil when no quote has remaining size there.
type BestQuotes struct {
	BestBid *types.Quote
	BestAsk *types.Quote
}

// PriceLevel is the aggregated remaining size resting at one exact
// price.
type PriceLevel struct {
	Price      *num.Uint
	TotalSize  *num.Uint
	QuoteCount uint64
}

// DepthBook is the multi level depth view a taker consults before
// filling. Bids are sorted descending, asks ascending.
type DepthBook struct {
	Bids []PriceLevel
	Asks []PriceLevel
}

// ActiveQuotes returns a point in time snapshot of every tradable quote
// in the registry. Quotes of suspended makers are frozen and excluded,
// as are expired quotes even if not yet marked inactive. The scan takes
// one maker read lock at a time, so it never blocks writers globally and
// tolerates being stale relative to concurrent fills.
func (e *Engine) ActiveQuotes(registryID string) ([]*types.Quote, error) {
	rs, err := e.getRegistry(registryID)
	if err != nil {
		return nil, err
	}

	rs.mu.RLock()
	states := make([]*makerState, 0, len(rs.makers))
	for _, ms := range rs.makers {
		states = append(states, ms)
	}
	rs.mu.RUnlock()

	now := e.now()
	quotes := []*types.Quote{}
	for _, ms := range states {
		ms.mu.RLock()
		if ms.maker.Status == types.MakerStatusActive {
			for _, q := range ms.quotes {
				if q.IsTradable(now) {
					quotes = append(quotes, q.Snapshot())
				}
			}
		}
		ms.mu.RUnlock()
	}
	return quotes, nil
}

// BestQuotes scans the active quotes for the best bid (highest bid price
// with bid remaining) and best ask (lowest ask price with ask
// remaining). Ties break on earliest CreatedAt, price-time priority.
func (e *Engine) BestQuotes(registryID string) (*BestQuotes, error) {
	quotes, err := e.ActiveQuotes(registryID)
	if err != nil {
		return nil, err
	}

	best := &BestQuotes{}
	for _, q := range quotes {
		if !q.BidRemaining.IsZero() && better(best.BestBid, q, types.SideBid) {
			best.BestBid = q
		}
		if !q.AskRemaining.IsZero() && better(best.BestAsk, q, types.SideAsk) {
			best.BestAsk = q
		}
	}
	return best, nil
}

// better reports whether candidate beats current on the given side.
func better(current, candidate *types.Quote, side types.Side) bool {
	if current == nil {
		return true
	}
	cur, cand := current.Price(side), candidate.Price(side)
	if cand.EQ(cur) {
		return candidate.CreatedAt.Before(current.CreatedAt)
	}
	if side == types.SideBid {
		return cand.GT(cur)
	}
	return cand.LT(cur)
}

// AggregatedLiquidity buckets active quotes by exact price into depth
// levels, separately per side, truncated to the requested number of
// levels per side.
func (e *Engine) AggregatedLiquidity(registryID string, levels int) (*DepthBook, error) {
	quotes, err := e.ActiveQuotes(registryID)
	if err != nil {
		return nil, err
	}

	bids := map[string]*PriceLevel{}
	asks := map[string]*PriceLevel{}
	for _, q := range quotes {
		if !q.BidRemaining.IsZero() {
			accumulate(bids, q.BidPrice, q.BidRemaining)
		}
		if !q.AskRemaining.IsZero() {
			accumulate(asks, q.AskPrice, q.AskRemaining)
		}
	}

	book := &DepthBook{
		Bids: sortLevels(bids, true),
		Asks: sortLevels(asks, false),
	}
	if levels > 0 {
		if len(book.Bids) > levels {
			book.Bids = book.Bids[:levels]
		}
		if len(book.Asks) > levels {
			book.Asks = book.Asks[:levels]
		}
	}
	return book, nil
}

func accumulate(side map[string]*PriceLevel, price, size *num.Uint) {
	key := price.String()
	level, ok := side[key]
	if !ok {
		side[key] = &PriceLevel{
			Price:      price.Clone(),
			TotalSize:  size.Clone(),
			QuoteCount: 1,
		}
		return
	}
	if total, overflow := level.TotalSize.AddOverflow(size); !overflow {
		level.TotalSize = total
	}
	level.QuoteCount++
}

func sortLevels(side map[string]*PriceLevel, descending bool) []PriceLevel {
	out := make([]PriceLevel, 0, len(side))
	for _, level := range side {
		out = append(out, *level)
	}
	sort.Slice(out, func(i, j int) bool {
		if descending {
			return out[i].Price.GT(out[j].Price)
		}
		return out[i].Price.LT(out[j].Price)
	})
	return out
}

// MakerStats is a per maker snapshot with open inventory valued against
// the oracle mark price.
type MakerStats struct {
	Maker         *types.MarketMaker
	MarkPrice     *num.Uint
	UnrealizedPnl num.Decimal
}

// GetMakerStats values a maker's open inventory against the current
// mark price. The oracle feeds display only, fills never consult it.
func (e *Engine) GetMakerStats(registryID, owner string) (*MakerStats, error) {
	rs, ms, err := e.getMaker(registryID, owner)
	if err != nil {
		return nil, err
	}

	rs.mu.RLock()
	market := rs.registry.Market
	rs.mu.RUnlock()

	mark, err := e.oracle.MarkPrice(market)
	if err != nil {
		return nil, err
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return &MakerStats{
		Maker:         ms.maker.Snapshot(),
		MarkPrice:     mark.Clone(),
		UnrealizedPnl: ms.maker.UnrealizedPnl(mark),
	}, nil
}
