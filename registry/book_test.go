package registry

import (
	"context"
	"testing"
	"time"

	"code.lumenmarkets.io/liquidity/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (te *testEngine) post(t *testing.T, regID, owner string, bid, ask uint64) string {
	t.Helper()
	id, err := te.PostQuote(context.Background(), regID, owner, QuoteSubmission{
		BidPrice: scaled(bid),
		BidSize:  scaled(10),
		AskPrice: scaled(ask),
		AskSize:  scaled(10),
	})
	require.NoError(t, err)
	return id
}

func TestActiveQuotesExcludesNonTradable(t *testing.T) {
	te := newTestEngine(t)
	regID := te.createRegistry(t)
	te.registerMaker(t, regID, "owner-1")
	te.registerMaker(t, regID, "owner-2")

	te.post(t, regID, "owner-1", 100, 102)
	cancelled := te.post(t, regID, "owner-1", 100, 102)
	require.NoError(t, te.CancelQuote(context.Background(), regID, "owner-1", cancelled))

	expiring, err := te.PostQuote(context.Background(), regID, "owner-1", QuoteSubmission{
		BidPrice:  scaled(100),
		BidSize:   scaled(10),
		AskPrice:  scaled(102),
		AskSize:   scaled(10),
		ExpiresIn: time.Minute,
	})
	require.NoError(t, err)

	te.post(t, regID, "owner-2", 99, 101)
	require.NoError(t, te.SuspendMarketMaker(regID, "owner-2"))

	te.time.advance(2 * time.Minute)

	quotes, err := te.ActiveQuotes(regID)
	require.NoError(t, err)
	require.Len(t, quotes, 1, "cancelled, expired and frozen quotes are all excluded")
	assert.NotEqual(t, cancelled, quotes[0].ID)
	assert.NotEqual(t, expiring, quotes[0].ID)
}

func TestBestQuotes(t *testing.T) {
	te := newTestEngine(t)
	regID := te.createRegistry(t)
	te.registerMaker(t, regID, "owner-1")
	te.registerMaker(t, regID, "owner-2")
	te.registerMaker(t, regID, "owner-3")

	te.post(t, regID, "owner-1", 100, 103)
	te.post(t, regID, "owner-2", 101, 104)
	te.post(t, regID, "owner-3", 99, 102)

	best, err := te.BestQuotes(regID)
	require.NoError(t, err)
	require.NotNil(t, best.BestBid)
	require.NotNil(t, best.BestAsk)
	assert.True(t, scaled(101).EQ(best.BestBid.BidPrice), "highest bid wins")
	assert.True(t, scaled(102).EQ(best.BestAsk.AskPrice), "lowest ask wins")
}

func TestBestQuotesPriceTimePriority(t *testing.T) {
	te := newTestEngine(t)
	regID := te.createRegistry(t)
	te.registerMaker(t, regID, "owner-1")
	te.registerMaker(t, regID, "owner-2")

	first := te.post(t, regID, "owner-1", 100, 102)
	te.time.advance(time.Second)
	te.post(t, regID, "owner-2", 100, 102)

	best, err := te.BestQuotes(regID)
	require.NoError(t, err)
	assert.Equal(t, first, best.BestBid.ID, "equal prices, the earlier quote wins")
	assert.Equal(t, first, best.BestAsk.ID)
}

func TestBestQuotesEmptyBook(t *testing.T) {
	te := newTestEngine(t)
	regID := te.createRegistry(t)

	best, err := te.BestQuotes(regID)
	require.NoError(t, err)
	assert.Nil(t, best.BestBid)
	assert.Nil(t, best.BestAsk)
}

func TestBestQuotesIgnoresEmptySides(t *testing.T) {
	te := newTestEngine(t)
	regID := te.createRegistry(t)
	te.registerMaker(t, regID, "owner-1")
	te.registerMaker(t, regID, "owner-2")

	top := te.post(t, regID, "owner-1", 101, 102)
	te.post(t, regID, "owner-2", 100, 103)

	// drain the best bid side, the quote stays tradable on its ask
	_, err := te.FillQuote(context.Background(), regID, top, types.SideBid, scaled(10), nil)
	require.NoError(t, err)

	best, err := te.BestQuotes(regID)
	require.NoError(t, err)
	assert.True(t, scaled(100).EQ(best.BestBid.BidPrice))
	assert.True(t, scaled(102).EQ(best.BestAsk.AskPrice))
}

func TestAggregatedLiquidity(t *testing.T) {
	te := newTestEngine(t)
	regID := te.createRegistry(t)
	te.registerMaker(t, regID, "owner-1")
	te.registerMaker(t, regID, "owner-2")
	te.registerMaker(t, regID, "owner-3")

	// two quotes share the 100 bid level
	te.post(t, regID, "owner-1", 100, 102)
	te.post(t, regID, "owner-2", 100, 103)
	te.post(t, regID, "owner-3", 99, 102)

	book, err := te.AggregatedLiquidity(regID, 0)
	require.NoError(t, err)

	require.Len(t, book.Bids, 2)
	assert.True(t, scaled(100).EQ(book.Bids[0].Price), "bids sorted descending")
	assert.True(t, scaled(20).EQ(book.Bids[0].TotalSize))
	assert.EqualValues(t, 2, book.Bids[0].QuoteCount)
	assert.True(t, scaled(99).EQ(book.Bids[1].Price))

	require.Len(t, book.Asks, 2)
	assert.True(t, scaled(102).EQ(book.Asks[0].Price), "asks sorted ascending")
	assert.True(t, scaled(20).EQ(book.Asks[0].TotalSize))
	assert.True(t, scaled(103).EQ(book.Asks[1].Price))
}

func TestAggregatedLiquidityTruncatesLevels(t *testing.T) {
	te := newTestEngine(t)
	regID := te.createRegistry(t)
	te.registerMaker(t, regID, "owner-1")

	te.post(t, regID, "owner-1", 100, 104)
	te.post(t, regID, "owner-1", 99, 103)
	te.post(t, regID, "owner-1", 98, 102)

	book, err := te.AggregatedLiquidity(regID, 2)
	require.NoError(t, err)
	require.Len(t, book.Bids, 2)
	require.Len(t, book.Asks, 2)
	assert.True(t, scaled(100).EQ(book.Bids[0].Price))
	assert.True(t, scaled(99).EQ(book.Bids[1].Price))
	assert.True(t, scaled(102).EQ(book.Asks[0].Price))
	assert.True(t, scaled(103).EQ(book.Asks[1].Price))
}

func TestGetMakerStats(t *testing.T) {
	te := newTestEngine(t)
	regID := te.createRegistry(t)
	te.registerMaker(t, regID, "owner-1")
	quoteID := te.postQuote(t, regID, "owner-1")

	// no mark price yet
	_, err := te.GetMakerStats(regID, "owner-1")
	require.Error(t, err)

	// long 5 @ 100, marked at 104 -> unrealized 20
	_, err = te.FillQuote(context.Background(), regID, quoteID, types.SideBid, scaled(5), nil)
	require.NoError(t, err)
	te.oracle.set("ETH-PERP", scaled(104))

	stats, err := te.GetMakerStats(regID, "owner-1")
	require.NoError(t, err)
	assert.True(t, scaled(104).EQ(stats.MarkPrice))
	assert.True(t, scaled(20).ToDecimal().Equal(stats.UnrealizedPnl))
	assert.True(t, scaled(5).ToDecimal().Equal(stats.Maker.Inventory))
}
