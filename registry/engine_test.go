package registry

import (
	"context"
	"sync"
	"testing"
	"time"

	"code.lumenmarkets.io/liquidity/libs/num"
	"code.lumenmarkets.io/liquidity/logging"
	"code.lumenmarkets.io/liquidity/types"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTime struct {
	mu  sync.Mutex
	now time.Time
}

func (s *stubTime) GetTimeNow() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *stubTime) advance(d time.Duration) {
	s.mu.Lock()
	s.now = s.now.Add(d)
	s.mu.Unlock()
}

type stubSettlement struct {
	mu           sync.Mutex
	transfersIn  []*num.Uint
	transfersOut []*num.Uint
	fills        int

	failTransferIn  error
	failTransferOut error
	failSettleFill  error
}

func (s *stubSettlement) TransferIn(_ context.Context, _ string, amount *num.Uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failTransferIn != nil {
		return s.failTransferIn
	}
	s.transfersIn = append(s.transfersIn, amount.Clone())
	return nil
}

func (s *stubSettlement) TransferOut(_ context.Context, _ string, amount *num.Uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failTransferOut != nil {
		return s.failTransferOut
	}
	s.transfersOut = append(s.transfersOut, amount.Clone())
	return nil
}

func (s *stubSettlement) SettleFill(_ context.Context, _ string, _ types.Side, _, _ *num.Uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSettleFill != nil {
		return s.failSettleFill
	}
	s.fills++
	return nil
}

var errNoMarkPrice = errors.New("no mark price")

type stubOracle struct {
	mu     sync.Mutex
	prices map[string]*num.Uint
}

func (s *stubOracle) MarkPrice(market string) (*num.Uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	price, ok := s.prices[market]
	if !ok {
		return nil, errNoMarkPrice
	}
	return price.Clone(), nil
}

func (s *stubOracle) set(market string, price *num.Uint) {
	s.mu.Lock()
	s.prices[market] = price.Clone()
	s.mu.Unlock()
}

type testEngine struct {
	*Engine
	time       *stubTime
	settlement *stubSettlement
	oracle     *stubOracle
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()
	ts := &stubTime{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	settle := &stubSettlement{}
	prices := &stubOracle{prices: map[string]*num.Uint{}}
	eng := New(logging.NewTestLogger(), NewDefaultConfig(), ts, settle, prices)
	return &testEngine{
		Engine:     eng,
		time:       ts,
		settlement: settle,
		oracle:     prices,
	}
}

// scaled lifts whole units to the 6 decimal fixed point representation.
func scaled(units uint64) *num.Uint {
	u, overflow := num.NewUint(units).MulOverflow(types.Scale())
	if overflow {
		panic("scaled overflows")
	}
	return u
}

func defaultParams() types.RegistryParams {
	return types.RegistryParams{
		Market:        "ETH-PERP",
		MinCollateral: scaled(100),
		MaxSpreadBps:  500,
		MinQuoteSize:  scaled(1),
		MaxQuoteSize:  scaled(1000),
		MakerFeeBps:   10,
	}
}

func (te *testEngine) createRegistry(t *testing.T) string {
	t.Helper()
	id, err := te.CreateRegistry(defaultParams())
	require.NoError(t, err)
	return id
}

func (te *testEngine) registerMaker(t *testing.T, regID, owner string) string {
	t.Helper()
	id, err := te.RegisterMarketMaker(context.Background(), regID, owner, scaled(1000))
	require.NoError(t, err)
	return id
}

// defaultQuote rests bid 100 x 10, ask 102 x 10 (spread 200 bps), locking
// max(1000, 1020)/10 = 102 of collateral.
func defaultQuote() QuoteSubmission {
	return QuoteSubmission{
		BidPrice: scaled(100),
		BidSize:  scaled(10),
		AskPrice: scaled(102),
		AskSize:  scaled(10),
	}
}

func (te *testEngine) postQuote(t *testing.T, regID, owner string) string {
	t.Helper()
	id, err := te.PostQuote(context.Background(), regID, owner, defaultQuote())
	require.NoError(t, err)
	return id
}

func TestCreateRegistry(t *testing.T) {
	te := newTestEngine(t)

	id := te.createRegistry(t)
	reg, err := te.GetRegistry(id)
	require.NoError(t, err)
	assert.Equal(t, "ETH-PERP", reg.Market)
	assert.True(t, reg.IsOpen)
	assert.True(t, reg.IsTradingEnabled)
	assert.Zero(t, reg.TotalMarketMakers)
	assert.Zero(t, reg.TotalActiveQuotes)

	// zero min size rejected
	params := defaultParams()
	params.MinQuoteSize = num.UintZero()
	_, err = te.CreateRegistry(params)
	assert.ErrorIs(t, err, types.ErrSizeOutOfBounds)

	// min above max rejected
	params = defaultParams()
	params.MinQuoteSize = scaled(2000)
	_, err = te.CreateRegistry(params)
	assert.ErrorIs(t, err, types.ErrSizeOutOfBounds)
}

func TestGetRegistryNotFound(t *testing.T) {
	te := newTestEngine(t)
	_, err := te.GetRegistry("no-such-registry")
	assert.ErrorIs(t, err, types.ErrRegistryNotFound)
}

func TestRegistryGates(t *testing.T) {
	te := newTestEngine(t)
	regID := te.createRegistry(t)

	require.NoError(t, te.SetOpen(regID, false))
	_, err := te.RegisterMarketMaker(context.Background(), regID, "late-owner", scaled(1000))
	assert.ErrorIs(t, err, types.ErrRegistryClosed)

	require.NoError(t, te.SetOpen(regID, true))
	te.registerMaker(t, regID, "owner-1")

	reg, err := te.GetRegistry(regID)
	require.NoError(t, err)
	assert.True(t, reg.IsOpen)
	assert.EqualValues(t, 1, reg.TotalMarketMakers)
}

func TestReloadConf(t *testing.T) {
	te := newTestEngine(t)
	cfg := NewDefaultConfig()
	cfg.Level.Level = logging.DebugLevel
	te.ReloadConf(cfg)
	assert.Equal(t, logging.DebugLevel, te.log.GetLevel())
}
