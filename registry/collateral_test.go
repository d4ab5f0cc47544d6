package registry

import (
	"context"
	"testing"

	"code.lumenmarkets.io/liquidity/libs/num"
	"code.lumenmarkets.io/liquidity/types"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterMarketMaker(t *testing.T) {
	te := newTestEngine(t)
	regID := te.createRegistry(t)

	id := te.registerMaker(t, regID, "owner-1")
	assert.NotEmpty(t, id)

	maker, err := te.GetMarketMaker(regID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, types.MakerStatusActive, maker.Status)
	assert.True(t, scaled(1000).EQ(maker.CollateralDeposited))
	assert.True(t, maker.CollateralLocked.IsZero())
	assert.EqualValues(t, types.DefaultMaxQuotes, maker.MaxQuotes)

	// the deposit was routed through settlement
	require.Len(t, te.settlement.transfersIn, 1)
	assert.True(t, scaled(1000).EQ(te.settlement.transfersIn[0]))

	// same owner cannot register twice
	_, err = te.RegisterMarketMaker(context.Background(), regID, "owner-1", scaled(1000))
	assert.ErrorIs(t, err, types.ErrMarketMakerAlreadyRegistered)
}

func TestRegisterBelowMinimumCollateral(t *testing.T) {
	te := newTestEngine(t)
	regID := te.createRegistry(t)

	_, err := te.RegisterMarketMaker(context.Background(), regID, "owner-1", scaled(99))
	assert.ErrorIs(t, err, types.ErrBelowMinimumCollateral)

	// exactly the minimum is accepted
	_, err = te.RegisterMarketMaker(context.Background(), regID, "owner-1", scaled(100))
	assert.NoError(t, err)
}

func TestRegisterSettlementFailureLeavesNoState(t *testing.T) {
	te := newTestEngine(t)
	regID := te.createRegistry(t)

	te.settlement.failTransferIn = errors.New("custody unavailable")
	_, err := te.RegisterMarketMaker(context.Background(), regID, "owner-1", scaled(1000))
	require.Error(t, err)

	_, err = te.GetMarketMaker(regID, "owner-1")
	assert.ErrorIs(t, err, types.ErrMarketMakerNotFound)

	reg, err := te.GetRegistry(regID)
	require.NoError(t, err)
	assert.Zero(t, reg.TotalMarketMakers)
}

func TestDepositCollateral(t *testing.T) {
	te := newTestEngine(t)
	regID := te.createRegistry(t)
	te.registerMaker(t, regID, "owner-1")

	require.NoError(t, te.DepositCollateral(context.Background(), regID, "owner-1", scaled(500)))

	maker, err := te.GetMarketMaker(regID, "owner-1")
	require.NoError(t, err)
	assert.True(t, scaled(1500).EQ(maker.CollateralDeposited))

	// zero amounts are meaningless
	err = te.DepositCollateral(context.Background(), regID, "owner-1", num.UintZero())
	assert.ErrorIs(t, err, types.ErrInvalidAmount)

	// unknown owner
	err = te.DepositCollateral(context.Background(), regID, "nobody", scaled(10))
	assert.ErrorIs(t, err, types.ErrMarketMakerNotFound)
}

func TestWithdrawCollateral(t *testing.T) {
	te := newTestEngine(t)
	regID := te.createRegistry(t)
	te.registerMaker(t, regID, "owner-1")

	require.NoError(t, te.WithdrawCollateral(context.Background(), regID, "owner-1", scaled(200)))

	maker, err := te.GetMarketMaker(regID, "owner-1")
	require.NoError(t, err)
	assert.True(t, scaled(800).EQ(maker.CollateralDeposited))
	require.Len(t, te.settlement.transfersOut, 1)
	assert.True(t, scaled(200).EQ(te.settlement.transfersOut[0]))

	// an active maker cannot drain below the registry minimum
	err = te.WithdrawCollateral(context.Background(), regID, "owner-1", scaled(701))
	assert.ErrorIs(t, err, types.ErrBelowMinimumCollateral)

	// down to exactly the minimum is fine
	assert.NoError(t, te.WithdrawCollateral(context.Background(), regID, "owner-1", scaled(700)))
}

func TestWithdrawMoreThanAvailable(t *testing.T) {
	te := newTestEngine(t)
	regID := te.createRegistry(t)
	te.registerMaker(t, regID, "owner-1")
	te.postQuote(t, regID, "owner-1")

	// 102 locked behind the quote, 898 available
	err := te.WithdrawCollateral(context.Background(), regID, "owner-1", scaled(899))
	assert.ErrorIs(t, err, types.ErrInsufficientAvailableCollateral)
}

func TestDeregister(t *testing.T) {
	te := newTestEngine(t)
	regID := te.createRegistry(t)
	te.registerMaker(t, regID, "owner-1")

	refund, err := te.Deregister(context.Background(), regID, "owner-1")
	require.NoError(t, err)
	assert.True(t, scaled(1000).EQ(refund))

	maker, err := te.GetMarketMaker(regID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, types.MakerStatusDeregistered, maker.Status)
	assert.True(t, maker.CollateralDeposited.IsZero())

	// terminal: no second deregistration, no further deposits
	_, err = te.Deregister(context.Background(), regID, "owner-1")
	assert.ErrorIs(t, err, types.ErrMarketMakerNotActive)
	err = te.DepositCollateral(context.Background(), regID, "owner-1", scaled(10))
	assert.ErrorIs(t, err, types.ErrMarketMakerNotActive)

	// the registration counter is monotonic, it survives deregistration
	reg, err := te.GetRegistry(regID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, reg.TotalMarketMakers)
}

func TestDeregisterBlockedByOpenPosition(t *testing.T) {
	te := newTestEngine(t)
	regID := te.createRegistry(t)
	te.registerMaker(t, regID, "owner-1")
	quoteID := te.postQuote(t, regID, "owner-1")

	// a resting quote blocks deregistration
	_, err := te.Deregister(context.Background(), regID, "owner-1")
	assert.ErrorIs(t, err, types.ErrActiveQuotesExist)

	// a fill leaves inventory behind, which blocks it too
	_, err = te.FillQuote(context.Background(), regID, quoteID, types.SideBid, scaled(2), nil)
	require.NoError(t, err)
	require.NoError(t, te.CancelQuote(context.Background(), regID, "owner-1", quoteID))

	_, err = te.Deregister(context.Background(), regID, "owner-1")
	assert.ErrorIs(t, err, types.ErrNonZeroInventory)
}

func TestSuspendAndReactivate(t *testing.T) {
	te := newTestEngine(t)
	regID := te.createRegistry(t)
	te.registerMaker(t, regID, "owner-1")

	require.NoError(t, te.SuspendMarketMaker(regID, "owner-1"))
	maker, err := te.GetMarketMaker(regID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, types.MakerStatusSuspended, maker.Status)

	// suspending twice is not a valid transition
	err = te.SuspendMarketMaker(regID, "owner-1")
	assert.ErrorIs(t, err, types.ErrInvalidStatusTransition)

	require.NoError(t, te.ReactivateMarketMaker(regID, "owner-1"))
	maker, err = te.GetMarketMaker(regID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, types.MakerStatusActive, maker.Status)
}
