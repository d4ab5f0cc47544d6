package oracle

import (
	"testing"

	"code.lumenmarkets.io/liquidity/libs/num"
	"code.lumenmarkets.io/liquidity/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkPrice(t *testing.T) {
	svc := NewService(logging.NewTestLogger())

	_, err := svc.MarkPrice("ETH-PERP")
	assert.ErrorIs(t, err, ErrNoPriceForMarket)

	svc.SetMarkPrice("ETH-PERP", num.NewUint(104_000_000))
	price, err := svc.MarkPrice("ETH-PERP")
	require.NoError(t, err)
	assert.EqualValues(t, 104_000_000, price.Uint64())

	// returned prices are copies
	price.Set(num.NewUint(1))
	again, err := svc.MarkPrice("ETH-PERP")
	require.NoError(t, err)
	assert.EqualValues(t, 104_000_000, again.Uint64())

	// later updates replace the price
	svc.SetMarkPrice("ETH-PERP", num.NewUint(99_000_000))
	updated, err := svc.MarkPrice("ETH-PERP")
	require.NoError(t, err)
	assert.EqualValues(t, 99_000_000, updated.Uint64())
}
