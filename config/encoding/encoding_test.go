package encoding

import (
	"testing"
	"time"

	"code.lumenmarkets.io/liquidity/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationRoundTrip(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("5s")))
	assert.Equal(t, 5*time.Second, d.Get())

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "5s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("not a duration")))
}

func TestLogLevelRoundTrip(t *testing.T) {
	var l LogLevel
	require.NoError(t, l.UnmarshalText([]byte("Debug")))
	assert.Equal(t, logging.DebugLevel, l.Get())

	text, err := l.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "debug", string(text))

	assert.Error(t, l.UnmarshalText([]byte("Verbose")))
}
