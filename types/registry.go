package types

import (
	"code.lumenmarkets.io/liquidity/libs/num"
)

// Registry holds the market wide configuration and aggregate counters for
// one traded instrument. Counters are only ever mutated by lifecycle
// operations holding exclusive access to the affected maker, never by a
// background process.
type Registry struct {
	ID     string
	Market string

	// configuration, immutable after creation
	MinCollateral *num.Uint
	MaxSpreadBps  uint32
	MinQuoteSize  *num.Uint
	MaxQuoteSize  *num.Uint
	MakerFeeBps   uint32

	// aggregate counters
	TotalMarketMakers uint64
	TotalActiveQuotes uint64
	TotalVolume       *num.Uint
	TotalFees         *num.Uint

	// gates
	IsOpen           bool
	IsTradingEnabled bool
}

// RegistryParams is the configuration a new registry is created with.
type RegistryParams struct {
	Market        string
	MinCollateral *num.Uint
	MaxSpreadBps  uint32
	MinQuoteSize  *num.Uint
	MaxQuoteSize  *num.Uint
	MakerFeeBps   uint32
}

// NewRegistry creates an open, trading enabled registry with zeroed
// counters.
func NewRegistry(id string, params RegistryParams) *Registry {
	return &Registry{
		ID:               id,
		Market:           params.Market,
		MinCollateral:    params.MinCollateral.Clone(),
		MaxSpreadBps:     params.MaxSpreadBps,
		MinQuoteSize:     params.MinQuoteSize.Clone(),
		MaxQuoteSize:     params.MaxQuoteSize.Clone(),
		MakerFeeBps:      params.MakerFeeBps,
		TotalVolume:      num.UintZero(),
		TotalFees:        num.UintZero(),
		IsOpen:           true,
		IsTradingEnabled: true,
	}
}

// SizeInBounds reports whether a quote size is within the registry's
// configured [min, max] size band.
func (r *Registry) SizeInBounds(size *num.Uint) bool {
	return size.GTE(r.MinQuoteSize) && size.LTE(r.MaxQuoteSize)
}

// Snapshot returns a copy safe to hand out to readers.
func (r *Registry) Snapshot() *Registry {
	cpy := *r
	cpy.MinCollateral = r.MinCollateral.Clone()
	cpy.MinQuoteSize = r.MinQuoteSize.Clone()
	cpy.MaxQuoteSize = r.MaxQuoteSize.Clone()
	cpy.TotalVolume = r.TotalVolume.Clone()
	cpy.TotalFees = r.TotalFees.Clone()
	return &cpy
}
