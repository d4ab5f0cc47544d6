package registry

import (
	"context"
	"sync"
	"time"

	"code.lumenmarkets.io/liquidity/libs/num"
	"code.lumenmarkets.io/liquidity/logging"
	"code.lumenmarkets.io/liquidity/types"

	uuid "github.com/satori/go.uuid"
)

// Settlement is the custody collaborator that actually moves value. The
// engine only computes amounts and authorizes transfers, it never holds
// funds itself.
type Settlement interface {
	// TransferIn moves amount from the owner into custody (deposits).
	TransferIn(ctx context.Context, owner string, amount *num.Uint) error
	// TransferOut moves amount from custody back to the owner
	// (withdrawals, deregistration).
	TransferOut(ctx context.Context, owner string, amount *num.Uint) error
	// SettleFill routes a fill's notional and fee between taker, maker
	// and protocol. Fee split policy lives entirely on the other side of
	// this interface.
	SettleFill(ctx context.Context, owner string, side types.Side, notional, fee *num.Uint) error
}

// TimeService supplies the engine's view of now. Quote expiry is
// evaluated lazily against it by every reader and writer.
type TimeService interface {
	GetTimeNow() time.Time
}

// PriceSource supplies a mark price per market, used only to value open
// inventory for display. Never authoritative for fills.
type PriceSource interface {
	MarkPrice(market string) (*num.Uint, error)
}

// makerState pairs a market maker with its quotes. The mutex serializes
// every operation touching this maker's collateral, inventory or quotes,
// which is exactly the per entity serializability the engine guarantees.
type makerState struct {
	mu     sync.RWMutex
	maker  *types.MarketMaker
	quotes map[string]*types.Quote
}

// registryState wraps a registry with its makers. mu guards the makers
// map and the registry configuration/gates. statsMu guards only the
// aggregate counters and is always taken last, so counter updates never
// serialize operations on unrelated makers.
type registryState struct {
	mu       sync.RWMutex
	registry *types.Registry
	makers   map[string]*makerState
	// quoteOwners maps quote ID to maker owner so takers can address a
	// fill by quote ID alone
	quoteOwners map[string]string

	statsMu sync.Mutex
}

func (rs *registryState) indexQuote(quoteID, owner string) {
	rs.mu.Lock()
	rs.quoteOwners[quoteID] = owner
	rs.mu.Unlock()
}

func (rs *registryState) unindexQuote(quoteID string) {
	rs.mu.Lock()
	delete(rs.quoteOwners, quoteID)
	rs.mu.Unlock()
}

func (rs *registryState) addActiveQuotes(delta int64) {
	rs.statsMu.Lock()
	defer rs.statsMu.Unlock()
	if delta < 0 && rs.registry.TotalActiveQuotes < uint64(-delta) {
		rs.registry.TotalActiveQuotes = 0
		return
	}
	rs.registry.TotalActiveQuotes = uint64(int64(rs.registry.TotalActiveQuotes) + delta)
}

func (rs *registryState) addVolumeAndFees(notional, fee *num.Uint) {
	rs.statsMu.Lock()
	defer rs.statsMu.Unlock()
	if v, overflow := rs.registry.TotalVolume.AddOverflow(notional); !overflow {
		rs.registry.TotalVolume = v
	}
	if f, overflow := rs.registry.TotalFees.AddOverflow(fee); !overflow {
		rs.registry.TotalFees = f
	}
}

// Engine owns every registry and runs the quote lifecycle, collateral
// accounting and fill matching with per maker serializability.
type Engine struct {
	log *logging.Logger

	cfgMu sync.Mutex
	cfg   Config

	timeSvc    TimeService
	settlement Settlement
	oracle     PriceSource

	mu         sync.RWMutex
	registries map[string]*registryState
}

// New instantiates the registry engine.
func New(log *logging.Logger, cfg Config, timeSvc TimeService, settlement Settlement, oracle PriceSource) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	return &Engine{
		log:        log,
		cfg:        cfg,
		timeSvc:    timeSvc,
		settlement: settlement,
		oracle:     oracle,
		registries: map[string]*registryState{},
	}
}

// ReloadConf updates the internal configuration of the engine.
func (e *Engine) ReloadConf(cfg Config) {
	e.log.Info("reloading configuration")
	if e.log.GetLevel() != cfg.Level.Get() {
		e.log.Info("updating log level",
			logging.String("old", e.log.GetLevel().String()),
			logging.String("new", cfg.Level.Get().String()),
		)
		e.log.SetLevel(cfg.Level.Get())
	}

	e.cfgMu.Lock()
	e.cfg = cfg
	e.cfgMu.Unlock()
}

// CreateRegistry creates a new registry for an instrument and returns its
// ID.
func (e *Engine) CreateRegistry(params types.RegistryParams) (string, error) {
	if params.MinQuoteSize.IsZero() || params.MinQuoteSize.GT(params.MaxQuoteSize) {
		return "", types.ErrSizeOutOfBounds
	}

	id := uuid.NewV4().String()
	rs := &registryState{
		registry:    types.NewRegistry(id, params),
		makers:      map[string]*makerState{},
		quoteOwners: map[string]string{},
	}

	e.mu.Lock()
	e.registries[id] = rs
	e.mu.Unlock()

	e.log.Info("registry created",
		logging.String("registry-id", id),
		logging.String("market", params.Market))
	return id, nil
}

// SetOpen gates new registrations.
func (e *Engine) SetOpen(registryID string, open bool) error {
	rs, err := e.getRegistry(registryID)
	if err != nil {
		return err
	}
	rs.mu.Lock()
	rs.registry.IsOpen = open
	rs.mu.Unlock()
	return nil
}

// SetTradingEnabled gates fills.
func (e *Engine) SetTradingEnabled(registryID string, enabled bool) error {
	rs, err := e.getRegistry(registryID)
	if err != nil {
		return err
	}
	rs.mu.Lock()
	rs.registry.IsTradingEnabled = enabled
	rs.mu.Unlock()
	return nil
}

// GetRegistry returns a snapshot of the registry state.
func (e *Engine) GetRegistry(registryID string) (*types.Registry, error) {
	rs, err := e.getRegistry(registryID)
	if err != nil {
		return nil, err
	}
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	rs.statsMu.Lock()
	defer rs.statsMu.Unlock()
	return rs.registry.Snapshot(), nil
}

func (e *Engine) getRegistry(registryID string) (*registryState, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	rs, ok := e.registries[registryID]
	if !ok {
		return nil, types.ErrRegistryNotFound
	}
	return rs, nil
}

// getMaker resolves the maker state for an owner within a registry.
func (e *Engine) getMaker(registryID, owner string) (*registryState, *makerState, error) {
	rs, err := e.getRegistry(registryID)
	if err != nil {
		return nil, nil, err
	}
	rs.mu.RLock()
	ms, ok := rs.makers[owner]
	rs.mu.RUnlock()
	if !ok {
		return nil, nil, types.ErrMarketMakerNotFound
	}
	return rs, ms, nil
}

func (e *Engine) now() time.Time {
	return e.timeSvc.GetTimeNow()
}
