package registry

import (
	"context"

	"code.lumenmarkets.io/liquidity/libs/num"
	"code.lumenmarkets.io/liquidity/logging"
	"code.lumenmarkets.io/liquidity/metrics"
	"code.lumenmarkets.io/liquidity/types"

	uuid "github.com/satori/go.uuid"
)

// RegisterMarketMaker creates an active maker for the owner, funded with
// initialCollateral, and returns the maker ID. The transfer into custody
// is authorized before any state is committed, so a settlement failure
// leaves the registry untouched.
func (e *Engine) RegisterMarketMaker(ctx context.Context, registryID, owner string, initialCollateral *num.Uint) (string, error) {
	rs, err := e.getRegistry(registryID)
	if err != nil {
		return "", err
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.registry.IsOpen {
		return "", types.ErrRegistryClosed
	}
	if initialCollateral.LT(rs.registry.MinCollateral) {
		return "", types.ErrBelowMinimumCollateral
	}
	if _, ok := rs.makers[owner]; ok {
		return "", types.ErrMarketMakerAlreadyRegistered
	}

	if err := e.settlement.TransferIn(ctx, owner, initialCollateral); err != nil {
		return "", err
	}

	id := uuid.NewV4().String()
	rs.makers[owner] = &makerState{
		maker:  types.NewMarketMaker(id, owner, registryID, initialCollateral, e.now()),
		quotes: map[string]*types.Quote{},
	}

	rs.statsMu.Lock()
	rs.registry.TotalMarketMakers++
	rs.statsMu.Unlock()

	metrics.MakerRegistrations.Inc()
	e.log.Info("market maker registered",
		logging.MakerID(id),
		logging.Owner(owner),
		logging.String("collateral", initialCollateral.String()))
	return id, nil
}

// DepositCollateral adds amount to the maker's deposited collateral.
func (e *Engine) DepositCollateral(ctx context.Context, registryID, caller string, amount *num.Uint) error {
	if amount.IsZero() {
		return types.ErrInvalidAmount
	}

	_, ms, err := e.getMaker(registryID, caller)
	if err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.maker.Owner != caller {
		return types.ErrUnauthorized
	}
	if ms.maker.Status == types.MakerStatusDeregistered {
		return types.ErrMarketMakerNotActive
	}

	deposited, overflow := ms.maker.CollateralDeposited.AddOverflow(amount)
	if overflow {
		return types.ErrMathOverflow
	}

	if err := e.settlement.TransferIn(ctx, caller, amount); err != nil {
		return err
	}

	ms.maker.CollateralDeposited = deposited
	ms.maker.LastActiveAt = e.now()
	return nil
}

// WithdrawCollateral removes amount from the maker's deposited
// collateral. Only unlocked collateral can leave, and an active maker
// cannot withdraw below the registry minimum.
func (e *Engine) WithdrawCollateral(ctx context.Context, registryID, caller string, amount *num.Uint) error {
	if amount.IsZero() {
		return types.ErrInvalidAmount
	}

	rs, ms, err := e.getMaker(registryID, caller)
	if err != nil {
		return err
	}

	rs.mu.RLock()
	minCollateral := rs.registry.MinCollateral.Clone()
	rs.mu.RUnlock()

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.maker.Owner != caller {
		return types.ErrUnauthorized
	}
	if amount.GT(ms.maker.CollateralAvailable()) {
		return types.ErrInsufficientAvailableCollateral
	}

	deposited, _ := ms.maker.CollateralDeposited.SubOverflow(amount)
	if ms.maker.Status == types.MakerStatusActive && deposited.LT(minCollateral) {
		return types.ErrBelowMinimumCollateral
	}

	if err := e.settlement.TransferOut(ctx, caller, amount); err != nil {
		return err
	}

	ms.maker.CollateralDeposited = deposited
	ms.maker.LastActiveAt = e.now()
	return nil
}

// Deregister retires the maker and returns its remaining collateral. The
// maker must have no active quotes and a flat inventory, so everything
// deposited is available and refunded in full.
func (e *Engine) Deregister(ctx context.Context, registryID, caller string) (*num.Uint, error) {
	_, ms, err := e.getMaker(registryID, caller)
	if err != nil {
		return nil, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.maker.Owner != caller {
		return nil, types.ErrUnauthorized
	}
	if !ms.maker.Status.CanTransitionTo(types.MakerStatusDeregistered) {
		return nil, types.ErrMarketMakerNotActive
	}
	if ms.maker.ActiveQuotes > 0 {
		return nil, types.ErrActiveQuotesExist
	}
	if !ms.maker.Inventory.IsZero() {
		return nil, types.ErrNonZeroInventory
	}

	refund := ms.maker.CollateralAvailable()
	if !refund.IsZero() {
		if err := e.settlement.TransferOut(ctx, caller, refund); err != nil {
			return nil, err
		}
	}

	ms.maker.CollateralDeposited = num.UintZero()
	ms.maker.Status = types.MakerStatusDeregistered
	ms.maker.LastActiveAt = e.now()

	e.log.Info("market maker deregistered",
		logging.MakerID(ms.maker.ID),
		logging.Owner(caller),
		logging.String("refund", refund.String()))
	return refund, nil
}

// SuspendMarketMaker freezes a maker: no new or updated quotes, and its
// existing quotes stop being fillable. Administrative path.
func (e *Engine) SuspendMarketMaker(registryID, owner string) error {
	return e.transitionMaker(registryID, owner, types.MakerStatusSuspended)
}

// ReactivateMarketMaker lifts a suspension.
func (e *Engine) ReactivateMarketMaker(registryID, owner string) error {
	return e.transitionMaker(registryID, owner, types.MakerStatusActive)
}

func (e *Engine) transitionMaker(registryID, owner string, target types.MakerStatus) error {
	_, ms, err := e.getMaker(registryID, owner)
	if err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if !ms.maker.Status.CanTransitionTo(target) {
		return types.ErrInvalidStatusTransition
	}
	ms.maker.Status = target
	return nil
}

// GetMarketMaker returns a snapshot of the maker owned by owner.
func (e *Engine) GetMarketMaker(registryID, owner string) (*types.MarketMaker, error) {
	_, ms, err := e.getMaker(registryID, owner)
	if err != nil {
		return nil, err
	}
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.maker.Snapshot(), nil
}
