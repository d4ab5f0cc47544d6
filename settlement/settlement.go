// Package settlement is the boundary to the custody collaborator that
// actually moves value. The engine computes amounts and calls through
// this package to authorize them, nothing here holds funds.
package settlement

import (
	"context"

	"code.lumenmarkets.io/liquidity/libs/num"
	"code.lumenmarkets.io/liquidity/logging"
	"code.lumenmarkets.io/liquidity/types"
)

const namedLogger = "settlement"

// Engine authorizes transfers against the external ledger. This
// implementation records intent in the log only, the ledger integration
// lives on the other side of the deployment boundary.
type Engine struct {
	log *logging.Logger
}

func New(log *logging.Logger) *Engine {
	return &Engine{log: log.Named(namedLogger)}
}

// TransferIn authorizes moving amount from the owner into custody.
func (e *Engine) TransferIn(ctx context.Context, owner string, amount *num.Uint) error {
	e.log.Info("transfer in authorized",
		logging.Owner(owner),
		logging.String("amount", amount.String()))
	return nil
}

// TransferOut authorizes moving amount from custody back to the owner.
func (e *Engine) TransferOut(ctx context.Context, owner string, amount *num.Uint) error {
	e.log.Info("transfer out authorized",
		logging.Owner(owner),
		logging.String("amount", amount.String()))
	return nil
}

// SettleFill authorizes routing a fill's notional and fee. Fee split
// between maker and protocol is ledger policy, not decided here.
func (e *Engine) SettleFill(ctx context.Context, owner string, side types.Side, notional, fee *num.Uint) error {
	e.log.Info("fill settlement authorized",
		logging.Owner(owner),
		logging.String("side", side.String()),
		logging.String("notional", notional.String()),
		logging.String("fee", fee.String()))
	return nil
}
