// Package oracle holds the mark price source fed by an external price
// collaborator. Prices are display inputs for unrealized PnL, the
// matching engine never trades off them.
package oracle

import (
	"errors"
	"sync"

	"code.lumenmarkets.io/liquidity/libs/num"
	"code.lumenmarkets.io/liquidity/logging"
)

var ErrNoPriceForMarket = errors.New("no mark price for market")

const namedLogger = "oracle"

// Service is an in memory mark price store, safe for concurrent use.
type Service struct {
	log *logging.Logger

	mu     sync.RWMutex
	prices map[string]*num.Uint
}

func NewService(log *logging.Logger) *Service {
	return &Service{
		log:    log.Named(namedLogger),
		prices: map[string]*num.Uint{},
	}
}

// SetMarkPrice records the latest mark price for a market.
func (s *Service) SetMarkPrice(market string, price *num.Uint) {
	s.mu.Lock()
	s.prices[market] = price.Clone()
	s.mu.Unlock()
}

// MarkPrice returns the latest mark price for a market.
func (s *Service) MarkPrice(market string) (*num.Uint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	price, ok := s.prices[market]
	if !ok {
		return nil, ErrNoPriceForMarket
	}
	return price.Clone(), nil
}
