// Package api exposes the registry engine over a JSON HTTP surface. It
// is a thin boundary: decode, call the engine, map domain errors to
// statuses. No business rule lives here.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"code.lumenmarkets.io/liquidity/logging"
	"code.lumenmarkets.io/liquidity/metrics"
	"code.lumenmarkets.io/liquidity/oracle"
	"code.lumenmarkets.io/liquidity/registry"
	"code.lumenmarkets.io/liquidity/types"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/rs/cors"
)

// Server serves the engine's operations over HTTP.
type Server struct {
	*httprouter.Router

	log    *logging.Logger
	cfgMu  sync.Mutex
	cfg    Config
	engine *registry.Engine
	prices *oracle.Service
	srv    *http.Server
}

// New creates the server and registers all routes.
func New(log *logging.Logger, cfg Config, engine *registry.Engine, prices *oracle.Service) *Server {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	s := &Server{
		Router: httprouter.New(),
		log:    log,
		cfg:    cfg,
		engine: engine,
		prices: prices,
	}

	s.POST("/api/v1/registries", s.CreateRegistry)
	s.GET("/api/v1/registries/:registry", s.GetRegistry)
	s.POST("/api/v1/registries/:registry/open", s.SetOpen)
	s.POST("/api/v1/registries/:registry/trading", s.SetTradingEnabled)

	s.POST("/api/v1/registries/:registry/makers", s.RegisterMarketMaker)
	s.GET("/api/v1/registries/:registry/makers/:owner", s.GetMarketMaker)
	s.GET("/api/v1/registries/:registry/makers/:owner/stats", s.GetMakerStats)
	s.POST("/api/v1/registries/:registry/makers/:owner/deposit", s.DepositCollateral)
	s.POST("/api/v1/registries/:registry/makers/:owner/withdraw", s.WithdrawCollateral)
	s.POST("/api/v1/registries/:registry/makers/:owner/deregister", s.Deregister)
	s.POST("/api/v1/registries/:registry/makers/:owner/suspend", s.SuspendMarketMaker)
	s.POST("/api/v1/registries/:registry/makers/:owner/reactivate", s.ReactivateMarketMaker)

	s.POST("/api/v1/registries/:registry/quotes", s.PostQuote)
	s.GET("/api/v1/registries/:registry/quotes", s.ActiveQuotes)
	s.PUT("/api/v1/registries/:registry/quotes/:quote", s.UpdateQuote)
	s.POST("/api/v1/registries/:registry/quotes/:quote/cancel", s.CancelQuote)
	s.POST("/api/v1/registries/:registry/quotes/:quote/fills", s.FillQuote)

	s.GET("/api/v1/registries/:registry/book", s.AggregatedLiquidity)
	s.GET("/api/v1/registries/:registry/book/best", s.BestQuotes)

	s.POST("/api/v1/markets/:market/price", s.SetMarkPrice)

	s.Handler("GET", "/metrics", metrics.Handler())

	return s
}

// ReloadConf updates the server's configuration.
func (s *Server) ReloadConf(cfg Config) {
	s.log.Info("reloading configuration")
	if s.log.GetLevel() != cfg.Level.Get() {
		s.log.Info("updating log level",
			logging.String("old", s.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()))
		s.log.SetLevel(cfg.Level.Get())
	}
	s.cfgMu.Lock()
	s.cfg = cfg
	s.cfgMu.Unlock()
}

// Start begins serving, blocking until Stop or a listener error.
func (s *Server) Start() error {
	s.cfgMu.Lock()
	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%v", s.cfg.IP, s.cfg.Port),
		Handler:      cors.AllowAll().Handler(s),
		ReadTimeout:  s.cfg.Timeout.Get(),
		WriteTimeout: s.cfg.Timeout.Get(),
	}
	s.cfgMu.Unlock()

	s.log.Info("starting registry api server", logging.String("address", s.srv.Addr))
	return s.srv.ListenAndServe()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(context.Background())
}

func unmarshalBody(r *http.Request, into interface{}) error {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return errors.Wrap(err, "unable to read request body")
	}
	if err := json.Unmarshal(body, into); err != nil {
		return errors.Wrap(err, "unable to decode request body")
	}
	return nil
}

func writeSuccess(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	buf, _ := json.Marshal(data)
	w.Write(buf)
}

func writeError(w http.ResponseWriter, err error, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	buf, _ := json.Marshal(httpError{ErrorStr: err.Error()})
	w.Write(buf)
}

// writeDomainError maps an engine error onto the HTTP status it deserves.
func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, err, statusForError(err))
}

func statusForError(err error) int {
	switch err {
	case types.ErrRegistryNotFound,
		types.ErrMarketMakerNotFound,
		types.ErrQuoteNotFound,
		oracle.ErrNoPriceForMarket:
		return http.StatusNotFound
	case types.ErrUnauthorized:
		return http.StatusForbidden
	case types.ErrInvalidAmount,
		types.ErrInvalidPrice,
		types.ErrSizeOutOfBounds,
		types.ErrSpreadTooWide:
		return http.StatusBadRequest
	case types.ErrRegistryClosed,
		types.ErrTradingDisabled,
		types.ErrMarketMakerNotActive,
		types.ErrMarketMakerAlreadyRegistered,
		types.ErrMaxQuotesReached,
		types.ErrQuoteNotActive,
		types.ErrQuoteNotFillable,
		types.ErrQuoteExpired,
		types.ErrActiveQuotesExist,
		types.ErrNonZeroInventory,
		types.ErrInvalidStatusTransition,
		types.ErrBelowMinimumCollateral,
		types.ErrInsufficientCollateral,
		types.ErrInsufficientAvailableCollateral,
		types.ErrFillSizeTooSmall,
		types.ErrSlippageExceeded:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type httpError struct {
	ErrorStr string `json:"error"`
}

func (e httpError) Error() string {
	return e.ErrorStr
}
