package api

import (
	"net/http"
	"strconv"
	"time"

	"code.lumenmarkets.io/liquidity/libs/num"
	"code.lumenmarkets.io/liquidity/registry"
	"code.lumenmarkets.io/liquidity/types"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
)

var (
	errMissingOwner = errors.New("missing owner field")
	errBadAmount    = errors.New("amount must be an unsigned integer string")
	errBadSide      = errors.New("side must be \"bid\" or \"ask\"")
)

type createRegistryRequest struct {
	Market        string `json:"market"`
	MinCollateral string `json:"minCollateral"`
	MaxSpreadBps  uint32 `json:"maxSpreadBps"`
	MinQuoteSize  string `json:"minQuoteSize"`
	MaxQuoteSize  string `json:"maxQuoteSize"`
	MakerFeeBps   uint32 `json:"makerFeeBps"`
}

func (s *Server) CreateRegistry(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := createRegistryRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	if len(req.Market) <= 0 {
		writeError(w, errors.New("missing market field"), http.StatusBadRequest)
		return
	}
	minCollateral, bad1 := num.UintFromString(req.MinCollateral, 10)
	minSize, bad2 := num.UintFromString(req.MinQuoteSize, 10)
	maxSize, bad3 := num.UintFromString(req.MaxQuoteSize, 10)
	if bad1 || bad2 || bad3 {
		writeError(w, errBadAmount, http.StatusBadRequest)
		return
	}

	id, err := s.engine.CreateRegistry(types.RegistryParams{
		Market:        req.Market,
		MinCollateral: minCollateral,
		MaxSpreadBps:  req.MaxSpreadBps,
		MinQuoteSize:  minSize,
		MaxQuoteSize:  maxSize,
		MakerFeeBps:   req.MakerFeeBps,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, map[string]string{"registryId": id}, http.StatusCreated)
}

func (s *Server) GetRegistry(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reg, err := s.engine.GetRegistry(ps.ByName("registry"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, registryJSON(reg), http.StatusOK)
}

func (s *Server) SetOpen(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	req := struct {
		Open bool `json:"open"`
	}{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	if err := s.engine.SetOpen(ps.ByName("registry"), req.Open); err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, map[string]bool{"open": req.Open}, http.StatusOK)
}

func (s *Server) SetTradingEnabled(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	req := struct {
		Enabled bool `json:"enabled"`
	}{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	if err := s.engine.SetTradingEnabled(ps.ByName("registry"), req.Enabled); err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, map[string]bool{"enabled": req.Enabled}, http.StatusOK)
}

type registerMakerRequest struct {
	Owner             string `json:"owner"`
	InitialCollateral string `json:"initialCollateral"`
}

func (s *Server) RegisterMarketMaker(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	req := registerMakerRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	if len(req.Owner) <= 0 {
		writeError(w, errMissingOwner, http.StatusBadRequest)
		return
	}
	collateral, bad := num.UintFromString(req.InitialCollateral, 10)
	if bad {
		writeError(w, errBadAmount, http.StatusBadRequest)
		return
	}

	id, err := s.engine.RegisterMarketMaker(r.Context(), ps.ByName("registry"), req.Owner, collateral)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, map[string]string{"makerId": id}, http.StatusCreated)
}

func (s *Server) GetMarketMaker(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	maker, err := s.engine.GetMarketMaker(ps.ByName("registry"), ps.ByName("owner"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, makerJSON(maker), http.StatusOK)
}

func (s *Server) GetMakerStats(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	stats, err := s.engine.GetMakerStats(ps.ByName("registry"), ps.ByName("owner"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, makerStatsJSON(stats), http.StatusOK)
}

type amountRequest struct {
	Amount string `json:"amount"`
}

func (s *Server) DepositCollateral(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	amount, ok := s.parseAmount(w, r)
	if !ok {
		return
	}
	if err := s.engine.DepositCollateral(r.Context(), ps.ByName("registry"), ps.ByName("owner"), amount); err != nil {
		writeDomainError(w, err)
		return
	}
	s.writeMaker(w, ps)
}

func (s *Server) WithdrawCollateral(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	amount, ok := s.parseAmount(w, r)
	if !ok {
		return
	}
	if err := s.engine.WithdrawCollateral(r.Context(), ps.ByName("registry"), ps.ByName("owner"), amount); err != nil {
		writeDomainError(w, err)
		return
	}
	s.writeMaker(w, ps)
}

func (s *Server) parseAmount(w http.ResponseWriter, r *http.Request) (*num.Uint, bool) {
	req := amountRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return nil, false
	}
	amount, bad := num.UintFromString(req.Amount, 10)
	if bad {
		writeError(w, errBadAmount, http.StatusBadRequest)
		return nil, false
	}
	return amount, true
}

func (s *Server) writeMaker(w http.ResponseWriter, ps httprouter.Params) {
	maker, err := s.engine.GetMarketMaker(ps.ByName("registry"), ps.ByName("owner"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, makerJSON(maker), http.StatusOK)
}

func (s *Server) Deregister(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	refund, err := s.engine.Deregister(r.Context(), ps.ByName("registry"), ps.ByName("owner"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, map[string]string{"refund": refund.String()}, http.StatusOK)
}

func (s *Server) SuspendMarketMaker(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := s.engine.SuspendMarketMaker(ps.ByName("registry"), ps.ByName("owner")); err != nil {
		writeDomainError(w, err)
		return
	}
	s.writeMaker(w, ps)
}

func (s *Server) ReactivateMarketMaker(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := s.engine.ReactivateMarketMaker(ps.ByName("registry"), ps.ByName("owner")); err != nil {
		writeDomainError(w, err)
		return
	}
	s.writeMaker(w, ps)
}

type postQuoteRequest struct {
	Owner            string `json:"owner"`
	BidPrice         string `json:"bidPrice"`
	BidSize          string `json:"bidSize"`
	AskPrice         string `json:"askPrice"`
	AskSize          string `json:"askSize"`
	MinFillSize      string `json:"minFillSize,omitempty"`
	ExpiresInSeconds int64  `json:"expiresInSeconds,omitempty"`
}

func (s *Server) PostQuote(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	req := postQuoteRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	if len(req.Owner) <= 0 {
		writeError(w, errMissingOwner, http.StatusBadRequest)
		return
	}
	bidPrice, bad1 := num.UintFromString(req.BidPrice, 10)
	bidSize, bad2 := num.UintFromString(req.BidSize, 10)
	askPrice, bad3 := num.UintFromString(req.AskPrice, 10)
	askSize, bad4 := num.UintFromString(req.AskSize, 10)
	if bad1 || bad2 || bad3 || bad4 {
		writeError(w, errBadAmount, http.StatusBadRequest)
		return
	}
	minFill := num.UintZero()
	if len(req.MinFillSize) > 0 {
		var bad bool
		if minFill, bad = num.UintFromString(req.MinFillSize, 10); bad {
			writeError(w, errBadAmount, http.StatusBadRequest)
			return
		}
	}

	id, err := s.engine.PostQuote(r.Context(), ps.ByName("registry"), req.Owner, registry.QuoteSubmission{
		BidPrice:    bidPrice,
		BidSize:     bidSize,
		AskPrice:    askPrice,
		AskSize:     askSize,
		MinFillSize: minFill,
		ExpiresIn:   time.Duration(req.ExpiresInSeconds) * time.Second,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, map[string]string{"quoteId": id}, http.StatusCreated)
}

type updateQuoteRequest struct {
	Owner    string  `json:"owner"`
	BidPrice *string `json:"bidPrice,omitempty"`
	BidSize  *string `json:"bidSize,omitempty"`
	AskPrice *string `json:"askPrice,omitempty"`
	AskSize  *string `json:"askSize,omitempty"`
}

func (s *Server) UpdateQuote(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	req := updateQuoteRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	if len(req.Owner) <= 0 {
		writeError(w, errMissingOwner, http.StatusBadRequest)
		return
	}

	amendment := registry.QuoteAmendment{}
	for _, f := range []struct {
		raw  *string
		into **num.Uint
	}{
		{req.BidPrice, &amendment.BidPrice},
		{req.BidSize, &amendment.BidSize},
		{req.AskPrice, &amendment.AskPrice},
		{req.AskSize, &amendment.AskSize},
	} {
		if f.raw == nil {
			continue
		}
		val, bad := num.UintFromString(*f.raw, 10)
		if bad {
			writeError(w, errBadAmount, http.StatusBadRequest)
			return
		}
		*f.into = val
	}

	err := s.engine.UpdateQuote(r.Context(), ps.ByName("registry"), req.Owner, ps.ByName("quote"), amendment)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	quote, err := s.engine.GetQuote(ps.ByName("registry"), req.Owner, ps.ByName("quote"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, quoteJSON(quote), http.StatusOK)
}

func (s *Server) CancelQuote(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	req := struct {
		Owner string `json:"owner"`
	}{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	if len(req.Owner) <= 0 {
		writeError(w, errMissingOwner, http.StatusBadRequest)
		return
	}
	if err := s.engine.CancelQuote(r.Context(), ps.ByName("registry"), req.Owner, ps.ByName("quote")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, map[string]string{"quoteId": ps.ByName("quote")}, http.StatusOK)
}

type fillQuoteRequest struct {
	Side       string `json:"side"`
	Size       string `json:"size"`
	PriceBound string `json:"priceBound,omitempty"`
}

func (s *Server) FillQuote(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	req := fillQuoteRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	side, err := parseSide(req.Side)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	size, bad := num.UintFromString(req.Size, 10)
	if bad {
		writeError(w, errBadAmount, http.StatusBadRequest)
		return
	}
	var priceBound *num.Uint
	if len(req.PriceBound) > 0 {
		if priceBound, bad = num.UintFromString(req.PriceBound, 10); bad {
			writeError(w, errBadAmount, http.StatusBadRequest)
			return
		}
	}

	result, err := s.engine.FillQuote(r.Context(), ps.ByName("registry"), ps.ByName("quote"), side, size, priceBound)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, fillResultJSON(result), http.StatusOK)
}

func (s *Server) ActiveQuotes(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	quotes, err := s.engine.ActiveQuotes(ps.ByName("registry"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]quoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, quoteJSON(q))
	}
	writeSuccess(w, out, http.StatusOK)
}

func (s *Server) BestQuotes(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	best, err := s.engine.BestQuotes(ps.ByName("registry"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := struct {
		BestBid *quoteResponse `json:"bestBid,omitempty"`
		BestAsk *quoteResponse `json:"bestAsk,omitempty"`
	}{}
	if best.BestBid != nil {
		q := quoteJSON(best.BestBid)
		resp.BestBid = &q
	}
	if best.BestAsk != nil {
		q := quoteJSON(best.BestAsk)
		resp.BestAsk = &q
	}
	writeSuccess(w, resp, http.StatusOK)
}

func (s *Server) AggregatedLiquidity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	levels := 0
	if raw := r.URL.Query().Get("levels"); len(raw) > 0 {
		var err error
		if levels, err = strconv.Atoi(raw); err != nil || levels < 0 {
			writeError(w, errors.New("levels must be a non-negative integer"), http.StatusBadRequest)
			return
		}
	}
	book, err := s.engine.AggregatedLiquidity(ps.ByName("registry"), levels)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, depthBookJSON(book), http.StatusOK)
}

func (s *Server) SetMarkPrice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	req := struct {
		Price string `json:"price"`
	}{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	price, bad := num.UintFromString(req.Price, 10)
	if bad || price.IsZero() {
		writeError(w, errBadAmount, http.StatusBadRequest)
		return
	}
	s.prices.SetMarkPrice(ps.ByName("market"), price)
	writeSuccess(w, map[string]string{"market": ps.ByName("market"), "price": price.String()}, http.StatusOK)
}

func parseSide(raw string) (types.Side, error) {
	switch raw {
	case "bid":
		return types.SideBid, nil
	case "ask":
		return types.SideAsk, nil
	default:
		return types.SideUnspecified, errBadSide
	}
}
