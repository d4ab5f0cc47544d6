package api

import (
	"time"

	"code.lumenmarkets.io/liquidity/registry"
	"code.lumenmarkets.io/liquidity/types"
)

// Wire representations. Fixed point quantities travel as base 10 strings
// so clients never lose precision to float decoding.

type registryResponse struct {
	ID                string `json:"id"`
	Market            string `json:"market"`
	MinCollateral     string `json:"minCollateral"`
	MaxSpreadBps      uint32 `json:"maxSpreadBps"`
	MinQuoteSize      string `json:"minQuoteSize"`
	MaxQuoteSize      string `json:"maxQuoteSize"`
	MakerFeeBps       uint32 `json:"makerFeeBps"`
	TotalMarketMakers uint64 `json:"totalMarketMakers"`
	TotalActiveQuotes uint64 `json:"totalActiveQuotes"`
	TotalVolume       string `json:"totalVolume"`
	TotalFees         string `json:"totalFees"`
	IsOpen            bool   `json:"isOpen"`
	IsTradingEnabled  bool   `json:"isTradingEnabled"`
}

func registryJSON(reg *types.Registry) registryResponse {
	return registryResponse{
		ID:                reg.ID,
		Market:            reg.Market,
		MinCollateral:     reg.MinCollateral.String(),
		MaxSpreadBps:      reg.MaxSpreadBps,
		MinQuoteSize:      reg.MinQuoteSize.String(),
		MaxQuoteSize:      reg.MaxQuoteSize.String(),
		MakerFeeBps:       reg.MakerFeeBps,
		TotalMarketMakers: reg.TotalMarketMakers,
		TotalActiveQuotes: reg.TotalActiveQuotes,
		TotalVolume:       reg.TotalVolume.String(),
		TotalFees:         reg.TotalFees.String(),
		IsOpen:            reg.IsOpen,
		IsTradingEnabled:  reg.IsTradingEnabled,
	}
}

type makerResponse struct {
	ID                  string    `json:"id"`
	Owner               string    `json:"owner"`
	Registry            string    `json:"registry"`
	CollateralDeposited string    `json:"collateralDeposited"`
	CollateralLocked    string    `json:"collateralLocked"`
	CollateralAvailable string    `json:"collateralAvailable"`
	Inventory           string    `json:"inventory"`
	AverageEntryPrice   string    `json:"averageEntryPrice"`
	RealizedPnl         string    `json:"realizedPnl"`
	TotalVolume         string    `json:"totalVolume"`
	TotalFills          uint64    `json:"totalFills"`
	TotalFees           string    `json:"totalFees"`
	RegisteredAt        time.Time `json:"registeredAt"`
	LastActiveAt        time.Time `json:"lastActiveAt"`
	ActiveQuotes        uint32    `json:"activeQuotes"`
	MaxQuotes           uint32    `json:"maxQuotes"`
	Status              string    `json:"status"`
}

func makerJSON(m *types.MarketMaker) makerResponse {
	return makerResponse{
		ID:                  m.ID,
		Owner:               m.Owner,
		Registry:            m.Registry,
		CollateralDeposited: m.CollateralDeposited.String(),
		CollateralLocked:    m.CollateralLocked.String(),
		CollateralAvailable: m.CollateralAvailable().String(),
		Inventory:           m.Inventory.String(),
		AverageEntryPrice:   m.AverageEntryPrice.String(),
		RealizedPnl:         m.RealizedPnl.String(),
		TotalVolume:         m.TotalVolume.String(),
		TotalFills:          m.TotalFills,
		TotalFees:           m.TotalFees.String(),
		RegisteredAt:        m.RegisteredAt,
		LastActiveAt:        m.LastActiveAt,
		ActiveQuotes:        m.ActiveQuotes,
		MaxQuotes:           m.MaxQuotes,
		Status:              m.Status.String(),
	}
}

type makerStatsResponse struct {
	Maker         makerResponse `json:"maker"`
	MarkPrice     string        `json:"markPrice"`
	UnrealizedPnl string        `json:"unrealizedPnl"`
}

func makerStatsJSON(stats *registry.MakerStats) makerStatsResponse {
	return makerStatsResponse{
		Maker:         makerJSON(stats.Maker),
		MarkPrice:     stats.MarkPrice.String(),
		UnrealizedPnl: stats.UnrealizedPnl.String(),
	}
}

type quoteResponse struct {
	ID               string     `json:"id"`
	MarketMaker      string     `json:"marketMaker"`
	Registry         string     `json:"registry"`
	BidPrice         string     `json:"bidPrice"`
	BidSize          string     `json:"bidSize"`
	BidRemaining     string     `json:"bidRemaining"`
	AskPrice         string     `json:"askPrice"`
	AskSize          string     `json:"askSize"`
	AskRemaining     string     `json:"askRemaining"`
	MinFillSize      string     `json:"minFillSize"`
	CollateralLocked string     `json:"collateralLocked"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"`
	IsActive         bool       `json:"isActive"`
}

func quoteJSON(q *types.Quote) quoteResponse {
	resp := quoteResponse{
		ID:               q.ID,
		MarketMaker:      q.MarketMaker,
		Registry:         q.Registry,
		BidPrice:         q.BidPrice.String(),
		BidSize:          q.BidSize.String(),
		BidRemaining:     q.BidRemaining.String(),
		AskPrice:         q.AskPrice.String(),
		AskSize:          q.AskSize.String(),
		AskRemaining:     q.AskRemaining.String(),
		MinFillSize:      q.MinFillSize.String(),
		CollateralLocked: q.CollateralLocked.String(),
		CreatedAt:        q.CreatedAt,
		UpdatedAt:        q.UpdatedAt,
		IsActive:         q.IsActive,
	}
	if !q.ExpiresAt.IsZero() {
		expires := q.ExpiresAt
		resp.ExpiresAt = &expires
	}
	return resp
}

type fillResultResponse struct {
	FillPrice  string `json:"fillPrice"`
	FillAmount string `json:"fillAmount"`
	Notional   string `json:"notional"`
	Fee        string `json:"fee"`
}

func fillResultJSON(result *registry.FillResult) fillResultResponse {
	return fillResultResponse{
		FillPrice:  result.FillPrice.String(),
		FillAmount: result.FillAmount.String(),
		Notional:   result.Notional.String(),
		Fee:        result.Fee.String(),
	}
}

type priceLevelResponse struct {
	Price      string `json:"price"`
	TotalSize  string `json:"totalSize"`
	QuoteCount uint64 `json:"quoteCount"`
}

type depthBookResponse struct {
	Bids []priceLevelResponse `json:"bids"`
	Asks []priceLevelResponse `json:"asks"`
}

func depthBookJSON(book *registry.DepthBook) depthBookResponse {
	resp := depthBookResponse{
		Bids: make([]priceLevelResponse, 0, len(book.Bids)),
		Asks: make([]priceLevelResponse, 0, len(book.Asks)),
	}
	for _, lvl := range book.Bids {
		resp.Bids = append(resp.Bids, priceLevelJSON(lvl))
	}
	for _, lvl := range book.Asks {
		resp.Asks = append(resp.Asks, priceLevelJSON(lvl))
	}
	return resp
}

func priceLevelJSON(lvl registry.PriceLevel) priceLevelResponse {
	return priceLevelResponse{
		Price:      lvl.Price.String(),
		TotalSize:  lvl.TotalSize.String(),
		QuoteCount: lvl.QuoteCount,
	}
}
