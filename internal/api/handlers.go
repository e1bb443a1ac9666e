package api

import (
	"errors"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tradeRouter/internal/model"
	"tradeRouter/internal/trade"
)

// Response is the common envelope for all endpoints.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: http.StatusOK, Message: "ok", Data: data})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, Response{Code: status, Message: msg})
}

func (s *Server) handleHealth(c *gin.Context) {
	snap := s.holder.Get()
	ok(c, gin.H{
		"block_number": snap.BlockNumber,
		"timestamp":    snap.Timestamp,
		"pools":        len(snap.Pools),
	})
}

// MarketInfo summarizes one pool for the listing endpoint.
type MarketInfo struct {
	MarketToken  string `json:"market_token"`
	IndexToken   string `json:"index_token"`
	LongToken    string `json:"long_token"`
	ShortToken   string `json:"short_token"`
	IsDisabled   bool   `json:"is_disabled"`
	IsSpotOnly   bool   `json:"is_spot_only"`
	LongAmount   string `json:"long_pool_amount"`
	ShortAmount  string `json:"short_pool_amount"`
	PoolValueUsd string `json:"pool_value_usd"`
}

func (s *Server) handleMarkets(c *gin.Context) {
	snap := s.holder.Get()
	markets := make([]MarketInfo, 0, len(snap.Pools))
	for _, pool := range snap.Pools {
		markets = append(markets, MarketInfo{
			MarketToken:  pool.MarketToken.Hex(),
			IndexToken:   pool.IndexToken.Hex(),
			LongToken:    pool.LongToken.Hex(),
			ShortToken:   pool.ShortToken.Hex(),
			IsDisabled:   pool.IsDisabled,
			IsSpotOnly:   pool.IsSpotOnly,
			LongAmount:   pool.LongPoolAmount.String(),
			ShortAmount:  pool.ShortPoolAmount.String(),
			PoolValueUsd: pool.PoolValueUsd.String(),
		})
	}
	ok(c, markets)
}

// SwapQuoteRequest asks for a routed swap quote. Amounts are decimal strings
// in USD at 30 decimals.
type SwapQuoteRequest struct {
	TokenIn         string `json:"token_in" binding:"required"`
	TokenOut        string `json:"token_out" binding:"required"`
	UsdIn           string `json:"usd_in" binding:"required"`
	UiFeeFactor     string `json:"ui_fee_factor,omitempty"`
	MaxHops         int    `json:"max_hops,omitempty"`
	PreferLiquidity bool   `json:"prefer_liquidity,omitempty"`
}

// SwapHop is one executed hop of a quoted route.
type SwapHop struct {
	Market         string `json:"market"`
	TokenIn        string `json:"token_in"`
	TokenOut       string `json:"token_out"`
	UsdIn          string `json:"usd_in"`
	UsdOut         string `json:"usd_out"`
	AmountOut      string `json:"amount_out"`
	SwapFeeUsd     string `json:"swap_fee_usd"`
	PriceImpactUsd string `json:"price_impact_usd"`
}

// SwapQuoteResponse is a priced route.
type SwapQuoteResponse struct {
	SwapPath       []string  `json:"swap_path"`
	Hops           []SwapHop `json:"hops"`
	UsdOut         string    `json:"usd_out"`
	AmountOut      string    `json:"amount_out"`
	TotalFeeUsd    string    `json:"total_fee_usd"`
	PriceImpactUsd string    `json:"price_impact_usd"`
	UiFeeUsd       string    `json:"ui_fee_usd"`
	BlockNumber    uint64    `json:"block_number"`
}

func (s *Server) handleSwapQuote(c *gin.Context) {
	var req SwapQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	tokenIn, err := parseHexAddress(req.TokenIn)
	if err != nil {
		fail(c, http.StatusBadRequest, "token_in: "+err.Error())
		return
	}
	tokenOut, err := parseHexAddress(req.TokenOut)
	if err != nil {
		fail(c, http.StatusBadRequest, "token_out: "+err.Error())
		return
	}
	usdIn, okParse := new(big.Int).SetString(req.UsdIn, 10)
	if !okParse || usdIn.Sign() <= 0 {
		fail(c, http.StatusBadRequest, "usd_in must be a positive decimal string")
		return
	}
	var uiFeeFactor *big.Int
	if req.UiFeeFactor != "" {
		uiFeeFactor, okParse = new(big.Int).SetString(req.UiFeeFactor, 10)
		if !okParse {
			fail(c, http.StatusBadRequest, "ui_fee_factor must be a decimal string")
			return
		}
	}

	snap := s.holder.Get()
	result, err := trade.QuoteSwap(snap, trade.SwapQuoteParams{
		TokenIn:         tokenIn,
		TokenOut:        tokenOut,
		UsdIn:           usdIn,
		UiFeeFactor:     uiFeeFactor,
		MaxHops:         req.MaxHops,
		PreferLiquidity: req.PreferLiquidity,
	})
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if result == nil {
		fail(c, http.StatusNotFound, "no route between token_in and token_out")
		return
	}

	ok(c, swapQuoteResponse(snap, result))
}

func swapQuoteResponse(snap *model.Snapshot, result *trade.SwapQuoteResult) SwapQuoteResponse {
	stats := result.PathStats
	path := make([]string, len(stats.SwapPath))
	for i, market := range stats.SwapPath {
		path[i] = market.Hex()
	}
	hops := make([]SwapHop, len(stats.SwapSteps))
	for i, step := range stats.SwapSteps {
		hops[i] = SwapHop{
			Market:         step.MarketAddress.Hex(),
			TokenIn:        step.TokenInAddress.Hex(),
			TokenOut:       step.TokenOutAddress.Hex(),
			UsdIn:          step.UsdIn.String(),
			UsdOut:         step.UsdOut.String(),
			AmountOut:      step.AmountOut.String(),
			SwapFeeUsd:     step.SwapFeeUsd.String(),
			PriceImpactUsd: step.PriceImpactDeltaUsd.String(),
		}
	}
	return SwapQuoteResponse{
		SwapPath:       path,
		Hops:           hops,
		UsdOut:         stats.UsdOut.String(),
		AmountOut:      stats.AmountOut.String(),
		TotalFeeUsd:    stats.TotalSwapFeeUsd.String(),
		PriceImpactUsd: stats.TotalPriceImpactUsd.String(),
		UiFeeUsd:       result.UiFeeUsd.String(),
		BlockNumber:    snap.BlockNumber,
	}
}

// PositionQuoteRequest asks for a position order quote.
type PositionQuoteRequest struct {
	Market               string `json:"market" binding:"required"`
	IsIncrease           bool   `json:"is_increase"`
	IsLong               bool   `json:"is_long"`
	SizeDeltaUsd         string `json:"size_delta_usd" binding:"required"`
	InitialCollateralUsd string `json:"initial_collateral_usd,omitempty"`
	CollateralToken      string `json:"collateral_token,omitempty"`

	ReferralCode      string `json:"referral_code,omitempty"`
	TotalRebateFactor string `json:"total_rebate_factor,omitempty"`
	DiscountFactor    string `json:"discount_factor,omitempty"`

	UiFeeFactor               string `json:"ui_fee_factor,omitempty"`
	MaxNegativePriceImpactBps string `json:"max_negative_price_impact_bps,omitempty"`
	BorrowFeeUsd              string `json:"borrow_fee_usd,omitempty"`
	FundingFeeUsd             string `json:"funding_fee_usd,omitempty"`
}

// PositionQuoteResponse is a priced position order.
type PositionQuoteResponse struct {
	IndexPrice              string `json:"index_price"`
	AcceptablePrice         string `json:"acceptable_price"`
	AcceptablePriceDeltaBps string `json:"acceptable_price_delta_bps"`
	PriceImpactUsd          string `json:"price_impact_usd"`
	PriceImpactDiffUsd      string `json:"price_impact_diff_usd"`
	PositionFeeUsd          string `json:"position_fee_usd"`
	DiscountUsd             string `json:"discount_usd"`
	TotalFeeUsd             string `json:"total_fee_usd"`
	PayTotalFeeUsd          string `json:"pay_total_fee_usd"`
	BlockNumber             uint64 `json:"block_number"`
}

func (s *Server) handlePositionQuote(c *gin.Context) {
	var req PositionQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	market, err := parseHexAddress(req.Market)
	if err != nil {
		fail(c, http.StatusBadRequest, "market: "+err.Error())
		return
	}
	sizeDeltaUsd, okParse := new(big.Int).SetString(req.SizeDeltaUsd, 10)
	if !okParse || sizeDeltaUsd.Sign() < 0 {
		fail(c, http.StatusBadRequest, "size_delta_usd must be a non-negative decimal string")
		return
	}

	params := trade.PositionQuoteParams{
		Market:       market,
		IsIncrease:   req.IsIncrease,
		IsLong:       req.IsLong,
		SizeDeltaUsd: sizeDeltaUsd,
	}
	if req.CollateralToken != "" {
		params.CollateralToken, err = parseHexAddress(req.CollateralToken)
		if err != nil {
			fail(c, http.StatusBadRequest, "collateral_token: "+err.Error())
			return
		}
	}

	fields := []struct {
		value string
		name  string
		dst   **big.Int
	}{
		{req.InitialCollateralUsd, "initial_collateral_usd", &params.InitialCollateralUsd},
		{req.UiFeeFactor, "ui_fee_factor", &params.UiFeeFactor},
		{req.MaxNegativePriceImpactBps, "max_negative_price_impact_bps", &params.MaxNegativePriceImpactBps},
		{req.BorrowFeeUsd, "borrow_fee_usd", &params.BorrowFeeUsd},
		{req.FundingFeeUsd, "funding_fee_usd", &params.FundingFeeUsd},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		parsed, okParse := new(big.Int).SetString(f.value, 10)
		if !okParse {
			fail(c, http.StatusBadRequest, f.name+" must be a decimal string")
			return
		}
		*f.dst = parsed
	}

	if req.TotalRebateFactor != "" || req.DiscountFactor != "" {
		referral := &model.ReferralInfo{Code: req.ReferralCode}
		if referral.TotalRebateFactor, err = parseBigField(req.TotalRebateFactor, "total_rebate_factor"); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		if referral.DiscountFactor, err = parseBigField(req.DiscountFactor, "discount_factor"); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		params.Referral = referral
	}

	snap := s.holder.Get()
	result, err := trade.QuotePosition(snap, params)
	if err != nil {
		s.logger.Debug("position quote rejected", zap.Error(err))
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	ok(c, PositionQuoteResponse{
		IndexPrice:              result.IndexPrice.String(),
		AcceptablePrice:         result.AcceptablePrice.AcceptablePrice.String(),
		AcceptablePriceDeltaBps: result.AcceptablePrice.AcceptablePriceDeltaBps.String(),
		PriceImpactUsd:          result.AcceptablePrice.PriceImpactDeltaUsd.String(),
		PriceImpactDiffUsd:      result.AcceptablePrice.PriceImpactDiffUsd.String(),
		PositionFeeUsd:          result.PositionFees.PositionFeeUsd.String(),
		DiscountUsd:             result.PositionFees.DiscountUsd.String(),
		TotalFeeUsd:             result.Fees.TotalFees.DeltaUsd.String(),
		PayTotalFeeUsd:          result.Fees.PayTotalFees.DeltaUsd.String(),
		BlockNumber:             snap.BlockNumber,
	})
}

var errInvalidAddress = errors.New("not a valid hex address")

type fieldError struct {
	name string
}

func (e *fieldError) Error() string {
	return e.name + " must be a decimal string"
}

func parseHexAddress(value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, errInvalidAddress
	}
	return common.HexToAddress(value), nil
}

func parseBigField(value, name string) (*big.Int, error) {
	if value == "" {
		return new(big.Int), nil
	}
	parsed, okParse := new(big.Int).SetString(value, 10)
	if !okParse {
		return nil, &fieldError{name: name}
	}
	return parsed, nil
}
