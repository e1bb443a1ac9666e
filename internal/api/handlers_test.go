package api

import (
	"bytes"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"tradeRouter/internal/fixedpoint"
	"tradeRouter/internal/model"
)

var (
	tokenWeth = common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	tokenUsdc = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	marketEth = common.HexToAddress("0x1111111111111111111111111111111111111111")
)

func usd(amount int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(amount), fixedpoint.Exp10(fixedpoint.USDDecimals))
}

func testServer() *Server {
	pool := &model.Pool{
		MarketToken:               marketEth,
		IndexToken:                tokenWeth,
		LongToken:                 tokenWeth,
		ShortToken:                tokenUsdc,
		LongPoolAmount:            new(big.Int).Mul(big.NewInt(500), fixedpoint.Exp10(18)),
		ShortPoolAmount:           new(big.Int).Mul(big.NewInt(1_000_000), fixedpoint.Exp10(6)),
		PositionFeeFactorPositive: fixedpoint.BasisPointsToFactor(big.NewInt(5)),
		PositionFeeFactorNegative: fixedpoint.BasisPointsToFactor(big.NewInt(7)),
		SwapFeeFactorPositive:     fixedpoint.BasisPointsToFactor(big.NewInt(5)),
		SwapFeeFactorNegative:     fixedpoint.BasisPointsToFactor(big.NewInt(10)),
		SwapImpactFactorPositive:  new(big.Int),
		SwapImpactFactorNegative:  new(big.Int),
		SwapImpactExponent:        2,
		PositionImpactFactorPositive: new(big.Int),
		PositionImpactFactorNegative: new(big.Int),
		PositionImpactExponent:       2,
		PoolValueUsd:                 usd(2_000_000),
	}
	snap := &model.Snapshot{
		BlockNumber: 1234,
		Pools:       []*model.Pool{pool},
		Tokens: map[common.Address]model.Token{
			tokenWeth: {Address: tokenWeth, Decimals: 18, Symbol: "WETH"},
			tokenUsdc: {Address: tokenUsdc, Decimals: 6, Symbol: "USDC"},
		},
		Prices: map[common.Address]model.Price{
			tokenWeth: {Min: usd(2_000), Max: usd(2_000)},
			tokenUsdc: {Min: usd(1), Max: usd(1)},
		},
	}
	return NewServer(":0", NewSnapshotHolder(snap), 56, zap.NewNop())
}

func doRequest(t *testing.T, server *Server, method, path string, body interface{}) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	server.srv.Handler.ServeHTTP(recorder, req)

	var envelope Response
	if err := json.Unmarshal(recorder.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response %q: %v", recorder.Body.String(), err)
	}
	return recorder, envelope
}

func TestHandleHealth(t *testing.T) {
	server := testServer()
	recorder, envelope := doRequest(t, server, http.MethodGet, "/healthz", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status: got %d", recorder.Code)
	}
	data := envelope.Data.(map[string]interface{})
	if data["block_number"].(float64) != 1234 {
		t.Fatalf("block number: got %v", data["block_number"])
	}
}

func TestHandleMarkets(t *testing.T) {
	server := testServer()
	recorder, envelope := doRequest(t, server, http.MethodGet, "/api/v1/markets", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status: got %d", recorder.Code)
	}
	markets := envelope.Data.([]interface{})
	if len(markets) != 1 {
		t.Fatalf("markets: got %d, want 1", len(markets))
	}
	market := markets[0].(map[string]interface{})
	if market["market_token"] != marketEth.Hex() {
		t.Fatalf("market token: got %v", market["market_token"])
	}
}

func TestHandleSwapQuote(t *testing.T) {
	server := testServer()
	recorder, envelope := doRequest(t, server, http.MethodPost, "/api/v1/quote/swap", SwapQuoteRequest{
		TokenIn:  tokenUsdc.Hex(),
		TokenOut: tokenWeth.Hex(),
		UsdIn:    usd(1000).String(),
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", recorder.Code, recorder.Body.String())
	}
	data := envelope.Data.(map[string]interface{})
	if data["usd_out"] != usd(999).String() {
		t.Fatalf("usd out: got %v", data["usd_out"])
	}
	hops := data["hops"].([]interface{})
	if len(hops) != 1 {
		t.Fatalf("hops: got %d, want 1", len(hops))
	}
}

func TestHandleSwapQuoteRejections(t *testing.T) {
	server := testServer()

	recorder, _ := doRequest(t, server, http.MethodPost, "/api/v1/quote/swap", SwapQuoteRequest{
		TokenIn:  "nope",
		TokenOut: tokenWeth.Hex(),
		UsdIn:    "1000",
	})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("bad address status: got %d", recorder.Code)
	}

	// Unroutable pair maps to 404.
	recorder, _ = doRequest(t, server, http.MethodPost, "/api/v1/quote/swap", SwapQuoteRequest{
		TokenIn:  tokenUsdc.Hex(),
		TokenOut: "0xdddddddddddddddddddddddddddddddddddddddd",
		UsdIn:    usd(1000).String(),
	})
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("unroutable status: got %d", recorder.Code)
	}
}

func TestHandlePositionQuote(t *testing.T) {
	server := testServer()
	recorder, envelope := doRequest(t, server, http.MethodPost, "/api/v1/quote/position", PositionQuoteRequest{
		Market:       marketEth.Hex(),
		IsIncrease:   true,
		IsLong:       true,
		SizeDeltaUsd: usd(10_000).String(),
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", recorder.Code, recorder.Body.String())
	}
	data := envelope.Data.(map[string]interface{})
	if data["index_price"] != usd(2_000).String() {
		t.Fatalf("index price: got %v", data["index_price"])
	}
	if data["position_fee_usd"] != usd(7).String() {
		t.Fatalf("position fee: got %v", data["position_fee_usd"])
	}
}

func TestSnapshotHolderSwap(t *testing.T) {
	server := testServer()

	next := &model.Snapshot{BlockNumber: 9999}
	server.holder.Set(next)

	_, envelope := doRequest(t, server, http.MethodGet, "/healthz", nil)
	data := envelope.Data.(map[string]interface{})
	if data["block_number"].(float64) != 9999 {
		t.Fatalf("holder did not swap: got %v", data["block_number"])
	}
}
