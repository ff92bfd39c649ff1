package http

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	gohttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"

	"github.com/hxuan190/swap-engine/internal/aggregator"
	"github.com/hxuan190/swap-engine/internal/common"
	"github.com/hxuan190/swap-engine/internal/config"
	"github.com/hxuan190/swap-engine/internal/domain"
	"github.com/hxuan190/swap-engine/internal/http/middlewares"
)

var usdcMint = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

type stubNetwork struct{}

func (stubNetwork) GetLatestBlockhash(context.Context) (solana.Hash, error) {
	return solana.Hash{1}, nil
}

func (stubNetwork) SendTransaction(context.Context, *solana.Transaction) (solana.Signature, error) {
	return solana.Signature{}, errors.New("not wired")
}

func (stubNetwork) FetchPoolStates(_ context.Context, pools []domain.LiquidityPool) ([]domain.PoolState, error) {
	out := make([]domain.PoolState, len(pools))
	for i, p := range pools {
		out[i] = domain.PoolState{ID: p.ID, Status: 6, BaseReserve: big.NewInt(1000), QuoteReserve: big.NewInt(2000), LpSupply: big.NewInt(10)}
	}
	return out, nil
}

func (stubNetwork) GetBalance(context.Context, solana.PublicKey) (uint64, error) {
	return 1_000_000_000, nil
}

func (stubNetwork) GetOwnedTokenAccounts(context.Context, solana.PublicKey, solana.PublicKey) ([]domain.TokenAccount, error) {
	return nil, nil
}

func (stubNetwork) GetMintDecimals(context.Context, solana.PublicKey) (uint8, error) {
	return 0, errors.New("unknown mint")
}

type stubPricing struct{}

func (stubPricing) BestAmountOut(_ context.Context, req domain.PricingRequest) (*domain.PricingResult, error) {
	return &domain.PricingResult{
		AmountOut: big.NewInt(2_000_000),
		Route:     &domain.Route{Type: domain.RouteTypeAmm, Hops: []domain.RouteHop{{Pool: req.Pools[0], Venue: domain.VenueAmm}}},
	}, nil
}

type stubFeed struct {
	pools []domain.LiquidityPool
}

func (f stubFeed) FetchPools(context.Context) ([]domain.LiquidityPool, error) {
	return f.pools, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
	Error   string          `json:"error"`
}

const testAPIKey = "test-key"

func newTestRouter(t *testing.T, d aggregator.Deps, rate, burst int) *gin.Engine {
	t.Helper()
	return newKeyedRouter(t, d, rate, burst, testAPIKey)
}

func newKeyedRouter(t *testing.T, d aggregator.Deps, rate, burst int, apiKey string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	conf := &config.GeneralConfig{HTTPHost: "localhost", HTTPPort: "0", Env: "dev", RateLimit: rate, RateBurst: burst, APIKey: apiKey}
	return NewHTTPService(conf, aggregator.NewService(d)).Router()
}

func do(t *testing.T, r *gin.Engine, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	return doWithKey(t, r, method, target, body, testAPIKey)
}

func doWithKey(t *testing.T, r *gin.Engine, method, target, body, apiKey string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if apiKey != "" {
		req.Header.Set(middlewares.APIKeyHeader, apiKey)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(target, "/api/") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: bad body %q: %v", method, target, w.Body.String(), err)
		}
	}
	return w, env
}

func pools() []domain.LiquidityPool {
	return []domain.LiquidityPool{
		{ID: solana.NewWallet().PublicKey(), BaseMint: common.WSOLMint, QuoteMint: usdcMint, BaseDecimals: 9, QuoteDecimals: 6},
		{ID: solana.NewWallet().PublicKey(), BaseMint: common.RAYMint, QuoteMint: usdcMint, BaseDecimals: 6, QuoteDecimals: 6},
		{ID: solana.NewWallet().PublicKey(), BaseMint: solana.NewWallet().PublicKey(), QuoteMint: solana.NewWallet().PublicKey(), BaseDecimals: 6, QuoteDecimals: 6},
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, aggregator.Deps{}, 10, 10)
	w, _ := do(t, r, gohttp.MethodGet, "/health", "")
	if w.Code != gohttp.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}

func TestQuoteHandler(t *testing.T) {
	r := newTestRouter(t, aggregator.Deps{Network: stubNetwork{}, Pricing: stubPricing{}, Feed: stubFeed{pools: pools()}}, 100, 100)

	if w, env := do(t, r, gohttp.MethodPost, "/api/v1/admin/pools/refresh", ""); w.Code != gohttp.StatusOK || !env.Success {
		t.Fatalf("refresh: %d %s", w.Code, w.Body.String())
	}

	cases := []struct {
		name  string
		query string
		code  int
		state string
	}{
		{name: "ready", query: "inputMint=sol&outputMint=" + usdcMint.String() + "&amount=1.5", code: 200, state: "ready"},
		{name: "missing amount", query: "inputMint=sol&outputMint=" + usdcMint.String(), code: 200, state: "not_ready"},
		{name: "overflow", query: "inputMint=sol&outputMint=" + usdcMint.String() + "&amount=99999999999999999", code: 422},
		{name: "bad slippage", query: "inputMint=sol&outputMint=" + usdcMint.String() + "&amount=1&slippage=2", code: 200, state: "not_ready"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, env := do(t, r, gohttp.MethodGet, "/api/v1/quote?"+tc.query, "")
			if w.Code != tc.code {
				t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
			}
			if tc.state == "" {
				return
			}
			var q QuoteResponse
			if err := json.Unmarshal(env.Data, &q); err != nil {
				t.Fatal(err)
			}
			if q.State != tc.state {
				t.Errorf("state = %s (%s)", q.State, q.Reason)
			}
			if tc.state == "ready" && (q.AmountIn != "1500000000" || q.UIAmountOut != "2" || len(q.Route) != 1) {
				t.Errorf("quote = %+v", q)
			}
		})
	}
}

func TestPoolHandlers(t *testing.T) {
	ps := pools()
	r := newTestRouter(t, aggregator.Deps{Network: stubNetwork{}, Feed: stubFeed{pools: ps}}, 100, 100)
	if w, _ := do(t, r, gohttp.MethodPost, "/api/v1/admin/pools/refresh", ""); w.Code != gohttp.StatusOK {
		t.Fatalf("refresh: %d", w.Code)
	}

	w, env := do(t, r, gohttp.MethodGet, "/api/v1/pools/list?limit=2&page=2", "")
	var list PoolListResponse
	if err := json.Unmarshal(env.Data, &list); err != nil || w.Code != 200 {
		t.Fatalf("list: %d %v", w.Code, err)
	}
	if list.Total != 3 || list.Pages != 2 || len(list.Pools) != 1 || list.Pools[0].ID != ps[2].ID.String() {
		t.Errorf("list = %+v", list)
	}

	if w, _ := do(t, r, gohttp.MethodGet, "/api/v1/pools/"+ps[1].ID.String(), ""); w.Code != 200 {
		t.Errorf("get pool = %d", w.Code)
	}
	if w, _ := do(t, r, gohttp.MethodGet, "/api/v1/pools/"+solana.NewWallet().PublicKey().String(), ""); w.Code != 404 {
		t.Errorf("unknown pool = %d", w.Code)
	}
	if w, _ := do(t, r, gohttp.MethodGet, "/api/v1/pools/not-a-key", ""); w.Code != 400 {
		t.Errorf("bad pool key = %d", w.Code)
	}

	w, env = do(t, r, gohttp.MethodGet, "/api/v1/pools/candidates?inputMint=sol&outputMint="+usdcMint.String()+"&withState=true", "")
	var cand CandidatesResponse
	if err := json.Unmarshal(env.Data, &cand); err != nil || w.Code != 200 {
		t.Fatalf("candidates: %d %v", w.Code, err)
	}
	if len(cand.Pools) != 2 || len(cand.States) != 2 || cand.States[0].BaseReserve != "1000" {
		t.Errorf("candidates = %+v", cand)
	}

	if w, _ := do(t, r, gohttp.MethodGet, "/api/v1/pools/candidates?inputMint=sol", ""); w.Code != 400 {
		t.Errorf("missing mint = %d", w.Code)
	}
}

func TestSwapHandler(t *testing.T) {
	r := newTestRouter(t, aggregator.Deps{Network: stubNetwork{}, Pricing: stubPricing{}}, 100, 100)

	if w, _ := do(t, r, gohttp.MethodPost, "/api/v1/swap", `{"inputMint":"sol"}`); w.Code != 400 {
		t.Errorf("missing fields = %d", w.Code)
	}

	w, env := do(t, r, gohttp.MethodPost, "/api/v1/swap", `{"inputMint":"sol","outputMint":"`+usdcMint.String()+`","amount":"1"}`)
	if w.Code != gohttp.StatusServiceUnavailable || env.Success || env.Code != "SERVICE_UNAVAILABLE" {
		t.Errorf("no wallet: %d %+v", w.Code, env)
	}
}

func TestWalletHandler(t *testing.T) {
	r := newTestRouter(t, aggregator.Deps{Network: stubNetwork{}}, 100, 100)

	if w, _ := do(t, r, gohttp.MethodGet, "/api/v1/wallet/balance", ""); w.Code != 400 {
		t.Errorf("no owner and no wallet = %d", w.Code)
	}

	owner := solana.NewWallet().PublicKey()
	w, env := do(t, r, gohttp.MethodGet, "/api/v1/wallet/balance?owner="+owner.String(), "")
	var b struct {
		Lamports uint64 `json:"lamports"`
		SOL      string `json:"sol"`
	}
	if err := json.Unmarshal(env.Data, &b); err != nil || w.Code != 200 {
		t.Fatalf("balance: %d %v", w.Code, err)
	}
	if b.Lamports != 1_000_000_000 || b.SOL != "1" {
		t.Errorf("balance = %+v", b)
	}
}

func TestRateLimit(t *testing.T) {
	r := newTestRouter(t, aggregator.Deps{}, 1, 2)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w, _ := do(t, r, gohttp.MethodGet, "/api/v1/pools/stats", "")
		codes = append(codes, w.Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != gohttp.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}

	if w, _ := do(t, r, gohttp.MethodGet, "/health", ""); w.Code != 200 {
		t.Errorf("health must not be limited, got %d", w.Code)
	}
}

func TestAPIKey(t *testing.T) {
	d := aggregator.Deps{Network: stubNetwork{}, Pricing: stubPricing{}, Feed: stubFeed{pools: pools()}}
	swapBody := `{"inputMint":"sol","outputMint":"` + usdcMint.String() + `","amount":"1"}`

	cases := []struct {
		name       string
		configured string
		method     string
		target     string
		body       string
		key        string
		code       int
	}{
		{name: "refresh without key", configured: testAPIKey, method: gohttp.MethodPost, target: "/api/v1/admin/pools/refresh", code: gohttp.StatusUnauthorized},
		{name: "refresh wrong key", configured: testAPIKey, method: gohttp.MethodPost, target: "/api/v1/admin/pools/refresh", key: "nope", code: gohttp.StatusUnauthorized},
		{name: "refresh with key", configured: testAPIKey, method: gohttp.MethodPost, target: "/api/v1/admin/pools/refresh", key: testAPIKey, code: gohttp.StatusOK},
		{name: "swap without key", configured: testAPIKey, method: gohttp.MethodPost, target: "/api/v1/swap", body: swapBody, code: gohttp.StatusUnauthorized},
		{name: "swap wrong key", configured: testAPIKey, method: gohttp.MethodPost, target: "/api/v1/swap", body: swapBody, key: testAPIKey + "x", code: gohttp.StatusUnauthorized},
		{name: "swap with key reaches handler", configured: testAPIKey, method: gohttp.MethodPost, target: "/api/v1/swap", body: swapBody, key: testAPIKey, code: gohttp.StatusServiceUnavailable},
		{name: "public route without key", configured: testAPIKey, method: gohttp.MethodGet, target: "/api/v1/pools/stats", code: gohttp.StatusOK},
		{name: "no key configured disables admin", method: gohttp.MethodPost, target: "/api/v1/admin/pools/refresh", key: "anything", code: gohttp.StatusServiceUnavailable},
		{name: "no key configured disables swap", method: gohttp.MethodPost, target: "/api/v1/swap", body: swapBody, code: gohttp.StatusServiceUnavailable},
		{name: "no key configured keeps public", method: gohttp.MethodGet, target: "/api/v1/pools/stats", code: gohttp.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newKeyedRouter(t, d, 100, 100, tc.configured)
			w, env := doWithKey(t, r, tc.method, tc.target, tc.body, tc.key)
			if w.Code != tc.code {
				t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
			}
			if w.Code == gohttp.StatusUnauthorized && (env.Success || env.Code != "UNAUTHORIZED") {
				t.Errorf("envelope = %+v", env)
			}
		})
	}
}

func TestAdminRateLimit(t *testing.T) {
	r := newTestRouter(t, aggregator.Deps{Feed: stubFeed{pools: pools()}}, 1, 2)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w, _ := do(t, r, gohttp.MethodPost, "/api/v1/admin/pools/refresh", "")
		codes = append(codes, w.Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != gohttp.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}
}
