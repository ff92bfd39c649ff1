package pricing

import (
	"context"
	"encoding/base64"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/swap-engine/internal/common"
	"github.com/hxuan190/swap-engine/internal/domain"
)

func testPool(base, quote solana.PublicKey) domain.LiquidityPool {
	return domain.LiquidityPool{
		ID:        solana.NewWallet().PublicKey(),
		BaseMint:  base,
		QuoteMint: quote,
		ProgramID: common.RaydiumAmmProgramID,
	}
}

func TestBestAmountOut(t *testing.T) {
	usdc := solana.NewWallet().PublicKey()
	first := testPool(common.WSOLMint, common.RAYMint)
	second := testPool(common.RAYMint, usdc)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != computePath {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var req computeRequest
		if err := sonic.Unmarshal(body, &req); err != nil {
			t.Fatalf("bad request: %v", err)
		}
		if !req.InputMint.Equals(common.WSOLMint) || req.AmountIn != "1000000000" || req.InputDecimals != 9 {
			t.Errorf("unexpected request %+v", req)
		}
		if len(req.PoolStates) != 1 || req.PoolStates[0].BaseReserve != "77" {
			t.Errorf("pool states not forwarded: %+v", req.PoolStates)
		}
		resp := computeResponse{
			AmountOut:      "24000000",
			MinAmountOut:   "23880000",
			ExecutionPrice: "24",
			PriceImpactBps: 12,
			Fees:           []string{"2500000", "10000"},
			Route: []routeHopPayload{
				{PoolID: first.ID, Venue: domain.VenueAmm},
				{PoolID: second.ID, Venue: domain.VenueSerum},
			},
		}
		out, _ := sonic.Marshal(resp)
		_, _ = w.Write(out)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	client.Http = server.Client()

	res, err := client.BestAmountOut(context.Background(), domain.PricingRequest{
		Input:       domain.NativeSOL(),
		Output:      domain.Spl(domain.AssetDescriptor{Mint: usdc, Decimals: 6}),
		AmountIn:    big.NewInt(1_000_000_000),
		SlippageBps: 50,
		Pools:       []domain.LiquidityPool{first, second},
		States:      []domain.PoolState{{ID: first.ID, BaseReserve: big.NewInt(77)}},
	})
	if err != nil {
		t.Fatalf("BestAmountOut returned error: %v", err)
	}
	if res.AmountOut.Int64() != 24_000_000 || res.MinAmountOut.Int64() != 23_880_000 {
		t.Errorf("amounts = %s/%s", res.AmountOut, res.MinAmountOut)
	}
	if res.Route == nil || res.Route.Type != domain.RouteTypeRoute || len(res.Route.Hops) != 2 {
		t.Fatalf("route = %+v", res.Route)
	}
	if !res.Route.Hops[1].Pool.ID.Equals(second.ID) || res.Route.Hops[1].Venue != domain.VenueSerum {
		t.Errorf("second hop = %+v", res.Route.Hops[1])
	}
	if len(res.Fees) != 2 {
		t.Errorf("fees = %v", res.Fees)
	}
}

func TestBestAmountOutUnknownPool(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		out, _ := sonic.Marshal(computeResponse{
			AmountOut: "1",
			Route:     []routeHopPayload{{PoolID: solana.NewWallet().PublicKey()}},
		})
		_, _ = w.Write(out)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	if _, err := client.BestAmountOut(context.Background(), domain.PricingRequest{AmountIn: big.NewInt(1)}); err == nil {
		t.Fatal("expected error for a route through an unknown pool")
	}
}

func TestResolveRouteVenue(t *testing.T) {
	stable := testPool(common.WSOLMint, common.RAYMint)
	stable.ProgramID = common.RaydiumStableProgramID
	amm := testPool(common.WSOLMint, common.RAYMint)
	other := testPool(common.WSOLMint, common.RAYMint)
	other.ProgramID = solana.NewWallet().PublicKey()
	pools := []domain.LiquidityPool{stable, amm, other}

	tests := []struct {
		name string
		hop  routeHopPayload
		want domain.VenueKind
	}{
		{name: "tagged hop kept", hop: routeHopPayload{PoolID: amm.ID, Venue: domain.VenueSerum}, want: domain.VenueSerum},
		{name: "amm program", hop: routeHopPayload{PoolID: amm.ID}, want: domain.VenueAmm},
		{name: "stable program", hop: routeHopPayload{PoolID: stable.ID}, want: domain.VenueStable},
		{name: "unknown program", hop: routeHopPayload{PoolID: other.ID}, want: domain.VenueAmm},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route, err := resolveRoute("", []routeHopPayload{tt.hop}, pools)
			if err != nil {
				t.Fatal(err)
			}
			if got := route.Hops[0].Venue; got != tt.want {
				t.Errorf("venue = %s, want %s", got, tt.want)
			}
			if route.Type != domain.RouteTypeAmm {
				t.Errorf("type = %s, want %s", route.Type, domain.RouteTypeAmm)
			}
		})
	}
}

func encodedTx(t *testing.T, payer solana.PublicKey, tag byte) string {
	t.Helper()
	tx, err := solana.NewTransaction([]solana.Instruction{
		solana.NewInstruction(common.RaydiumAmmProgramID, solana.AccountMetaSlice{solana.Meta(payer).SIGNER().WRITE()}, []byte{tag}),
	}, solana.Hash{}, solana.TransactionPayer(payer))
	if err != nil {
		t.Fatal(err)
	}
	raw, err := tx.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	return base64.StdEncoding.EncodeToString(raw)
}

func TestMakeTradeTransaction(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	cosigner := solana.NewWallet().PrivateKey
	pool := testPool(common.WSOLMint, common.RAYMint)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != tradePath {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var req tradeRequest
		if err := sonic.Unmarshal(body, &req); err != nil {
			t.Fatalf("bad request: %v", err)
		}
		if !req.InputNative || req.FixedSide != "in" || len(req.Route) != 1 || len(req.TokenAccounts) != 1 {
			t.Errorf("unexpected request %+v", req)
		}
		out, _ := sonic.Marshal(tradeResponse{
			Setup: &transactionPayload{Transaction: encodedTx(t, owner, 1), Signers: []string{cosigner.String()}},
			Trade: &transactionPayload{Transaction: encodedTx(t, owner, 2)},
		})
		_, _ = w.Write(out)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	units, err := client.MakeTradeTransaction(context.Background(), domain.TradeRequest{
		Owner:         owner,
		Input:         domain.NativeSOL(),
		Output:        domain.Spl(domain.AssetDescriptor{Mint: common.RAYMint, Decimals: 6}),
		AmountIn:      big.NewInt(10),
		MinAmountOut:  big.NewInt(9),
		Route:         domain.Route{Type: domain.RouteTypeAmm, Hops: []domain.RouteHop{{Pool: pool, Venue: domain.VenueAmm}}},
		TokenAccounts: []domain.TokenAccount{{Pubkey: solana.NewWallet().PublicKey(), Mint: common.RAYMint, Amount: 5}},
	})
	if err != nil {
		t.Fatalf("MakeTradeTransaction returned error: %v", err)
	}
	if len(units) != 2 || units[0].Label != domain.UnitSetup || units[1].Label != domain.UnitTrade {
		t.Fatalf("units = %+v", units)
	}
	if len(units[0].Signers) != 1 || !units[0].Signers[0].PublicKey().Equals(cosigner.PublicKey()) {
		t.Error("setup co-signer not decoded")
	}
	if units[1].Tx.Message.Instructions[0].Data[0] != 2 {
		t.Error("trade transaction decoded out of order")
	}
	if units[1].HasCheckpoint() {
		t.Error("builder transactions should arrive without a blockhash")
	}
}

func TestMakeTradeTransactionServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no route", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	if _, err := client.MakeTradeTransaction(context.Background(), domain.TradeRequest{}); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}
