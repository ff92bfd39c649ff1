package blockchain

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	dto "github.com/prometheus/client_model/go"

	"github.com/hxuan190/swap-engine/internal/domain"
	"github.com/hxuan190/swap-engine/internal/metrics"
)

func skippedPools(t *testing.T) float64 {
	t.Helper()
	var m dto.Metric
	if err := metrics.PoolStatesSkipped.Write(&m); err != nil {
		t.Fatal(err)
	}
	return m.GetCounter().GetValue()
}

func tokenAccountData(mint, owner solana.PublicKey, amount uint64) []byte {
	data := make([]byte, 165)
	copy(data[0:32], mint[:])
	copy(data[32:64], owner[:])
	binary.LittleEndian.PutUint64(data[64:72], amount)
	data[108] = 1 // initialized
	return data
}

func mintData(supply uint64, decimals uint8) []byte {
	data := make([]byte, 82)
	binary.LittleEndian.PutUint64(data[36:44], supply)
	data[44] = decimals
	data[45] = 1
	return data
}

func ammData(status uint64) []byte {
	data := make([]byte, 752)
	binary.LittleEndian.PutUint64(data[0:8], status)
	return data
}

func account(data []byte) *rpc.Account {
	return &rpc.Account{Data: rpc.DataBytesOrJSONFromBytes(data)}
}

func TestDecodePoolStates(t *testing.T) {
	base := solana.NewWallet().PublicKey()
	quote := solana.NewWallet().PublicKey()
	vaultOwner := solana.NewWallet().PublicKey()

	good := domain.LiquidityPool{ID: solana.NewWallet().PublicKey(), BaseMint: base, QuoteMint: quote, BaseDecimals: 9, QuoteDecimals: 6}
	missing := domain.LiquidityPool{ID: solana.NewWallet().PublicKey(), BaseMint: base, QuoteMint: quote}

	accounts := []*rpc.Account{
		account(ammData(6)),
		account(tokenAccountData(base, vaultOwner, 5_000_000_000)),
		account(tokenAccountData(quote, vaultOwner, 750_000_000)),
		account(mintData(1_234_567, 9)),
		nil, nil, nil, nil,
	}

	before := skippedPools(t)
	states := DecodePoolStates([]domain.LiquidityPool{good, missing}, accounts)
	if len(states) != 1 {
		t.Fatalf("got %d states, want 1 (missing pool skipped)", len(states))
	}
	if got := skippedPools(t) - before; got != 1 {
		t.Errorf("skipped counter moved by %v, want 1", got)
	}
	s := states[0]
	if !s.ID.Equals(good.ID) || s.Status != 6 {
		t.Errorf("id/status = %s/%d", s.ID, s.Status)
	}
	if s.BaseReserve.Uint64() != 5_000_000_000 || s.QuoteReserve.Uint64() != 750_000_000 {
		t.Errorf("reserves = %s/%s", s.BaseReserve, s.QuoteReserve)
	}
	if s.LpSupply.Uint64() != 1_234_567 || s.LpDecimals != 9 {
		t.Errorf("lp = %s (%d decimals)", s.LpSupply, s.LpDecimals)
	}
	if s.BaseDecimals != 9 || s.QuoteDecimals != 6 {
		t.Errorf("decimals = %d/%d", s.BaseDecimals, s.QuoteDecimals)
	}
}

func jsonRPCServer(t *testing.T, result any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     any    `json:"id"`
			Method string `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		})
	}))
}

func TestGetBalance(t *testing.T) {
	server := jsonRPCServer(t, map[string]any{
		"context": map[string]any{"slot": 1},
		"value":   5000,
	})
	defer server.Close()

	n := NewNetwork(rpc.New(server.URL), nil)
	got, err := n.GetBalance(context.Background(), solana.NewWallet().PublicKey())
	if err != nil {
		t.Fatal(err)
	}
	if got != 5000 {
		t.Errorf("balance = %d, want 5000", got)
	}
}

type staticRecency struct{ hash solana.Hash }

func (s staticRecency) GetLatestBlockhash(context.Context) (solana.Hash, error) { return s.hash, nil }

func TestGetLatestBlockhashPrefersCache(t *testing.T) {
	want := solana.Hash{4, 2}
	n := NewNetwork(nil, staticRecency{hash: want})
	got, err := n.GetLatestBlockhash(context.Background())
	if err != nil || got != want {
		t.Errorf("got %s, %v", got, err)
	}
}

func TestFetchPoolStatesEmpty(t *testing.T) {
	states, err := NewNetwork(nil, nil).FetchPoolStates(context.Background(), nil)
	if err != nil || states == nil || len(states) != 0 {
		t.Errorf("got %v, %v", states, err)
	}
}
