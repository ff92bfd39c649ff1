package router

import (
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/swap-engine/internal/common"
	"github.com/hxuan190/swap-engine/internal/domain"
)

func newPool(base, quote solana.PublicKey) domain.LiquidityPool {
	return domain.LiquidityPool{
		ID:        solana.NewWallet().PublicKey(),
		BaseMint:  base,
		QuoteMint: quote,
	}
}

func splAsset(mint solana.PublicKey) domain.Asset {
	return domain.Spl(domain.AssetDescriptor{Mint: mint, Decimals: 6})
}

func TestFindCandidatePools(t *testing.T) {
	b1 := solana.NewWallet().PublicKey()
	b2 := solana.NewWallet().PublicKey()
	x := solana.NewWallet().PublicKey()
	y := solana.NewWallet().PublicKey()
	z := solana.NewWallet().PublicKey()

	bridgeBridge := newPool(b1, b2)
	bridgeX := newPool(b1, x)
	xy := newPool(x, y)
	bridgeZ := newPool(b1, z)
	yBridge := newPool(y, b2)

	pools := []domain.LiquidityPool{bridgeBridge, bridgeX, xy, bridgeZ, yBridge}
	got := FindCandidatePools(splAsset(x), splAsset(y), []solana.PublicKey{b1, b2}, pools)

	want := []solana.PublicKey{bridgeX.ID, xy.ID, yBridge.ID}
	if len(got) != len(want) {
		t.Fatalf("got %d pools, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].ID.Equals(want[i]) {
			t.Errorf("pool %d = %s, want %s (order must follow input)", i, got[i].ID, want[i])
		}
	}
}

func TestFindCandidatePoolsBridgeAsEndpoint(t *testing.T) {
	b1 := solana.NewWallet().PublicKey()
	b2 := solana.NewWallet().PublicKey()
	x := solana.NewWallet().PublicKey()

	// b1 is the source, so a b1/b2 pool touches an endpoint and stays.
	pools := []domain.LiquidityPool{newPool(b1, b2), newPool(b2, x)}
	got := FindCandidatePools(splAsset(b1), splAsset(x), []solana.PublicKey{b1, b2}, pools)
	if len(got) != 2 {
		t.Fatalf("got %d pools, want 2", len(got))
	}
}

func TestFindCandidatePoolsUnresolved(t *testing.T) {
	x := solana.NewWallet().PublicKey()
	pools := []domain.LiquidityPool{newPool(x, common.WSOLMint)}

	for name, pair := range map[string][2]domain.Asset{
		"no source": {{}, splAsset(x)},
		"no dest":   {splAsset(x), {}},
		"neither":   {{}, {}},
	} {
		t.Run(name, func(t *testing.T) {
			got := FindCandidatePools(pair[0], pair[1], common.DefaultBridgeMints[:], pools)
			if got == nil || len(got) != 0 {
				t.Errorf("got %v, want empty non-nil list", got)
			}
		})
	}
}

func TestFindCandidatePoolsNativeAlias(t *testing.T) {
	x := solana.NewWallet().PublicKey()
	wsolX := newPool(common.WSOLMint, x)

	r := NewResolver(nil, nil)
	for _, target := range []domain.CollapseTarget{domain.CollapseNative, domain.CollapseWrapped} {
		sol := domain.NativeAlias(domain.NativeSOL().Descriptor, target)
		got := r.FindCandidatePools(sol, splAsset(x), []domain.LiquidityPool{wsolX})
		if len(got) != 1 {
			t.Errorf("collapse %s: got %d pools, want 1", target, len(got))
		}
	}
}

func TestNewResolverDefaultsBridges(t *testing.T) {
	r := NewResolver(nil, nil)
	bridges := r.Bridges()
	if len(bridges) != 2 || !bridges[0].Equals(common.RAYMint) || !bridges[1].Equals(common.WSOLMint) {
		t.Errorf("bridges = %v, want [RAY WSOL]", bridges)
	}
}
