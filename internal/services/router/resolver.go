package router

import (
	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/swap-engine/internal/common"
	"github.com/hxuan190/swap-engine/internal/domain"
)

// Resolver narrows a pool universe down to the pools that can take part in a
// swap, directly or through exactly one bridge asset. It owns the pool-state
// cache used by one pricing burst.
type Resolver struct {
	bridges []solana.PublicKey
	cache   *StateCache
}

func NewResolver(bridges []solana.PublicKey, fetcher PoolStateFetcher) *Resolver {
	if len(bridges) == 0 {
		bridges = common.DefaultBridgeMints[:]
	}
	return &Resolver{
		bridges: append([]solana.PublicKey(nil), bridges...),
		cache:   NewStateCache(fetcher),
	}
}

func (r *Resolver) Bridges() []solana.PublicKey {
	return append([]solana.PublicKey(nil), r.bridges...)
}

func (r *Resolver) Cache() *StateCache {
	return r.cache
}

// FindCandidatePools keeps a pool when both legs are in bridges ∪ {src, dst}
// and the pool is not a bridge-to-bridge pool touching neither endpoint.
// Input order is preserved. An unresolved endpoint yields no candidates.
func (r *Resolver) FindCandidatePools(src, dst domain.Asset, pools []domain.LiquidityPool) []domain.LiquidityPool {
	return FindCandidatePools(src, dst, r.bridges, pools)
}

func FindCandidatePools(src, dst domain.Asset, bridges []solana.PublicKey, pools []domain.LiquidityPool) []domain.LiquidityPool {
	if src.IsZero() || dst.IsZero() {
		return []domain.LiquidityPool{}
	}
	srcMint, dstMint := src.DataMint(), dst.DataMint()

	candidates := make(map[solana.PublicKey]struct{}, len(bridges)+2)
	bridgeOnly := make(map[solana.PublicKey]struct{}, len(bridges))
	for _, b := range bridges {
		candidates[b] = struct{}{}
		if !b.Equals(srcMint) && !b.Equals(dstMint) {
			bridgeOnly[b] = struct{}{}
		}
	}
	candidates[srcMint] = struct{}{}
	candidates[dstMint] = struct{}{}

	out := make([]domain.LiquidityPool, 0)
	for _, p := range pools {
		_, baseOK := candidates[p.BaseMint]
		_, quoteOK := candidates[p.QuoteMint]
		if !baseOK || !quoteOK {
			continue
		}
		_, baseBridge := bridgeOnly[p.BaseMint]
		_, quoteBridge := bridgeOnly[p.QuoteMint]
		if baseBridge && quoteBridge {
			continue
		}
		out = append(out, p)
	}
	return out
}
