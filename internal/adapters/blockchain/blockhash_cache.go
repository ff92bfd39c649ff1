package blockchain

import (
	"context"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog/log"

	pb "github.com/andrew-solarstorm/yellowstone-grpc-client-go/proto"
	container "github.com/thehyperflames/dicontainer-go"
	"github.com/thehyperflames/yellowstone"

	"github.com/hxuan190/swap-engine/internal/config"
	"github.com/hxuan190/swap-engine/internal/metrics"
)

const BLOCKHASH_CACHE_SERVICE = "cache-blockhash-svc"

const (
	blockhashMaxAge        = 2 * time.Second
	blockhashValidityRange = 150
)

type CachedBlockhash struct {
	Blockhash            solana.Hash
	LastValidBlockHeight uint64
	Slot                 uint64
	UpdatedAt            time.Time
}

// BlockhashCacheService keeps the latest blockhash from the block-meta stream
// and falls back to RPC when the streamed value is stale.
type BlockhashCacheService struct {
	container.BaseDIInstance

	mu        sync.RWMutex
	current   *CachedBlockhash
	ySvc      *yellowstone.Service
	rpcClient *rpc.Client
	subID     string
}

func (svc *BlockhashCacheService) ID() string {
	return BLOCKHASH_CACHE_SERVICE
}

func (svc *BlockhashCacheService) Configure(c container.IContainer) error {
	svc.ySvc = c.Instance(yellowstone.YELLOWSTONE_SERVICE).(*yellowstone.Service)
	rpcConfig := c.GetConfig(config.RPC_CONFIG_KEY).(*config.RPCConfig)

	svc.rpcClient = rpc.New(rpcConfig.RPCUrl)
	return nil
}

func (svc *BlockhashCacheService) Start() error {
	ctx := context.Background()
	if err := svc.refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("[BlockhashCacheService] failed to fetch initial blockhash, will retry on first request")
	}

	subID, err := svc.ySvc.SubscribeBlockMeta(svc.handleBlockMeta)
	if err != nil {
		log.Error().Err(err).Msg("[BlockhashCacheService] failed to subscribe to block meta")
		return err
	}
	svc.subID = subID
	log.Info().Str("subID", subID).Msg("[BlockhashCacheService] subscribed to block meta")

	return nil
}

func (svc *BlockhashCacheService) Stop() error {
	if svc.subID != "" && svc.ySvc != nil {
		return svc.ySvc.Unsubscribe(svc.subID)
	}
	return nil
}

func (svc *BlockhashCacheService) refresh(ctx context.Context) error {
	res, err := svc.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return err
	}
	metrics.BlockhashFetches.WithLabelValues("rpc").Inc()

	svc.store(&CachedBlockhash{
		Blockhash:            res.Value.Blockhash,
		LastValidBlockHeight: res.Value.LastValidBlockHeight,
		Slot:                 res.Context.Slot,
		UpdatedAt:            time.Now(),
	})
	return nil
}

func (svc *BlockhashCacheService) store(b *CachedBlockhash) {
	svc.mu.Lock()
	svc.current = b
	svc.mu.Unlock()
}

func (svc *BlockhashCacheService) handleBlockMeta(update *pb.SubscribeUpdate) error {
	blockMeta := update.GetBlockMeta()
	if blockMeta == nil || blockMeta.GetBlockhash() == "" {
		return nil
	}

	blockhash, err := solana.HashFromBase58(blockMeta.GetBlockhash())
	if err != nil {
		return nil
	}

	blockHeight := uint64(0)
	if bh := blockMeta.GetBlockHeight(); bh != nil {
		blockHeight = bh.GetBlockHeight()
	}

	svc.store(&CachedBlockhash{
		Blockhash:            blockhash,
		LastValidBlockHeight: blockHeight + blockhashValidityRange,
		Slot:                 blockMeta.GetSlot(),
		UpdatedAt:            time.Now(),
	})
	return nil
}

func (svc *BlockhashCacheService) GetBlockhash(ctx context.Context) (solana.Hash, uint64, error) {
	svc.mu.RLock()
	cached := svc.current
	svc.mu.RUnlock()

	if cached != nil && time.Since(cached.UpdatedAt) < blockhashMaxAge {
		metrics.BlockhashFetches.WithLabelValues("cache").Inc()
		return cached.Blockhash, cached.LastValidBlockHeight, nil
	}

	if err := svc.refresh(ctx); err != nil {
		if cached != nil {
			return cached.Blockhash, cached.LastValidBlockHeight, nil
		}
		return solana.Hash{}, 0, err
	}

	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.current.Blockhash, svc.current.LastValidBlockHeight, nil
}

// GetLatestBlockhash serves the batch executor.
func (svc *BlockhashCacheService) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	hash, _, err := svc.GetBlockhash(ctx)
	return hash, err
}
