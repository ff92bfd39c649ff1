package aggregator

import (
	"context"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hxuan190/swap-engine/internal/adapters/blockchain"
	"github.com/hxuan190/swap-engine/internal/adapters/persistence"
	"github.com/hxuan190/swap-engine/internal/adapters/poolfeed"
	"github.com/hxuan190/swap-engine/internal/adapters/pricing"
	"github.com/hxuan190/swap-engine/internal/adapters/wallet"
	"github.com/hxuan190/swap-engine/internal/common"
	"github.com/hxuan190/swap-engine/internal/config"
	"github.com/hxuan190/swap-engine/internal/domain"
	"github.com/hxuan190/swap-engine/internal/metrics"
	"github.com/hxuan190/swap-engine/internal/services"
	"github.com/hxuan190/swap-engine/internal/services/cache"
	"github.com/hxuan190/swap-engine/internal/services/executor"
	"github.com/hxuan190/swap-engine/internal/services/router"
)

const AGGREGATOR_SERVICE = "aggregator-service"

// mintDecimalsCacheSize bounds on-chain decimals lookups for tokens that are
// not in the pool list.
const mintDecimalsCacheSize = 4096

// Network is the chain capability the swap pipeline needs.
type Network interface {
	executor.RecencySource
	executor.Submitter
	router.PoolStateFetcher
	GetBalance(ctx context.Context, owner solana.PublicKey) (uint64, error)
	GetOwnedTokenAccounts(ctx context.Context, owner, programID solana.PublicKey) ([]domain.TokenAccount, error)
	GetMintDecimals(ctx context.Context, mint solana.PublicKey) (uint8, error)
}

type PoolFeed interface {
	FetchPools(ctx context.Context) ([]domain.LiquidityPool, error)
}

type PricingEngine interface {
	BestAmountOut(ctx context.Context, req domain.PricingRequest) (*domain.PricingResult, error)
}

type TradeBuilder interface {
	MakeTradeTransaction(ctx context.Context, req domain.TradeRequest) ([]domain.TransactionUnit, error)
}

type PoolStore interface {
	SavePools(pools []domain.LiquidityPool, source string) error
	LoadPools() ([]domain.LiquidityPool, *persistence.Snapshot, error)
}

// Deps are the collaborators of the service. Any of them may be nil; the
// operations that need a missing one report not ready or unavailable.
type Deps struct {
	Network Network
	Wallet  executor.Wallet
	Feed    PoolFeed
	Pricing PricingEngine
	Builder TradeBuilder
	Store   PoolStore

	BridgeMints        []solana.PublicKey
	DefaultSlippageBps uint16
	// MaxSwapSlippageBps caps swaps signed by the wallet; zero selects
	// common.DefaultMaxSwapSlippageBps.
	MaxSwapSlippageBps uint16
	RefreshInterval    time.Duration
}

type Service struct {
	container.BaseDIInstance
	logger *services.ServiceLogger

	network  Network
	wallet   executor.Wallet
	feed     PoolFeed
	pricing  PricingEngine
	builder  TradeBuilder
	store    PoolStore
	storage  *persistence.Storage
	resolver *router.Resolver
	executor *executor.Executor

	defaultSlippageBps uint16
	maxSwapSlippageBps uint16
	refreshInterval    time.Duration

	mu          sync.RWMutex
	pools       []domain.LiquidityPool
	decimals    map[solana.PublicKey]uint8
	lastRefresh time.Time

	mintDecimals *cache.LRU[solana.PublicKey, uint8]

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewService(d Deps) *Service {
	svc := &Service{}
	svc.init(d)
	return svc
}

func (svc *Service) init(d Deps) {
	svc.logger = services.NewServiceLogger(svc)
	svc.network = d.Network
	svc.wallet = d.Wallet
	svc.feed = d.Feed
	svc.pricing = d.Pricing
	svc.builder = d.Builder
	svc.store = d.Store
	svc.defaultSlippageBps = d.DefaultSlippageBps
	svc.maxSwapSlippageBps = d.MaxSwapSlippageBps
	if svc.maxSwapSlippageBps == 0 {
		svc.maxSwapSlippageBps = common.DefaultMaxSwapSlippageBps
	}
	svc.refreshInterval = d.RefreshInterval

	var fetcher router.PoolStateFetcher
	var recency executor.RecencySource
	var submitter executor.Submitter
	if d.Network != nil {
		fetcher, recency, submitter = d.Network, d.Network, d.Network
	}
	svc.resolver = router.NewResolver(d.BridgeMints, fetcher)
	svc.executor = executor.New(recency, d.Wallet, submitter)
	svc.pools = []domain.LiquidityPool{}
	svc.decimals = map[solana.PublicKey]uint8{}
	svc.mintDecimals = cache.NewLRU[solana.PublicKey, uint8](mintDecimalsCacheSize)
}

func (svc *Service) ID() string {
	return AGGREGATOR_SERVICE
}

func (svc *Service) Configure(c container.IContainer) error {
	swapConfig := c.GetConfig(config.SWAP_CONFIG_KEY).(*config.SwapConfig)
	rpcConfig := c.GetConfig(config.RPC_CONFIG_KEY).(*config.RPCConfig)
	persistenceConfig := c.GetConfig(config.PERSISTENCE_CONFIG_KEY).(*config.PersistenceConfig)
	network := c.Instance(blockchain.NETWORK_SERVICE).(*blockchain.Network)

	pricingClient := pricing.NewClient(swapConfig.PricingURL, swapConfig.RequestTimeout)
	d := Deps{
		Network:            network,
		Feed:               poolfeed.NewClient(swapConfig.PoolListURL, swapConfig.RequestTimeout),
		Pricing:            pricingClient,
		Builder:            pricingClient,
		BridgeMints:        swapConfig.BridgeMints,
		DefaultSlippageBps: swapConfig.DefaultSlippageBps,
		MaxSwapSlippageBps: swapConfig.MaxSwapSlippageBps,
		RefreshInterval:    swapConfig.RefreshInterval,
	}

	if kp, err := wallet.FromBase58(rpcConfig.WalletKey); err == nil {
		d.Wallet = kp
	} else {
		log.Warn().Err(err).Msg("[aggregatorService] no wallet configured, swaps disabled")
	}

	if persistenceConfig.Enabled {
		storage, err := persistence.NewStorage(persistenceConfig.DBPath)
		if err != nil {
			return err
		}
		svc.storage = storage
		d.Store = storage
	}

	svc.init(d)
	return nil
}

// Start serves the persisted pool list right away and keeps it fresh in the
// background.
func (svc *Service) Start() error {
	if svc.store != nil {
		pools, snap, err := svc.store.LoadPools()
		if err != nil {
			svc.logger.Warn().Err(err).Msg("[aggregatorService] failed to load pool snapshot")
		} else if len(pools) > 0 {
			svc.setPools(pools, snap.FetchedAt)
			svc.logger.Info().Int("pools", len(pools)).Time("fetched_at", snap.FetchedAt).Msg("[aggregatorService] restored pool snapshot")
		}
	}

	if svc.feed == nil || svc.refreshInterval <= 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	svc.cancel = cancel
	svc.wg.Add(1)
	go svc.refreshLoop(ctx)
	return nil
}

func (svc *Service) Stop() error {
	if svc.cancel != nil {
		svc.cancel()
	}
	svc.wg.Wait()
	if svc.storage != nil {
		return svc.storage.Close()
	}
	return nil
}

func (svc *Service) refreshLoop(ctx context.Context) {
	defer svc.wg.Done()

	ticker := time.NewTicker(svc.refreshInterval)
	defer ticker.Stop()

	for {
		if _, err := svc.RefreshPools(ctx); err != nil && ctx.Err() == nil {
			svc.logger.Error().Err(err).Msg("[aggregatorService] pool refresh failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RefreshPools fetches the pool list, persists it, swaps it in and drops the
// pool-state cache.
func (svc *Service) RefreshPools(ctx context.Context) (int, error) {
	if svc.feed == nil {
		return 0, common.ErrCollaboratorUnavailable
	}

	start := time.Now()
	pools, err := svc.feed.FetchPools(ctx)
	metrics.PoolRefreshDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PoolRefreshes.WithLabelValues("error").Inc()
		return 0, err
	}
	metrics.PoolRefreshes.WithLabelValues("ok").Inc()

	if svc.store != nil {
		if err := svc.store.SavePools(pools, "feed"); err != nil {
			svc.logger.Warn().Err(err).Msg("[aggregatorService] failed to persist pool snapshot")
		}
	}

	svc.setPools(pools, time.Now())
	svc.resolver.Cache().Invalidate()

	svc.logger.Info().Int("pools", len(pools)).Dur("took", time.Since(start)).Msg("[aggregatorService] pool list refreshed")
	return len(pools), nil
}

func (svc *Service) setPools(pools []domain.LiquidityPool, at time.Time) {
	decimals := make(map[solana.PublicKey]uint8, len(pools))
	for i := range pools {
		decimals[pools[i].BaseMint] = pools[i].BaseDecimals
		decimals[pools[i].QuoteMint] = pools[i].QuoteDecimals
	}

	svc.mu.Lock()
	svc.pools = pools
	svc.decimals = decimals
	svc.lastRefresh = at
	svc.mu.Unlock()

	metrics.PoolCount.Set(float64(len(pools)))
}

// Pools returns the current list. Callers must not modify it.
func (svc *Service) Pools() []domain.LiquidityPool {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.pools
}

func (svc *Service) Resolver() *router.Resolver {
	return svc.resolver
}

type Status struct {
	PoolCount   int       `json:"poolCount"`
	LastRefresh time.Time `json:"lastRefresh"`
	WalletReady bool      `json:"walletReady"`
	NetworkUp   bool      `json:"networkReady"`
}

func (svc *Service) Status() Status {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return Status{
		PoolCount:   len(svc.pools),
		LastRefresh: svc.lastRefresh,
		WalletReady: svc.wallet != nil,
		NetworkUp:   svc.network != nil,
	}
}

func (svc *Service) knownDecimals(mint solana.PublicKey) (uint8, bool) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	d, ok := svc.decimals[mint]
	return d, ok
}
