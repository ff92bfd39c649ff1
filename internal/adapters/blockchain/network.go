package blockchain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hxuan190/swap-engine/internal/common"
	"github.com/hxuan190/swap-engine/internal/config"
	"github.com/hxuan190/swap-engine/internal/domain"
	"github.com/hxuan190/swap-engine/internal/metrics"
)

const NETWORK_SERVICE = "network-svc"

// maxAccountsPerRequest is the getMultipleAccounts limit.
const maxAccountsPerRequest = 100

// accounts fetched per pool: amm, base vault, quote vault, lp mint
const accountsPerPool = 4

type RecencySource interface {
	GetLatestBlockhash(ctx context.Context) (solana.Hash, error)
}

// Network is the RPC-backed chain capability: blockhash, balances, token
// accounts, pool state and raw submission.
type Network struct {
	container.BaseDIInstance

	rpcClient *rpc.Client
	recency   RecencySource
}

func NewNetwork(client *rpc.Client, recency RecencySource) *Network {
	return &Network{rpcClient: client, recency: recency}
}

func (n *Network) ID() string {
	return NETWORK_SERVICE
}

func (n *Network) Configure(c container.IContainer) error {
	rpcConfig := c.GetConfig(config.RPC_CONFIG_KEY).(*config.RPCConfig)
	n.rpcClient = rpc.New(rpcConfig.RPCUrl)
	n.recency = c.Instance(BLOCKHASH_CACHE_SERVICE).(*BlockhashCacheService)
	return nil
}

func (n *Network) Start() error {
	return nil
}

func (n *Network) Stop() error {
	return nil
}

func (n *Network) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	if n.recency != nil {
		return n.recency.GetLatestBlockhash(ctx)
	}
	res, err := n.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, err
	}
	return res.Value.Blockhash, nil
}

func (n *Network) GetBalance(ctx context.Context, owner solana.PublicKey) (uint64, error) {
	res, err := n.rpcClient.GetBalance(ctx, owner, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, err
	}
	return res.Value, nil
}

func (n *Network) GetOwnedTokenAccounts(ctx context.Context, owner, programID solana.PublicKey) ([]domain.TokenAccount, error) {
	res, err := n.rpcClient.GetTokenAccountsByOwner(ctx, owner,
		&rpc.GetTokenAccountsConfig{ProgramId: &programID},
		&rpc.GetTokenAccountsOpts{Encoding: solana.EncodingBase64, Commitment: rpc.CommitmentConfirmed},
	)
	if err != nil {
		return nil, err
	}

	out := make([]domain.TokenAccount, 0, len(res.Value))
	for _, ka := range res.Value {
		if ka == nil || ka.Account == nil || ka.Account.Data == nil {
			continue
		}
		acc, err := decodeTokenAccount(ka.Account.Data.GetBinary())
		if err != nil {
			log.Warn().Err(err).Str("account", ka.Pubkey.String()).Msg("[Network] skipping undecodable token account")
			continue
		}
		out = append(out, domain.TokenAccount{
			Pubkey:       ka.Pubkey,
			Mint:         acc.Mint,
			Owner:        acc.Owner,
			Amount:       acc.Amount,
			ProgramID:    programID,
			IsAssociated: isAssociated(ka.Pubkey, owner, acc.Mint, programID),
		})
	}
	return out, nil
}

func (n *Network) GetMintDecimals(ctx context.Context, mint solana.PublicKey) (uint8, error) {
	res, err := n.rpcClient.GetAccountInfo(ctx, mint)
	if err != nil {
		return 0, err
	}
	if res.Value == nil || res.Value.Data == nil {
		return 0, fmt.Errorf("mint %s not found", mint)
	}
	m, err := decodeMint(res.Value.Data.GetBinary())
	if err != nil {
		return 0, err
	}
	return m.Decimals, nil
}

// SendTransaction submits without preflight.
func (n *Network) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	return n.rpcClient.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       true,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
}

// FetchPoolStates loads reserves and lp supply for each pool with batched
// getMultipleAccounts calls. Pools whose accounts are missing are skipped.
func (n *Network) FetchPoolStates(ctx context.Context, pools []domain.LiquidityPool) ([]domain.PoolState, error) {
	if len(pools) == 0 {
		return []domain.PoolState{}, nil
	}
	if n == nil || n.rpcClient == nil {
		return nil, common.ErrCollaboratorUnavailable
	}

	poolsPerChunk := maxAccountsPerRequest / accountsPerPool
	out := make([]domain.PoolState, 0, len(pools))
	for start := 0; start < len(pools); start += poolsPerChunk {
		end := min(start+poolsPerChunk, len(pools))
		chunk := pools[start:end]

		keys := make([]solana.PublicKey, 0, len(chunk)*accountsPerPool)
		for _, p := range chunk {
			keys = append(keys, p.ID, p.BaseVault, p.QuoteVault, p.LpMint)
		}
		res, err := n.rpcClient.GetMultipleAccounts(ctx, keys...)
		if err != nil {
			return nil, err
		}
		if len(res.Value) != len(keys) {
			return nil, fmt.Errorf("expected %d accounts, got %d", len(keys), len(res.Value))
		}

		out = append(out, DecodePoolStates(chunk, res.Value)...)
	}
	return out, nil
}

// DecodePoolStates pairs pools with their accounts in fetch order. Pools whose
// accounts are missing or unreadable are dropped and counted. The router caches
// the shorter result as is, so a dropped pool stays out of quotes until the
// next pool list refresh invalidates the state cache.
func DecodePoolStates(pools []domain.LiquidityPool, accounts []*rpc.Account) []domain.PoolState {
	out := make([]domain.PoolState, 0, len(pools))
	for i, p := range pools {
		base := i * accountsPerPool
		if base+accountsPerPool > len(accounts) {
			break
		}
		state, err := decodePoolState(p, accounts[base:base+accountsPerPool])
		if err != nil {
			metrics.PoolStatesSkipped.Inc()
			log.Warn().Err(err).Str("pool", p.ID.String()).Msg("[Network] skipping pool with unreadable state")
			continue
		}
		out = append(out, state)
	}
	return out
}

func decodePoolState(p domain.LiquidityPool, accs []*rpc.Account) (domain.PoolState, error) {
	for _, a := range accs {
		if a == nil || a.Data == nil {
			return domain.PoolState{}, errors.New("account not found")
		}
	}

	status, err := bin.NewBinDecoder(accs[0].Data.GetBinary()).ReadUint64(bin.LE)
	if err != nil {
		return domain.PoolState{}, fmt.Errorf("amm status: %w", err)
	}
	baseVault, err := decodeTokenAccount(accs[1].Data.GetBinary())
	if err != nil {
		return domain.PoolState{}, fmt.Errorf("base vault: %w", err)
	}
	quoteVault, err := decodeTokenAccount(accs[2].Data.GetBinary())
	if err != nil {
		return domain.PoolState{}, fmt.Errorf("quote vault: %w", err)
	}
	lpMint, err := decodeMint(accs[3].Data.GetBinary())
	if err != nil {
		return domain.PoolState{}, fmt.Errorf("lp mint: %w", err)
	}

	return domain.PoolState{
		ID:            p.ID,
		Status:        status,
		BaseDecimals:  p.BaseDecimals,
		QuoteDecimals: p.QuoteDecimals,
		LpDecimals:    lpMint.Decimals,
		BaseReserve:   new(big.Int).SetUint64(baseVault.Amount),
		QuoteReserve:  new(big.Int).SetUint64(quoteVault.Amount),
		LpSupply:      new(big.Int).SetUint64(lpMint.Supply),
	}, nil
}

func decodeTokenAccount(data []byte) (*token.Account, error) {
	var acc token.Account
	if err := bin.NewBinDecoder(data).Decode(&acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func decodeMint(data []byte) (*token.Mint, error) {
	var m token.Mint
	if err := bin.NewBinDecoder(data).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

func isAssociated(account, owner, mint, programID solana.PublicKey) bool {
	if !programID.Equals(common.TokenProgramID) {
		return false
	}
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	return err == nil && ata.Equals(account)
}
