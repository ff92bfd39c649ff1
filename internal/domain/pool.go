package domain

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
)

// LiquidityPool is one entry of the remote liquidity feed. Only the mint legs
// are interpreted; everything else is routing metadata handed to the pricing
// engine untouched.
type LiquidityPool struct {
	ID            solana.PublicKey `json:"id"`
	BaseMint      solana.PublicKey `json:"baseMint"`
	QuoteMint     solana.PublicKey `json:"quoteMint"`
	LpMint        solana.PublicKey `json:"lpMint"`
	BaseDecimals  uint8            `json:"baseDecimals"`
	QuoteDecimals uint8            `json:"quoteDecimals"`
	LpDecimals    uint8            `json:"lpDecimals"`
	Version       uint8            `json:"version"`
	ProgramID     solana.PublicKey `json:"programId"`
	Authority     solana.PublicKey `json:"authority"`
	OpenOrders    solana.PublicKey `json:"openOrders"`
	TargetOrders  solana.PublicKey `json:"targetOrders"`
	BaseVault     solana.PublicKey `json:"baseVault"`
	QuoteVault    solana.PublicKey `json:"quoteVault"`
	WithdrawQueue solana.PublicKey `json:"withdrawQueue"`
	LpVault       solana.PublicKey `json:"lpVault"`

	MarketVersion    uint8            `json:"marketVersion"`
	MarketProgramID  solana.PublicKey `json:"marketProgramId"`
	MarketID         solana.PublicKey `json:"marketId"`
	MarketAuthority  solana.PublicKey `json:"marketAuthority"`
	MarketBaseVault  solana.PublicKey `json:"marketBaseVault"`
	MarketQuoteVault solana.PublicKey `json:"marketQuoteVault"`
	MarketBids       solana.PublicKey `json:"marketBids"`
	MarketAsks       solana.PublicKey `json:"marketAsks"`
	MarketEventQueue solana.PublicKey `json:"marketEventQueue"`
}

func (p *LiquidityPool) HasLeg(mint solana.PublicKey) bool {
	return p.BaseMint.Equals(mint) || p.QuoteMint.Equals(mint)
}

// PoolState is the live on-chain state of a pool.
type PoolState struct {
	ID            solana.PublicKey `json:"id"`
	Status        uint64           `json:"status"`
	BaseDecimals  uint8            `json:"baseDecimals"`
	QuoteDecimals uint8            `json:"quoteDecimals"`
	LpDecimals    uint8            `json:"lpDecimals"`
	BaseReserve   *big.Int         `json:"baseReserve"`
	QuoteReserve  *big.Int         `json:"quoteReserve"`
	LpSupply      *big.Int         `json:"lpSupply"`
}

// TokenAccount is a wallet-owned SPL token account.
type TokenAccount struct {
	Pubkey       solana.PublicKey `json:"pubkey"`
	Mint         solana.PublicKey `json:"mint"`
	Owner        solana.PublicKey `json:"owner"`
	Amount       uint64           `json:"amount"`
	ProgramID    solana.PublicKey `json:"programId"`
	IsAssociated bool             `json:"isAssociated"`
}
