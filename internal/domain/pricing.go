package domain

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
)

// PricingRequest is what the external pricing engine needs to pick a route
// for a fixed-input swap.
type PricingRequest struct {
	Input       Asset
	Output      Asset
	AmountIn    *big.Int
	SlippageBps uint16
	Pools       []LiquidityPool
	States      []PoolState
}

// PricingResult is the pricing engine's answer. A nil Route or zero AmountOut
// means no usable path.
type PricingResult struct {
	AmountOut      *big.Int
	MinAmountOut   *big.Int
	ExecutionPrice string
	CurrentPrice   string
	PriceImpactBps uint16
	Fees           []*big.Int
	Route          *Route
}

// TradeRequest asks the trade builder for the setup and trade transactions
// of a priced route.
type TradeRequest struct {
	Owner         solana.PublicKey
	Input         Asset
	Output        Asset
	AmountIn      *big.Int
	MinAmountOut  *big.Int
	Route         Route
	TokenAccounts []TokenAccount
}
