package domain

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
)

type VenueKind string

const (
	VenueAmm    VenueKind = "amm"
	VenueSerum  VenueKind = "serum"
	VenueStable VenueKind = "stable"
)

type RouteType string

const (
	RouteTypeAmm   RouteType = "amm"
	RouteTypeSerum RouteType = "serum"
	RouteTypeRoute RouteType = "route"
)

type RouteHop struct {
	Pool  LiquidityPool `json:"pool"`
	Venue VenueKind     `json:"venue"`
}

// Route is the one- or two-pool path chosen by the pricing engine.
type Route struct {
	Type RouteType  `json:"type"`
	Hops []RouteHop `json:"hops"`
}

func (r Route) PoolIDs() []solana.PublicKey {
	ids := make([]solana.PublicKey, len(r.Hops))
	for i, h := range r.Hops {
		ids[i] = h.Pool.ID
	}
	return ids
}

type QuoteState string

const (
	QuoteStateNotReady QuoteState = "not_ready"
	QuoteStateNoRoute  QuoteState = "no_route"
	QuoteStateReady    QuoteState = "ready"
)

// QuoteResult is the outcome of one calculation cycle. Only a ready quote
// carries amounts and a route.
type QuoteResult struct {
	State  QuoteState `json:"state"`
	Reason string     `json:"reason,omitempty"`

	InputMint  solana.PublicKey `json:"inputMint"`
	OutputMint solana.PublicKey `json:"outputMint"`

	AmountIn       *big.Int   `json:"amountIn,omitempty"`
	AmountOut      *big.Int   `json:"amountOut,omitempty"`
	MinAmountOut   *big.Int   `json:"minAmountOut,omitempty"`
	UIAmountIn     string     `json:"uiAmountIn,omitempty"`
	UIAmountOut    string     `json:"uiAmountOut,omitempty"`
	UIMinAmountOut string     `json:"uiMinAmountOut,omitempty"`
	ExecutionPrice string     `json:"executionPrice,omitempty"`
	CurrentPrice   string     `json:"currentPrice,omitempty"`
	PriceImpactBps uint16     `json:"priceImpactBps"`
	Fees           []*big.Int `json:"fees,omitempty"`
	SlippageBps    uint16     `json:"slippageBps"`
	CandidateCount int        `json:"candidateCount"`
	Route          *Route     `json:"route,omitempty"`
}

func NotReadyQuote(reason string) *QuoteResult {
	return &QuoteResult{State: QuoteStateNotReady, Reason: reason}
}

func (q *QuoteResult) IsReady() bool {
	return q != nil && q.State == QuoteStateReady
}
