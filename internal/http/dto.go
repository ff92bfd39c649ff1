package http

import (
	"math/big"

	"github.com/hxuan190/swap-engine/internal/domain"
)

// Base-unit amounts are sent as decimal strings; JSON numbers lose precision
// above 2^53 in most clients.

type HopInfo struct {
	PoolID    string `json:"poolId" example:"58oQChx4yWmvKdwLLZzBi4ChoCc2fqCUWBkwMihLYQo2"`
	BaseMint  string `json:"baseMint"`
	QuoteMint string `json:"quoteMint"`
	Venue     string `json:"venue" example:"amm"`
}

type QuoteResponse struct {
	State          string    `json:"state" enums:"not_ready,no_route,ready"`
	Reason         string    `json:"reason,omitempty"`
	InputMint      string    `json:"inputMint,omitempty"`
	OutputMint     string    `json:"outputMint,omitempty"`
	AmountIn       string    `json:"amountIn,omitempty" example:"1500000000"`
	AmountOut      string    `json:"amountOut,omitempty"`
	MinAmountOut   string    `json:"minAmountOut,omitempty"`
	UIAmountIn     string    `json:"uiAmountIn,omitempty" example:"1.5"`
	UIAmountOut    string    `json:"uiAmountOut,omitempty"`
	UIMinAmountOut string    `json:"uiMinAmountOut,omitempty"`
	ExecutionPrice string    `json:"executionPrice,omitempty"`
	CurrentPrice   string    `json:"currentPrice,omitempty"`
	PriceImpactBps uint16    `json:"priceImpactBps"`
	Fees           []string  `json:"fees,omitempty"`
	SlippageBps    uint16    `json:"slippageBps"`
	CandidateCount int       `json:"candidateCount"`
	RouteType      string    `json:"routeType,omitempty"`
	Route          []HopInfo `json:"route,omitempty"`
}

type ReportResponse struct {
	AllSucceeded bool      `json:"allSucceeded"`
	SubmittedIDs []*string `json:"submittedIds"`
	Errors       []string  `json:"errors,omitempty"`
}

type SwapResponse struct {
	Quote  *QuoteResponse `json:"quote,omitempty"`
	Report ReportResponse `json:"report"`
}

func bigString(v *big.Int) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func toQuoteResponse(q *domain.QuoteResult) *QuoteResponse {
	if q == nil {
		return nil
	}
	resp := &QuoteResponse{
		State:          string(q.State),
		Reason:         q.Reason,
		AmountIn:       bigString(q.AmountIn),
		AmountOut:      bigString(q.AmountOut),
		MinAmountOut:   bigString(q.MinAmountOut),
		UIAmountIn:     q.UIAmountIn,
		UIAmountOut:    q.UIAmountOut,
		UIMinAmountOut: q.UIMinAmountOut,
		ExecutionPrice: q.ExecutionPrice,
		CurrentPrice:   q.CurrentPrice,
		PriceImpactBps: q.PriceImpactBps,
		SlippageBps:    q.SlippageBps,
		CandidateCount: q.CandidateCount,
	}
	for _, fee := range q.Fees {
		resp.Fees = append(resp.Fees, bigString(fee))
	}
	if !q.InputMint.IsZero() {
		resp.InputMint = q.InputMint.String()
	}
	if !q.OutputMint.IsZero() {
		resp.OutputMint = q.OutputMint.String()
	}
	if q.Route != nil {
		resp.RouteType = string(q.Route.Type)
		resp.Route = make([]HopInfo, 0, len(q.Route.Hops))
		for _, hop := range q.Route.Hops {
			resp.Route = append(resp.Route, HopInfo{
				PoolID:    hop.Pool.ID.String(),
				BaseMint:  hop.Pool.BaseMint.String(),
				QuoteMint: hop.Pool.QuoteMint.String(),
				Venue:     string(hop.Venue),
			})
		}
	}
	return resp
}

func toSwapResponse(r *domain.SwapResponse) SwapResponse {
	out := SwapResponse{Report: ReportResponse{SubmittedIDs: []*string{}}}
	if r == nil {
		return out
	}
	out.Quote = toQuoteResponse(r.Quote)
	out.Report = ReportResponse{
		AllSucceeded: r.Report.AllSucceeded,
		SubmittedIDs: r.Report.SubmittedIDs,
		Errors:       r.Report.Errors,
	}
	if out.Report.SubmittedIDs == nil {
		out.Report.SubmittedIDs = []*string{}
	}
	return out
}
