// Package pricing talks to the remote pricing engine that owns the AMM and
// order-book math, and to its trade builder.
package pricing

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/swap-engine/internal/common"
	"github.com/hxuan190/swap-engine/internal/domain"
)

const (
	computePath = "/v1/compute"
	tradePath   = "/v1/trade"
)

type Client struct {
	Base string
	Http *http.Client
}

func NewClient(base string, timeout time.Duration) *Client {
	return &Client{
		Base: base,
		Http: &http.Client{Timeout: timeout},
	}
}

type poolStatePayload struct {
	ID            solana.PublicKey `json:"id"`
	Status        uint64           `json:"status"`
	BaseDecimals  uint8            `json:"baseDecimals"`
	QuoteDecimals uint8            `json:"quoteDecimals"`
	LpDecimals    uint8            `json:"lpDecimals"`
	BaseReserve   string           `json:"baseReserve"`
	QuoteReserve  string           `json:"quoteReserve"`
	LpSupply      string           `json:"lpSupply"`
}

type computeRequest struct {
	InputMint      solana.PublicKey       `json:"inputMint"`
	OutputMint     solana.PublicKey       `json:"outputMint"`
	InputDecimals  uint8                  `json:"inputDecimals"`
	OutputDecimals uint8                  `json:"outputDecimals"`
	AmountIn       string                 `json:"amountIn"`
	SlippageBps    uint16                 `json:"slippageBps"`
	Pools          []domain.LiquidityPool `json:"pools"`
	PoolStates     []poolStatePayload     `json:"poolStates"`
}

type routeHopPayload struct {
	PoolID solana.PublicKey `json:"poolId"`
	Venue  domain.VenueKind `json:"venue"`
}

type computeResponse struct {
	AmountOut      string            `json:"amountOut"`
	MinAmountOut   string            `json:"minAmountOut"`
	ExecutionPrice string            `json:"executionPrice"`
	CurrentPrice   string            `json:"currentPrice"`
	PriceImpactBps uint16            `json:"priceImpactBps"`
	Fees           []string          `json:"fees"`
	RouteType      domain.RouteType  `json:"routeType"`
	Route          []routeHopPayload `json:"route"`
}

type tokenAccountPayload struct {
	Pubkey       solana.PublicKey `json:"pubkey"`
	Mint         solana.PublicKey `json:"mint"`
	Amount       string           `json:"amount"`
	ProgramID    solana.PublicKey `json:"programId"`
	IsAssociated bool             `json:"isAssociated"`
}

type tradeRequest struct {
	Owner         solana.PublicKey       `json:"owner"`
	InputMint     solana.PublicKey       `json:"inputMint"`
	OutputMint    solana.PublicKey       `json:"outputMint"`
	InputNative   bool                   `json:"inputNative"`
	OutputNative  bool                   `json:"outputNative"`
	AmountIn      string                 `json:"amountIn"`
	MinAmountOut  string                 `json:"minAmountOut"`
	FixedSide     string                 `json:"fixedSide"`
	RouteType     domain.RouteType       `json:"routeType"`
	Route         []domain.LiquidityPool `json:"route"`
	TokenAccounts []tokenAccountPayload  `json:"tokenAccounts"`
}

type transactionPayload struct {
	Transaction string   `json:"transaction"`
	Signers     []string `json:"signers,omitempty"`
}

type tradeResponse struct {
	Setup *transactionPayload `json:"setupTransaction,omitempty"`
	Trade *transactionPayload `json:"tradeTransaction"`
}

// BestAmountOut asks the engine to price the candidate pools. An empty route
// in the answer is returned as a result without a route.
func (c *Client) BestAmountOut(ctx context.Context, req domain.PricingRequest) (*domain.PricingResult, error) {
	payload := computeRequest{
		InputMint:      req.Input.DataMint(),
		OutputMint:     req.Output.DataMint(),
		InputDecimals:  req.Input.Decimals(),
		OutputDecimals: req.Output.Decimals(),
		AmountIn:       bigString(req.AmountIn),
		SlippageBps:    req.SlippageBps,
		Pools:          req.Pools,
		PoolStates:     make([]poolStatePayload, len(req.States)),
	}
	for i, s := range req.States {
		payload.PoolStates[i] = poolStatePayload{
			ID:            s.ID,
			Status:        s.Status,
			BaseDecimals:  s.BaseDecimals,
			QuoteDecimals: s.QuoteDecimals,
			LpDecimals:    s.LpDecimals,
			BaseReserve:   bigString(s.BaseReserve),
			QuoteReserve:  bigString(s.QuoteReserve),
			LpSupply:      bigString(s.LpSupply),
		}
	}

	var out computeResponse
	if err := c.post(ctx, computePath, payload, &out); err != nil {
		return nil, err
	}

	res := &domain.PricingResult{
		ExecutionPrice: out.ExecutionPrice,
		CurrentPrice:   out.CurrentPrice,
		PriceImpactBps: out.PriceImpactBps,
	}
	var err error
	if res.AmountOut, err = parseBig("amountOut", out.AmountOut); err != nil {
		return nil, err
	}
	if res.MinAmountOut, err = parseBig("minAmountOut", out.MinAmountOut); err != nil {
		return nil, err
	}
	for _, f := range out.Fees {
		fee, err := parseBig("fee", f)
		if err != nil {
			return nil, err
		}
		res.Fees = append(res.Fees, fee)
	}

	if len(out.Route) == 0 {
		return res, nil
	}
	route, err := resolveRoute(out.RouteType, out.Route, req.Pools)
	if err != nil {
		return nil, err
	}
	res.Route = route
	return res, nil
}

// MakeTradeTransaction returns the optional setup unit followed by the trade
// unit. Transactions come back unsigned and usually without a blockhash.
func (c *Client) MakeTradeTransaction(ctx context.Context, req domain.TradeRequest) ([]domain.TransactionUnit, error) {
	payload := tradeRequest{
		Owner:         req.Owner,
		InputMint:     req.Input.DataMint(),
		OutputMint:    req.Output.DataMint(),
		InputNative:   req.Input.IsNative(),
		OutputNative:  req.Output.IsNative(),
		AmountIn:      bigString(req.AmountIn),
		MinAmountOut:  bigString(req.MinAmountOut),
		FixedSide:     "in",
		RouteType:     req.Route.Type,
		Route:         make([]domain.LiquidityPool, len(req.Route.Hops)),
		TokenAccounts: make([]tokenAccountPayload, len(req.TokenAccounts)),
	}
	for i, h := range req.Route.Hops {
		payload.Route[i] = h.Pool
	}
	for i, ta := range req.TokenAccounts {
		payload.TokenAccounts[i] = tokenAccountPayload{
			Pubkey:       ta.Pubkey,
			Mint:         ta.Mint,
			Amount:       fmt.Sprintf("%d", ta.Amount),
			ProgramID:    ta.ProgramID,
			IsAssociated: ta.IsAssociated,
		}
	}

	var out tradeResponse
	if err := c.post(ctx, tradePath, payload, &out); err != nil {
		return nil, err
	}
	if out.Trade == nil {
		return nil, fmt.Errorf("trade builder returned no trade transaction")
	}

	units := make([]domain.TransactionUnit, 0, 2)
	if out.Setup != nil && out.Setup.Transaction != "" {
		u, err := decodeUnit(domain.UnitSetup, out.Setup)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	u, err := decodeUnit(domain.UnitTrade, out.Trade)
	if err != nil {
		return nil, err
	}
	return append(units, u), nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := sonic.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pricing %s status %d: %s", path, resp.StatusCode, bytes.TrimSpace(raw))
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func decodeUnit(label domain.UnitLabel, p *transactionPayload) (domain.TransactionUnit, error) {
	raw, err := base64.StdEncoding.DecodeString(p.Transaction)
	if err != nil {
		return domain.TransactionUnit{}, fmt.Errorf("decode %s tx: %w", label, err)
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return domain.TransactionUnit{}, fmt.Errorf("unmarshal %s tx: %w", label, err)
	}

	signers := make([]solana.PrivateKey, 0, len(p.Signers))
	for _, s := range p.Signers {
		key, err := solana.PrivateKeyFromBase58(s)
		if err != nil {
			return domain.TransactionUnit{}, fmt.Errorf("%s signer: %w", label, err)
		}
		signers = append(signers, key)
	}
	return domain.TransactionUnit{Label: label, Tx: tx, Signers: signers}, nil
}

// venueForProgram infers the venue of a hop the pricing service left untagged.
func venueForProgram(program solana.PublicKey) domain.VenueKind {
	switch {
	case program.Equals(common.RaydiumStableProgramID):
		return domain.VenueStable
	case program.Equals(common.RaydiumAmmProgramID):
		return domain.VenueAmm
	default:
		return domain.VenueAmm
	}
}

func resolveRoute(routeType domain.RouteType, hops []routeHopPayload, pools []domain.LiquidityPool) (*domain.Route, error) {
	if len(hops) > 2 {
		return nil, fmt.Errorf("route has %d hops, at most 2 supported", len(hops))
	}
	byID := make(map[solana.PublicKey]domain.LiquidityPool, len(pools))
	for _, p := range pools {
		byID[p.ID] = p
	}

	route := &domain.Route{Type: routeType, Hops: make([]domain.RouteHop, len(hops))}
	for i, h := range hops {
		p, ok := byID[h.PoolID]
		if !ok {
			return nil, fmt.Errorf("route references unknown pool %s", h.PoolID)
		}
		venue := h.Venue
		if venue == "" {
			venue = venueForProgram(p.ProgramID)
		}
		route.Hops[i] = domain.RouteHop{Pool: p, Venue: venue}
	}
	if route.Type == "" {
		route.Type = domain.RouteTypeAmm
		if len(hops) == 2 {
			route.Type = domain.RouteTypeRoute
		}
	}
	return route, nil
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func parseBig(field, s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid %s %q", field, s)
	}
	return v, nil
}
