package aggregator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/swap-engine/internal/common"
	"github.com/hxuan190/swap-engine/internal/domain"
	"github.com/hxuan190/swap-engine/internal/metrics"
	"github.com/hxuan190/swap-engine/internal/services/amount"
	"github.com/hxuan190/swap-engine/internal/services/router"
)

const (
	reasonNetwork    = "network unavailable"
	reasonPricing    = "pricing engine unavailable"
	reasonNoAmount   = "amount not set"
	reasonBadAmount  = "invalid amount"
	reasonTooSmall   = "amount below one base unit"
	reasonNoAsset    = "input or output token not set"
	reasonBadAsset   = "unknown token"
	reasonSameAsset  = "input and output resolve to the same token"
	reasonBadSlipage = "invalid slippage"
)

// QuoteRequest is the raw client input. It is validated once by Quote.
type QuoteRequest struct {
	InputMint  string
	OutputMint string
	Amount     string
	// Slippage is a fraction ("0.005") or, with SlippageIsPercent, a
	// percentage ("0.5"). Empty means the configured default.
	Slippage          string
	SlippageIsPercent bool
}

// quoteInput is a validated QuoteRequest.
type quoteInput struct {
	input    domain.Asset
	output   domain.Asset
	amount   amount.Amount
	slippage amount.Amount
}

// Quote runs one calculation cycle. Anything that keeps the pipeline from
// running is a not_ready result rather than an error; errors are reserved
// for overflow and failing collaborators.
func (svc *Service) Quote(ctx context.Context, req QuoteRequest) (*domain.QuoteResult, error) {
	q, _, err := svc.quote(ctx, req)
	return q, err
}

func (svc *Service) quote(ctx context.Context, req QuoteRequest) (*domain.QuoteResult, *quoteInput, error) {
	start := time.Now()
	defer func() { metrics.QuoteDuration.Observe(time.Since(start).Seconds()) }()

	in, reason := svc.validateQuote(ctx, req)
	if reason != "" {
		metrics.QuoteRequests.WithLabelValues(string(domain.QuoteStateNotReady)).Inc()
		return domain.NotReadyQuote(reason), nil, nil
	}

	q, err := svc.price(ctx, in)
	if err != nil {
		metrics.QuoteRequests.WithLabelValues("error").Inc()
		return nil, nil, err
	}
	metrics.QuoteRequests.WithLabelValues(string(q.State)).Inc()
	return q, in, nil
}

func (svc *Service) validateQuote(ctx context.Context, req QuoteRequest) (*quoteInput, string) {
	if svc.network == nil {
		return nil, reasonNetwork
	}
	if svc.pricing == nil {
		return nil, reasonPricing
	}
	if req.InputMint == "" || req.OutputMint == "" {
		return nil, reasonNoAsset
	}

	a, err := amount.Parse(req.Amount)
	if err != nil || a.Sign() < 0 {
		return nil, reasonBadAmount
	}
	if a.IsZero() {
		return nil, reasonNoAmount
	}

	slippage := amount.SlippageFromBps(svc.defaultSlippageBps)
	if req.Slippage != "" {
		if slippage, err = amount.ParseSlippage(req.Slippage, req.SlippageIsPercent); err != nil {
			return nil, reasonBadSlipage
		}
	}

	input, err := svc.resolveAsset(ctx, req.InputMint, domain.CollapseWrapped)
	if err != nil {
		svc.logger.Debug().Err(err).Str("mint", req.InputMint).Msg("[aggregatorService] input token unresolved")
		return nil, reasonBadAsset
	}
	output, err := svc.resolveAsset(ctx, req.OutputMint, domain.CollapseWrapped)
	if err != nil {
		svc.logger.Debug().Err(err).Str("mint", req.OutputMint).Msg("[aggregatorService] output token unresolved")
		return nil, reasonBadAsset
	}
	if input.SameMint(output) {
		return nil, reasonSameAsset
	}

	return &quoteInput{input: input, output: output, amount: a, slippage: slippage}, ""
}

// resolveAsset looks decimals up in the pool list first, then in the lookup
// cache, then on chain.
func (svc *Service) resolveAsset(ctx context.Context, mint string, wrappedCollapse domain.CollapseTarget) (domain.Asset, error) {
	asset, err := domain.ResolveAsset(mint, 0, wrappedCollapse)
	if err != nil {
		return domain.Asset{}, err
	}
	if asset.Kind == domain.AssetKindNativeAlias {
		return asset, nil
	}

	pk := asset.Descriptor.Mint
	if d, ok := svc.knownDecimals(pk); ok {
		asset.Descriptor.Decimals = d
		return asset, nil
	}
	if d, ok := svc.mintDecimals.Get(pk); ok {
		asset.Descriptor.Decimals = d
		return asset, nil
	}
	d, err := svc.network.GetMintDecimals(ctx, pk)
	if err != nil {
		return domain.Asset{}, err
	}
	svc.mintDecimals.Set(pk, d)
	asset.Descriptor.Decimals = d
	return asset, nil
}

func (svc *Service) price(ctx context.Context, in *quoteInput) (*domain.QuoteResult, error) {
	amountIn, err := amount.ToBaseUnits(in.amount, in.input.Decimals(), false)
	if err != nil {
		if errors.Is(err, common.ErrConversionOverflow) {
			return nil, err
		}
		return domain.NotReadyQuote(reasonBadAmount), nil
	}
	if amountIn.IsZero() {
		return domain.NotReadyQuote(reasonTooSmall), nil
	}

	slippageBps := amount.SlippageBps(in.slippage)
	result := &domain.QuoteResult{
		InputMint:   in.input.DataMint(),
		OutputMint:  in.output.DataMint(),
		AmountIn:    amountIn.Value,
		UIAmountIn:  amount.FormatUnits(amountIn),
		SlippageBps: slippageBps,
	}

	candidates := svc.resolver.FindCandidatePools(in.input, in.output, svc.Pools())
	metrics.CandidatePools.Observe(float64(len(candidates)))
	result.CandidateCount = len(candidates)
	if len(candidates) == 0 {
		result.State = domain.QuoteStateNoRoute
		return result, nil
	}

	states := svc.resolver.Cache().ParseOnChainState(ctx, candidates, router.CacheKey(candidates))

	priced, err := svc.pricing.BestAmountOut(ctx, domain.PricingRequest{
		Input:       in.input,
		Output:      in.output,
		AmountIn:    amountIn.Value,
		SlippageBps: slippageBps,
		Pools:       candidates,
		States:      states,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: pricing engine: %v", common.ErrCollaboratorUnavailable, err)
	}
	if priced == nil || priced.Route == nil || len(priced.Route.Hops) == 0 || priced.AmountOut == nil || priced.AmountOut.Sign() <= 0 {
		result.State = domain.QuoteStateNoRoute
		return result, nil
	}

	out := amount.BaseUnits{Value: priced.AmountOut, Decimals: in.output.Decimals()}
	minOut := amount.BaseUnits{Value: priced.MinAmountOut, Decimals: in.output.Decimals()}
	if minOut.IsZero() {
		minOut = amount.MinAmountOut(out, in.slippage)
	}

	result.State = domain.QuoteStateReady
	result.AmountOut = out.Value
	result.MinAmountOut = minOut.Value
	result.UIAmountOut = amount.FormatUnits(out)
	result.UIMinAmountOut = amount.FormatUnits(minOut)
	result.ExecutionPrice = priced.ExecutionPrice
	result.CurrentPrice = priced.CurrentPrice
	result.PriceImpactBps = priced.PriceImpactBps
	result.Fees = priced.Fees
	result.Route = priced.Route
	metrics.PriceImpact.Observe(float64(priced.PriceImpactBps))
	return result, nil
}

// FindCandidates exposes the candidate filter for the current pool list.
func (svc *Service) FindCandidates(inputMint, outputMint string) ([]domain.LiquidityPool, error) {
	var input, output domain.Asset
	var err error
	if input, err = domain.ResolveAsset(inputMint, 0, domain.CollapseWrapped); err != nil {
		return nil, fmt.Errorf("%w: input mint: %v", common.ErrInputValidation, err)
	}
	if output, err = domain.ResolveAsset(outputMint, 0, domain.CollapseWrapped); err != nil {
		return nil, fmt.Errorf("%w: output mint: %v", common.ErrInputValidation, err)
	}
	return svc.resolver.FindCandidatePools(input, output, svc.Pools()), nil
}

// PoolStates returns cached or freshly fetched state for the given pools.
func (svc *Service) PoolStates(ctx context.Context, pools []domain.LiquidityPool) []domain.PoolState {
	return svc.resolver.Cache().ParseOnChainState(ctx, pools, router.CacheKey(pools))
}

func parseOwner(s string, fallback solana.PublicKey) (solana.PublicKey, error) {
	if s == "" {
		return fallback, nil
	}
	pk, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: owner: %v", common.ErrInputValidation, err)
	}
	return pk, nil
}
