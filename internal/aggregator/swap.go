package aggregator

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/swap-engine/internal/common"
	"github.com/hxuan190/swap-engine/internal/domain"
	"github.com/hxuan190/swap-engine/internal/metrics"
	"github.com/hxuan190/swap-engine/internal/services/amount"
)

type SwapRequest struct {
	QuoteRequest
	// Owner defaults to the service wallet and must match it when set.
	Owner string
}

// Swap quotes, builds the setup and trade transactions and executes them as
// one batch. Submission failures are reported per transaction in the report;
// the error is set only when nothing could be submitted.
func (svc *Service) Swap(ctx context.Context, req SwapRequest) (*domain.SwapResponse, error) {
	start := time.Now()
	status := "error"
	defer func() {
		metrics.SwapRequests.WithLabelValues(status).Inc()
		metrics.SwapDuration.Observe(time.Since(start).Seconds())
	}()

	if svc.wallet == nil || svc.builder == nil {
		return nil, fmt.Errorf("%w: wallet or trade builder", common.ErrCollaboratorUnavailable)
	}
	owner, err := parseOwner(req.Owner, svc.wallet.PublicKey())
	if err != nil {
		return nil, err
	}
	if !owner.Equals(svc.wallet.PublicKey()) {
		return nil, fmt.Errorf("%w: owner %s is not the service wallet", common.ErrInputValidation, owner)
	}

	q, in, err := svc.quote(ctx, req.QuoteRequest)
	if err != nil {
		return nil, err
	}
	resp := &domain.SwapResponse{Quote: q, Report: domain.FailedReport()}
	if !q.IsReady() {
		status = string(q.State)
		reason := q.Reason
		if reason == "" {
			reason = string(q.State)
		}
		return resp, fmt.Errorf("%w: %s", common.ErrNotReady, reason)
	}
	if in.slippage.Cmp(amount.SlippageFromBps(svc.maxSwapSlippageBps)) > 0 {
		return resp, fmt.Errorf("%w: slippage %s above the %d bps swap cap", common.ErrInputValidation, amount.FormatAuto(in.slippage), svc.maxSwapSlippageBps)
	}

	// trade amounts are re-derived from the UI values the quote was built on
	amountIn, err := amount.ToBaseUnits(in.amount, in.input.Decimals(), true)
	if err != nil {
		return resp, err
	}
	uiMinOut := amount.BaseUnits{Value: q.MinAmountOut, Decimals: in.output.Decimals()}.ToAmount()
	minOut, err := amount.ToBaseUnits(uiMinOut, in.output.Decimals(), true)
	if err != nil {
		return resp, err
	}

	accounts, err := svc.ownedTokenAccounts(ctx, owner)
	if err != nil {
		return resp, fmt.Errorf("%w: token accounts: %v", common.ErrCollaboratorUnavailable, err)
	}

	units, err := svc.builder.MakeTradeTransaction(ctx, domain.TradeRequest{
		Owner:         owner,
		Input:         in.input,
		Output:        in.output,
		AmountIn:      amountIn.Value,
		MinAmountOut:  minOut.Value,
		Route:         *q.Route,
		TokenAccounts: accounts,
	})
	if err != nil {
		return resp, fmt.Errorf("%w: trade builder: %v", common.ErrCollaboratorUnavailable, err)
	}

	logger := svc.logger.With("owner", owner.String())
	report, err := svc.executor.Execute(ctx, units, owner)
	resp.Report = report
	if err != nil {
		logger.Error().Err(err).Msg("[aggregatorService] swap batch not submitted")
		return resp, err
	}

	status = "ok"
	logger.Info().Int("units", len(units)).Str("in", q.UIAmountIn).Str("minOut", q.UIMinAmountOut).Msg("[aggregatorService] swap batch submitted")
	if !report.AllSucceeded {
		status = "partial"
		logger.Warn().Strs("errors", report.Errors).Msg("[aggregatorService] swap batch partially submitted")
	}
	return resp, nil
}

func (svc *Service) ownedTokenAccounts(ctx context.Context, owner solana.PublicKey) ([]domain.TokenAccount, error) {
	var out []domain.TokenAccount
	for _, program := range []solana.PublicKey{common.TokenProgramID, common.Token2022ID} {
		accs, err := svc.network.GetOwnedTokenAccounts(ctx, owner, program)
		if err != nil {
			return nil, err
		}
		out = append(out, accs...)
	}
	return out, nil
}

type WalletBalance struct {
	Owner         solana.PublicKey      `json:"owner"`
	Lamports      uint64                `json:"lamports"`
	SOL           string                `json:"sol"`
	TokenAccounts []domain.TokenAccount `json:"tokenAccounts"`
}

// Balance reports native and token holdings of owner, or of the service
// wallet when owner is empty.
func (svc *Service) Balance(ctx context.Context, owner string) (*WalletBalance, error) {
	if svc.network == nil {
		return nil, fmt.Errorf("%w: network", common.ErrCollaboratorUnavailable)
	}
	var fallback solana.PublicKey
	if svc.wallet != nil {
		fallback = svc.wallet.PublicKey()
	}
	pk, err := parseOwner(owner, fallback)
	if err != nil {
		return nil, err
	}
	if pk.IsZero() {
		return nil, fmt.Errorf("%w: owner required", common.ErrInputValidation)
	}

	lamports, err := svc.network.GetBalance(ctx, pk)
	if err != nil {
		return nil, fmt.Errorf("%w: balance: %v", common.ErrCollaboratorUnavailable, err)
	}
	accounts, err := svc.ownedTokenAccounts(ctx, pk)
	if err != nil {
		return nil, fmt.Errorf("%w: token accounts: %v", common.ErrCollaboratorUnavailable, err)
	}
	return &WalletBalance{
		Owner:         pk,
		Lamports:      lamports,
		SOL:           amount.FormatUnits(amount.NewBaseUnits(lamports, common.SOLDecimals)),
		TokenAccounts: accounts,
	}, nil
}
