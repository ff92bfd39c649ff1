// Package executor stamps, signs and submits an ordered batch of swap
// transactions and folds the per-transaction outcomes into one report.
package executor

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/swap-engine/internal/common"
	"github.com/hxuan190/swap-engine/internal/domain"
)

// RecencySource supplies the recent blockhash shared by a batch.
type RecencySource interface {
	GetLatestBlockhash(ctx context.Context) (solana.Hash, error)
}

// Wallet signs a whole batch in one call. It is the only step that may refuse.
type Wallet interface {
	PublicKey() solana.PublicKey
	SignAllTransactions(ctx context.Context, txs []*solana.Transaction) ([]*solana.Transaction, error)
}

// Submitter sends one signed transaction and returns its signature.
type Submitter interface {
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

type Executor struct {
	network   RecencySource
	wallet    Wallet
	submitter Submitter
}

func New(network RecencySource, wallet Wallet, submitter Submitter) *Executor {
	return &Executor{network: network, wallet: wallet, submitter: submitter}
}

func (e *Executor) ready() error {
	switch {
	case e == nil || e.network == nil:
		return fmt.Errorf("%w: network", common.ErrCollaboratorUnavailable)
	case e.wallet == nil:
		return fmt.Errorf("%w: wallet", common.ErrCollaboratorUnavailable)
	case e.submitter == nil:
		return fmt.Errorf("%w: submitter", common.ErrCollaboratorUnavailable)
	}
	return nil
}

// Execute runs prepare, local signing, wallet signing and submission. Nothing
// is attempted when a collaborator is missing. A wallet refusal yields a
// failed report with no submitted ids alongside the error.
func (e *Executor) Execute(ctx context.Context, units []domain.TransactionUnit, feePayer solana.PublicKey) (domain.ExecutionReport, error) {
	if err := e.ready(); err != nil {
		return domain.FailedReport(), err
	}
	if feePayer.IsZero() {
		feePayer = e.wallet.PublicKey()
	}

	prepared, err := e.PrepareBatch(ctx, units, feePayer)
	if err != nil {
		return domain.FailedReport(), err
	}
	for i := range prepared {
		if err := SignLocal(&prepared[i]); err != nil {
			return domain.FailedReport(), err
		}
	}

	signed, err := e.SignWithWallet(ctx, prepared)
	if err != nil {
		return domain.FailedReport(), err
	}
	return e.Submit(ctx, signed), nil
}
