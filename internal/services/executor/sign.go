package executor

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/swap-engine/internal/common"
	"github.com/hxuan190/swap-engine/internal/domain"
	"github.com/hxuan190/swap-engine/internal/metrics"
)

// SignLocal attaches the signatures of the unit's own co-signers. Slots owned
// by other signers are left for the wallet.
func SignLocal(u *domain.TransactionUnit) error {
	if len(u.Signers) == 0 {
		return nil
	}
	if u.Tx == nil {
		return fmt.Errorf("%w: %s unit has not been compiled", common.ErrInputValidation, u.Label)
	}

	keys := make(map[solana.PublicKey]*solana.PrivateKey, len(u.Signers))
	for i := range u.Signers {
		keys[u.Signers[i].PublicKey()] = &u.Signers[i]
	}
	if _, err := u.Tx.PartialSign(func(pk solana.PublicKey) *solana.PrivateKey {
		return keys[pk]
	}); err != nil {
		return fmt.Errorf("%w: local co-sign %s: %v", common.ErrSigningFailure, u.Label, err)
	}
	return nil
}

// SignWithWallet hands the whole batch to the wallet in caller order. Any
// failure is fatal to the batch and nothing is submitted.
func (e *Executor) SignWithWallet(ctx context.Context, units []domain.TransactionUnit) ([]domain.TransactionUnit, error) {
	if e == nil || e.wallet == nil {
		return nil, fmt.Errorf("%w: wallet", common.ErrCollaboratorUnavailable)
	}

	txs := make([]*solana.Transaction, len(units))
	for i := range units {
		if units[i].Tx == nil {
			return nil, fmt.Errorf("%w: %s unit has not been compiled", common.ErrInputValidation, units[i].Label)
		}
		txs[i] = units[i].Tx
	}

	signed, err := e.wallet.SignAllTransactions(ctx, txs)
	if err != nil {
		metrics.SigningFailures.Inc()
		log.Warn().Err(err).Int("units", len(units)).Msg("[Executor] wallet refused batch")
		return nil, fmt.Errorf("%w: %v", common.ErrSigningFailure, err)
	}
	if len(signed) != len(units) {
		metrics.SigningFailures.Inc()
		return nil, fmt.Errorf("%w: wallet returned %d transactions for %d units", common.ErrSigningFailure, len(signed), len(units))
	}

	out := make([]domain.TransactionUnit, len(units))
	for i := range units {
		out[i] = units[i]
		out[i].Tx = signed[i]
	}
	return out, nil
}
