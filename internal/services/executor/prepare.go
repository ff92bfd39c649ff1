package executor

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/swap-engine/internal/common"
	"github.com/hxuan190/swap-engine/internal/domain"
)

// PrepareBatch stamps every unit lacking a recent blockhash with one hash
// fetched for the whole batch and with the fee payer. Units that already carry
// a blockhash are returned untouched. Order is preserved.
//
// Prebuilt transactions are stamped in place.
func (e *Executor) PrepareBatch(ctx context.Context, units []domain.TransactionUnit, feePayer solana.PublicKey) ([]domain.TransactionUnit, error) {
	out := make([]domain.TransactionUnit, len(units))
	copy(out, units)

	needsHash := false
	for i := range out {
		if !out[i].HasCheckpoint() {
			needsHash = true
			break
		}
	}
	if !needsHash {
		return out, nil
	}

	if e == nil || e.network == nil {
		return nil, fmt.Errorf("%w: network", common.ErrCollaboratorUnavailable)
	}
	hash, err := e.network.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: latest blockhash: %v", common.ErrCollaboratorUnavailable, err)
	}

	for i := range out {
		u := &out[i]
		if u.HasCheckpoint() {
			continue
		}
		if u.Tx == nil {
			tx, err := solana.NewTransaction(u.Instructions, hash, solana.TransactionPayer(feePayer))
			if err != nil {
				return nil, fmt.Errorf("%w: compile %s transaction: %v", common.ErrInputValidation, u.Label, err)
			}
			u.Tx = tx
			continue
		}
		if len(u.Tx.Message.AccountKeys) > 0 && !u.Tx.Message.AccountKeys[0].Equals(feePayer) {
			return nil, fmt.Errorf("%w: %s transaction pays from %s, not %s",
				common.ErrInputValidation, u.Label, u.Tx.Message.AccountKeys[0], feePayer)
		}
		u.Tx.Message.RecentBlockhash = hash
	}

	log.Debug().Str("blockhash", hash.String()).Int("units", len(out)).Msg("[Executor] batch stamped")
	return out, nil
}
