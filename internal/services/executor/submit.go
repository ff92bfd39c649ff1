package executor

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hxuan190/swap-engine/internal/common"
	"github.com/hxuan190/swap-engine/internal/domain"
	"github.com/hxuan190/swap-engine/internal/metrics"
)

// Submit dispatches every unit concurrently and waits for all of them. A
// failing unit is logged and recorded with a nil id; it never stops its
// siblings and there is no rollback of units that landed.
func (e *Executor) Submit(ctx context.Context, units []domain.TransactionUnit) domain.ExecutionReport {
	ids := make([]*string, len(units))
	errs := make([]error, len(units))

	var g errgroup.Group
	for i := range units {
		g.Go(func() error {
			id, err := e.submitOne(ctx, units[i])
			if err != nil {
				errs[i] = err
				metrics.SubmittedTransactions.WithLabelValues(string(units[i].Label), "error").Inc()
				log.Error().Err(err).Int("index", i).Str("label", string(units[i].Label)).Msg("[Executor] submission failed")
				return nil
			}
			ids[i] = &id
			metrics.SubmittedTransactions.WithLabelValues(string(units[i].Label), "ok").Inc()
			return nil
		})
	}
	_ = g.Wait()

	report := domain.ExecutionReport{AllSucceeded: true, SubmittedIDs: ids}
	for i, err := range errs {
		if err != nil {
			report.AllSucceeded = false
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", units[i].Label, err))
		}
	}
	return report
}

func (e *Executor) submitOne(ctx context.Context, u domain.TransactionUnit) (id string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", common.ErrSubmissionFailure, r)
		}
	}()
	if e == nil || e.submitter == nil {
		return "", fmt.Errorf("%w: submitter", common.ErrCollaboratorUnavailable)
	}
	if u.Tx == nil {
		return "", fmt.Errorf("%w: %s unit has no transaction", common.ErrSubmissionFailure, u.Label)
	}
	sig, err := e.submitter.SendTransaction(ctx, u.Tx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrSubmissionFailure, err)
	}
	return sig.String(), nil
}
