package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chinaboxmv/chinabox_api/internal/repository"
)

// ReconcileWorker sweeps box items that survived a payment because the
// clearing transaction raced a concurrent insert. The payment transaction is
// the primary clear; this is the compensating sweep.
type ReconcileWorker struct {
	boxRepo  *repository.BoxRepository
	interval time.Duration
}

// NewReconcileWorker constructs a ReconcileWorker.
func NewReconcileWorker(boxRepo *repository.BoxRepository, interval time.Duration) *ReconcileWorker {
	return &ReconcileWorker{
		boxRepo:  boxRepo,
		interval: interval,
	}
}

// Start begins the sweep loop and listens for context cancellation.
func (w *ReconcileWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting box reconcile worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Box reconcile worker stopped")
			return
		}
	}
}

func (w *ReconcileWorker) run(ctx context.Context) {
	removed, err := w.boxRepo.DeleteOrphanedAfterPayment()
	if err != nil {
		log.Error().Err(err).Msg("Failed to sweep orphaned box items")
		return
	}
	if removed > 0 {
		log.Info().Int64("count", removed).Msg("Swept orphaned box items after payment")
	}
}
