package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"backoffice/internal/core/application/usecases/commands"
	"backoffice/internal/core/domain/model/payment"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// PaymentReconciliationJob recovers webhook deliveries lost in transit. Every
// minute it looks for payment records that are still non-terminal after the
// staleness threshold, re-fetches their state from the processor through the
// regular webhook pipeline, and re-applies the outcome. Records whose state
// has not moved on the processor side simply stay as they are.
type PaymentReconciliationJob struct {
	db        *gorm.DB
	handler   commands.ProcessPaymentWebhookCommandHandler
	threshold time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewPaymentReconciliationJob creates a reconciliation job. Records younger
// than threshold are left alone so the job never races a webhook that is
// merely slow.
func NewPaymentReconciliationJob(
	db *gorm.DB,
	handler commands.ProcessPaymentWebhookCommandHandler,
	threshold time.Duration,
	logger *slog.Logger,
) *PaymentReconciliationJob {
	return &PaymentReconciliationJob{
		db:        db,
		handler:   handler,
		threshold: threshold,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "payment_reconciliation_job"),
	}
}

// Start begins the reconciliation job, running at the top of every minute.
func (j *PaymentReconciliationJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		j.run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Payment reconciliation job started (running every minute)")
	return nil
}

// Stop stops the reconciliation job.
func (j *PaymentReconciliationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Payment reconciliation job stopped")
}

func (j *PaymentReconciliationJob) run(ctx context.Context) {
	stalePaymentIDs, err := j.findStalePayments(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to find stale payments", "error", err)
		return
	}

	for _, paymentID := range stalePaymentIDs {
		// Synthetic event ids keep reconciliation runs apart in the dedup
		// store while staying idempotent at the upsert below it.
		eventID := fmt.Sprintf("reconcile-%s-%d", paymentID, time.Now().Unix())

		cmd, cmdErr := commands.NewProcessPaymentWebhookCommand(eventID, "payment.updated", paymentID)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Failed to build reconciliation command",
				"paymentId", paymentID, "error", cmdErr)
			continue
		}

		if handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			j.logger.ErrorContext(ctx, "Failed to reconcile payment",
				"paymentId", paymentID, "error", handleErr)
		}
	}
}

// findStalePayments is a read-side query over the payments table; only the
// webhook pipeline it feeds loads aggregates and takes locks.
func (j *PaymentReconciliationJob) findStalePayments(ctx context.Context) ([]string, error) {
	cutoff := time.Now().UTC().Add(-j.threshold)

	var paymentIDs []string
	err := j.db.WithContext(ctx).Raw(`
		SELECT external_id
		FROM payments
		WHERE status IN (?, ?)
		  AND last_event_at < ?
		ORDER BY last_event_at
	`, string(payment.StatusPending), string(payment.StatusInProcess), cutoff).
		Scan(&paymentIDs).Error
	if err != nil {
		return nil, err
	}

	return paymentIDs, nil
}
