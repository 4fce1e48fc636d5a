// Package jobs provides scheduled background tasks for the order backend.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations the request path cannot cover.
//
// # Available Jobs
//
// 1. PaymentReconciliationJob - Runs every minute to re-check payments stuck
// in a non-terminal state, recovering webhook deliveries lost in transit
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(db, webhookHandler, threshold, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Reconciliation failures for one payment are logged and never block the
// rest of the batch; the next run retries whatever is still stale.
package jobs
