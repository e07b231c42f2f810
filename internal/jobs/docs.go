// Package jobs provides scheduled background tasks for the forwarding system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the forwarding service.
//
// # Available Jobs
//
// 1. DepositReminderJob - Runs daily to remind customers about packages stored
// past the free deposit period, for which storage fees are accruing.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required dependencies
//	jobManager := jobs.NewJobManager(uowFactory, settingsRepo, notifier, logger)
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
// - Reminder runs log failures and continue on per-parcel notification errors
// - Failed job starts surface to the caller so startup can abort
package jobs
