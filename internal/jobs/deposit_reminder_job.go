package jobs

import (
	"context"
	"log/slog"
	"time"

	"forwarder/internal/core/domain/model/parcel"
	"forwarder/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// depositReminderSchedule runs the reminder once a day at 06:00.
const depositReminderSchedule = "0 0 6 * * *"

// DepositReminderJob reminds customers about packages sitting at the
// warehouse past the free deposit period. Storage fees accrue daily, so one
// reminder per day is enough.
type DepositReminderJob struct {
	uowFactory ports.UnitOfWorkFactory
	settings   ports.SettingsRepository
	notifier   ports.Notifier
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewDepositReminderJob creates the daily storage-fee reminder job.
func NewDepositReminderJob(
	uowFactory ports.UnitOfWorkFactory,
	settings ports.SettingsRepository,
	notifier ports.Notifier,
	logger *slog.Logger,
) *DepositReminderJob {
	return &DepositReminderJob{
		uowFactory: uowFactory,
		settings:   settings,
		notifier:   notifier,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "deposit_reminder_job"),
	}
}

// Start schedules the reminder run.
func (j *DepositReminderJob) Start() error {
	_, err := j.cron.AddFunc(depositReminderSchedule, func() {
		ctx := context.Background()
		if err := j.run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Deposit reminder job failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Deposit reminder job started (running daily)")
	return nil
}

// Stop stops the reminder job.
func (j *DepositReminderJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Deposit reminder job stopped")
}

// run notifies every customer whose package has been stored past the free
// deposit period and is still waiting on their action or payment.
func (j *DepositReminderJob) run(ctx context.Context) error {
	operationalSettings, err := j.settings.Get(ctx)
	if err != nil {
		return err
	}

	repo := j.uowFactory.Create().ParcelRepository()

	reminded := 0
	for _, status := range []parcel.Status{parcel.AwaitingUserActions, parcel.Unpaid} {
		parcels, listErr := repo.GetAllInStatus(ctx, status)
		if listErr != nil {
			return listErr
		}

		for _, p := range parcels {
			if p.ArrivedAt() == nil {
				continue
			}
			daysStored := int(time.Since(*p.ArrivedAt()).Hours() / 24)
			if daysStored <= operationalSettings.FreeDepositDays() {
				continue
			}

			parcelID := p.ID()
			notification := ports.Notification{
				Event:    ports.EventDepositReminder,
				UserID:   p.UserID(),
				ParcelID: &parcelID,
			}
			if notifyErr := j.notifier.Notify(ctx, notification); notifyErr != nil {
				j.logger.WarnContext(ctx, "Deposit reminder notification failed",
					"parcel_id", parcelID.String(), "error", notifyErr)
				continue
			}
			reminded++
		}
	}

	j.logger.InfoContext(ctx, "Deposit reminder run finished", "reminded", reminded)
	return nil
}
