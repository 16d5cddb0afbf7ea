package cron

import (
	"context"
	"log/slog"
	"time"
)

// NotificationPurger deletes expired notifications.
type NotificationPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// AuditArchiver copies audit entries to the secondary archive.
type AuditArchiver interface {
	ArchivePending(ctx context.Context) (int, error)
}

// BypassSweeper re-applies the supervisor bypass to records that lost it.
type BypassSweeper interface {
	SweepBypassFlags(ctx context.Context) (int, error)
}

// MaintenanceJobs groups the periodic housekeeping tasks. Nil dependencies
// are skipped at registration.
type MaintenanceJobs struct {
	notifications NotificationPurger
	archiver      AuditArchiver
	sweeper       BypassSweeper
	archiveEvery  time.Duration
}

func NewMaintenanceJobs(notifications NotificationPurger, archiver AuditArchiver, sweeper BypassSweeper, archiveEvery time.Duration) *MaintenanceJobs {
	if archiveEvery <= 0 {
		archiveEvery = 15 * time.Minute
	}
	return &MaintenanceJobs{
		notifications: notifications,
		archiver:      archiver,
		sweeper:       sweeper,
		archiveEvery:  archiveEvery,
	}
}

func (j *MaintenanceJobs) RegisterJobs(scheduler *Scheduler) {
	if j.notifications != nil {
		scheduler.AddJob("purge_expired_notifications", 1*time.Hour, j.PurgeExpiredNotifications)
	}
	if j.archiver != nil {
		scheduler.AddJob("archive_audit_log", j.archiveEvery, j.ArchiveAuditLog)
	}
	if j.sweeper != nil {
		scheduler.AddJob("sweep_bypass_flags", 6*time.Hour, j.SweepBypassFlags)
	}
}

func (j *MaintenanceJobs) PurgeExpiredNotifications(ctx context.Context) error {
	n, err := j.notifications.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("Cron: purged expired notifications", "count", n)
	}
	return nil
}

func (j *MaintenanceJobs) ArchiveAuditLog(ctx context.Context) error {
	n, err := j.archiver.ArchivePending(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("Cron: archived audit entries", "count", n)
	}
	return nil
}

func (j *MaintenanceJobs) SweepBypassFlags(ctx context.Context) error {
	n, err := j.sweeper.SweepBypassFlags(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Warn("Cron: repaired attendance records missing supervisor bypass", "count", n)
	}
	return nil
}
