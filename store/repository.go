package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shellq/queuectl"
	"github.com/shellq/queuectl/job"
)

// claimRetry is the bounded number of select-then-update attempts
// before Claim gives up and reports no eligible work (spec.md §4.4
// step 4).
const claimRetry = 3

// Claim implements queuectl.Repository's atomic claim protocol: a
// plain SELECT picks the best eligible candidate, then a conditional
// UPDATE performs the compare-and-set. Zero rows affected means a
// concurrent worker claimed the row first; the whole select-then-update
// is retried up to claimRetry times before reporting no work.
func (s *Store) Claim(ctx context.Context, workerID string, now time.Time) (*job.Job, error) {
	var result *job.Job
	err := withBusyRetry(ctx, func() error {
		result = nil
		var id string
		err := s.db.NewSelect().
			Model((*jobModel)(nil)).
			Column("id").
			Where("status = ?", job.Pending).
			Where("next_run_at <= ?", now).
			Order("priority ASC", "next_run_at ASC", "id ASC").
			Limit(1).
			Scan(ctx, &id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		for attempt := 0; attempt < claimRetry; attempt++ {
			res, err := s.db.NewUpdate().
				Model((*jobModel)(nil)).
				Set("status = ?", job.Processing).
				Set("locked_by = ?", workerID).
				Set("locked_at = ?", now).
				Set("updated_at = ?", now).
				Where("id = ?", id).
				Where("status = ?", job.Pending).
				Exec(ctx)
			if err != nil {
				return err
			}
			if isAffected(res) {
				var model jobModel
				if err := s.db.NewSelect().Model(&model).Where("id = ?", id).Scan(ctx); err != nil {
					return err
				}
				result = model.toJob()
				return nil
			}
			// lost the race; look again (another job may now be the
			// best candidate, or this one may be gone).
			err = s.db.NewSelect().
				Model((*jobModel)(nil)).
				Column("id").
				Where("status = ?", job.Pending).
				Where("next_run_at <= ?", now).
				Order("priority ASC", "next_run_at ASC", "id ASC").
				Limit(1).
				Scan(ctx, &id)
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	return result, err
}

// FinishSuccess implements queuectl.Repository.
func (s *Store) FinishSuccess(ctx context.Context, j *job.Job, now time.Time, exitCode int) error {
	return withBusyRetry(ctx, func() error {
		res, err := s.db.NewUpdate().
			Model((*jobModel)(nil)).
			Set("status = ?", job.Completed).
			Set("attempts = ?", j.Attempts+1).
			Set("locked_by = NULL").
			Set("locked_at = NULL").
			Set("last_error = NULL").
			Set("updated_at = ?", now).
			Where("id = ?", j.Id).
			Where("status = ?", job.Processing).
			Where("locked_by = ?", j.LockedByOrEmpty()).
			Exec(ctx)
		if err != nil {
			return err
		}
		if !isAffected(res) {
			return queuectl.ErrClaimLost
		}
		return nil
	})
}

// FinishFailure implements queuectl.Repository's retry/terminal
// transition (spec.md §4.5).
func (s *Store) FinishFailure(ctx context.Context, j *job.Job, now time.Time, delaySeconds int64, lastErr string) error {
	return withBusyRetry(ctx, func() error {
		attempts := j.Attempts + 1

		var res sql.Result
		var err error
		if attempts <= j.MaxRetries {
			nextRunAt := now.Add(time.Duration(delaySeconds) * time.Second)
			res, err = s.db.NewUpdate().
				Model((*jobModel)(nil)).
				Set("status = ?", job.Pending).
				Set("attempts = ?", attempts).
				Set("next_run_at = ?", nextRunAt).
				Set("locked_by = NULL").
				Set("locked_at = NULL").
				Set("last_error = ?", lastErr).
				Set("updated_at = ?", now).
				Where("id = ?", j.Id).
				Where("status = ?", job.Processing).
				Where("locked_by = ?", j.LockedByOrEmpty()).
				Exec(ctx)
		} else {
			res, err = s.db.NewUpdate().
				Model((*jobModel)(nil)).
				Set("status = ?", job.Dead).
				Set("attempts = ?", attempts).
				Set("locked_by = NULL").
				Set("locked_at = NULL").
				Set("last_error = ?", lastErr).
				Set("updated_at = ?", now).
				Where("id = ?", j.Id).
				Where("status = ?", job.Processing).
				Where("locked_by = ?", j.LockedByOrEmpty()).
				Exec(ctx)
		}
		if err != nil {
			return err
		}
		if !isAffected(res) {
			return queuectl.ErrClaimLost
		}
		return nil
	})
}

// RetryFromDLQ implements queuectl.Repository.
func (s *Store) RetryFromDLQ(ctx context.Context, id string, now time.Time) error {
	return withBusyRetry(ctx, func() error {
		var model jobModel
		err := s.db.NewSelect().Model(&model).Where("id = ?", id).Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return queuectl.ErrNotFound
		}
		if err != nil {
			return err
		}
		if model.Status != job.Dead {
			return queuectl.ErrInvalidState
		}
		res, err := s.db.NewUpdate().
			Model((*jobModel)(nil)).
			Set("status = ?", job.Pending).
			Set("attempts = 0").
			Set("next_run_at = ?", now).
			Set("last_error = NULL").
			Set("updated_at = ?", now).
			Where("id = ?", id).
			Where("status = ?", job.Dead).
			Exec(ctx)
		if err != nil {
			return err
		}
		if !isAffected(res) {
			return queuectl.ErrInvalidState
		}
		return nil
	})
}

// RecoverStaleLocks implements queuectl.Repository.
func (s *Store) RecoverStaleLocks(ctx context.Context, threshold time.Time) (int64, error) {
	var count int64
	now := time.Now().UTC()
	err := withBusyRetry(ctx, func() error {
		res, err := s.db.NewUpdate().
			Model((*jobModel)(nil)).
			Set("status = ?", job.Pending).
			Set("locked_by = NULL").
			Set("locked_at = NULL").
			Set("updated_at = ?", now).
			Where("status = ?", job.Processing).
			Where("locked_at < ?", threshold).
			Exec(ctx)
		if err != nil {
			return err
		}
		count = getAffected(res)
		return nil
	})
	return count, err
}
