package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shellq/queuectl"
	"github.com/shellq/queuectl/job"
	"github.com/shellq/queuectl/jobspec"
	"github.com/shellq/queuectl/logs"
)

// Enqueue implements queuectl.Enqueuer.
func (s *Store) Enqueue(ctx context.Context, spec *jobspec.Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	nextRunAt := now
	if spec.RunAt != nil {
		nextRunAt = spec.RunAt.UTC()
	}

	maxRetries := spec.MaxRetries
	if maxRetries == nil {
		defaultRetries, err := s.GetInt(ctx, queuectl.ConfigMaxRetries)
		if err != nil {
			return err
		}
		v := uint32(defaultRetries)
		maxRetries = &v
	}

	stdoutPath, stderrPath := logs.Paths(s.logDir, spec.Id)

	model := &jobModel{
		Id:             spec.Id,
		Command:        spec.Command,
		Status:         job.Pending,
		Priority:       spec.Priority,
		Attempts:       0,
		MaxRetries:     *maxRetries,
		TimeoutSeconds: spec.TimeoutSeconds,
		NextRunAt:      nextRunAt,
		StdoutPath:     stdoutPath,
		StderrPath:     stderrPath,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := s.db.NewInsert().Model(model).Exec(ctx)
	if err != nil {
		var sqliteErr interface{ Code() int }
		if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == 19 /* SQLITE_CONSTRAINT */ {
			return queuectl.ErrDuplicateId
		}
		if errors.Is(err, sql.ErrTxDone) {
			return err
		}
		return err
	}
	return nil
}
