package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shellq/queuectl"
	"github.com/shellq/queuectl/job"
)

// Get implements queuectl.Observer.
func (s *Store) Get(ctx context.Context, id string) (*job.Job, error) {
	var model jobModel
	err := s.db.NewSelect().Model(&model).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.toJob(), nil
}

// List implements queuectl.Observer.
func (s *Store) List(ctx context.Context, status job.Status, limit int) ([]*job.Job, error) {
	var models []*jobModel
	query := s.db.NewSelect().
		Model(&models).
		Order("priority ASC", "next_run_at ASC", "id ASC")
	if status != job.Unknown {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	ret := make([]*job.Job, 0, len(models))
	for _, m := range models {
		ret = append(ret, m.toJob())
	}
	return ret, nil
}

// CountByState implements queuectl.Observer.
func (s *Store) CountByState(ctx context.Context) (queuectl.StateCounts, error) {
	var counts queuectl.StateCounts
	rows := []struct {
		Status job.Status `bun:"status"`
		Count  int64      `bun:"count"`
	}{}
	err := s.db.NewSelect().
		Model((*jobModel)(nil)).
		ColumnExpr("status, count(*) AS count").
		Group("status").
		Scan(ctx, &rows)
	if err != nil {
		return counts, err
	}
	for _, r := range rows {
		switch r.Status {
		case job.Pending:
			counts.Pending = r.Count
		case job.Processing:
			counts.Processing = r.Count
		case job.Completed:
			counts.Completed = r.Count
		case job.Dead:
			counts.Dead = r.Count
		}
	}
	return counts, nil
}
