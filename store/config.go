package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shellq/queuectl"
)

// GetInt implements queuectl.ConfigStore.
func (s *Store) GetInt(ctx context.Context, key string) (int64, error) {
	var model configModel
	err := s.db.NewSelect().Model(&model).Where("key = ?", key).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		if v, ok := queuectl.DefaultConfig[key]; ok {
			return v, nil
		}
		return 0, queuectl.ErrInvalidArg
	}
	if err != nil {
		return 0, err
	}
	return model.Value, nil
}

// Set implements queuectl.ConfigStore.
func (s *Store) Set(ctx context.Context, key string, value int64) error {
	if _, ok := queuectl.DefaultConfig[key]; !ok {
		return queuectl.ErrInvalidArg
	}
	if key == queuectl.ConfigBackoffBase && value < 1 {
		return queuectl.ErrInvalidArg
	}
	_, err := s.db.NewInsert().
		Model(&configModel{Key: key, Value: value}).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	return err
}
