package store_test

import (
	"context"
	"testing"

	"github.com/shellq/queuectl"
	"github.com/shellq/queuectl/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), ":memory:", t.TempDir(), queuectl.DefaultConfig)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}
