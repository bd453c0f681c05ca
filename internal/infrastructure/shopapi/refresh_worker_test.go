package shopapi

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRefresher struct {
	mu         sync.Mutex
	refreshErr error
	refreshed  int
	restored   int
}

func (m *mockRefresher) RefreshCatalog(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshed++
	return m.refreshErr
}

func (m *mockRefresher) RestoreCatalogFromCache(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.restored++
	return nil
}

func (m *mockRefresher) counts() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshed, m.restored
}

func TestRefreshWorker(t *testing.T) {
	t.Run("Start_LoadsCatalogImmediately", func(t *testing.T) {
		store := &mockRefresher{}
		worker := NewRefreshWorker(store, time.Hour, nopLogger{})

		worker.Start(context.Background())
		require.Eventually(t, func() bool {
			refreshed, _ := store.counts()
			return refreshed == 1
		}, 2*time.Second, 10*time.Millisecond)
		worker.Stop()

		_, restored := store.counts()
		assert.Equal(t, 0, restored)
	})

	t.Run("Start_FallsBackToCacheOnFailure", func(t *testing.T) {
		store := &mockRefresher{refreshErr: fmt.Errorf("connection refused")}
		worker := NewRefreshWorker(store, time.Hour, nopLogger{})

		worker.Start(context.Background())
		require.Eventually(t, func() bool {
			_, restored := store.counts()
			return restored == 1
		}, 2*time.Second, 10*time.Millisecond)
		worker.Stop()
	})

	t.Run("Run_RefreshesPeriodically", func(t *testing.T) {
		store := &mockRefresher{}
		worker := NewRefreshWorker(store, 10*time.Millisecond, nopLogger{})

		worker.Start(context.Background())
		require.Eventually(t, func() bool {
			refreshed, _ := store.counts()
			return refreshed >= 3
		}, 2*time.Second, 5*time.Millisecond)
		worker.Stop()
	})
}
