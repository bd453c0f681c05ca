package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weblarek/storefront-backend/internal/events"
)

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any)            {}
func (nopLogger) Infof(format string, args ...any)             {}
func (nopLogger) Warnf(format string, args ...any)             {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

type capturingWriter struct {
	mu     sync.Mutex
	keys   []string
	values [][]byte
	done   chan struct{}
	err    error
}

func newCapturingWriter(expected int) *capturingWriter {
	return &capturingWriter{done: make(chan struct{}, expected)}
}

func (w *capturingWriter) WriteEvent(ctx context.Context, key string, value []byte) error {
	w.mu.Lock()
	w.keys = append(w.keys, key)
	w.values = append(w.values, value)
	w.mu.Unlock()
	w.done <- struct{}{}
	return w.err
}

func (w *capturingWriter) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-w.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for mirrored event %d", i)
		}
	}
}

func TestEventMirror(t *testing.T) {
	t.Run("Attach_MirrorsEveryPublish", func(t *testing.T) {
		bus := events.NewBus()
		writer := newCapturingWriter(2)
		NewEventMirror(writer, nopLogger{}).Attach(bus)

		require.NoError(t, bus.Publish("catalog:changed", map[string]any{"count": 3}))
		require.NoError(t, bus.Publish("basket:changed", nil))
		writer.wait(t, 2)

		writer.mu.Lock()
		defer writer.mu.Unlock()
		assert.ElementsMatch(t, []string{"catalog:changed", "basket:changed"}, writer.keys)

		for i, raw := range writer.values {
			var model storeEventModel
			require.NoError(t, json.Unmarshal(raw, &model))
			assert.NotEmpty(t, model.EventID)
			assert.Equal(t, writer.keys[i], model.Event)
			assert.NotZero(t, model.Ts)
		}
	})

	t.Run("WriteFailure_DoesNotAbortDispatch", func(t *testing.T) {
		bus := events.NewBus()
		writer := newCapturingWriter(1)
		writer.err = fmt.Errorf("broker not available")
		NewEventMirror(writer, nopLogger{}).Attach(bus)

		var delivered bool
		bus.Subscribe("basket:changed", func(event events.Event) error {
			delivered = true
			return nil
		})

		require.NoError(t, bus.Publish("basket:changed", nil))
		writer.wait(t, 1)
		assert.True(t, delivered)
	})
}
