package events

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus(t *testing.T) {
	t.Run("Publish_DeliversToExactSubscriber", func(t *testing.T) {
		bus := NewBus()

		var got []Event
		bus.Subscribe("catalog:changed", func(event Event) error {
			got = append(got, event)
			return nil
		})

		require.NoError(t, bus.Publish("catalog:changed", 42))
		require.NoError(t, bus.Publish("basket:changed", nil))

		require.Len(t, got, 1)
		assert.Equal(t, "catalog:changed", got[0].Name)
		assert.Equal(t, 42, got[0].Payload)
	})

	t.Run("Publish_WithoutSubscribersIsNoop", func(t *testing.T) {
		bus := NewBus()
		require.NoError(t, bus.Publish("catalog:changed", nil))
	})

	t.Run("SubscribeMatch_FiltersByPattern", func(t *testing.T) {
		bus := NewBus()

		var names []string
		bus.SubscribeMatch(regexp.MustCompile(`^order\..*:change$`), func(event Event) error {
			names = append(names, event.Name)
			return nil
		})

		require.NoError(t, bus.Publish("order.address:change", nil))
		require.NoError(t, bus.Publish("order.payment:change", nil))
		require.NoError(t, bus.Publish("basket:changed", nil))

		assert.Equal(t, []string{"order.address:change", "order.payment:change"}, names)
	})

	t.Run("SubscribeAll_SeesEveryPublish", func(t *testing.T) {
		bus := NewBus()

		var count int
		bus.SubscribeAll(func(event Event) error {
			count++
			return nil
		})

		require.NoError(t, bus.Publish("a", nil))
		require.NoError(t, bus.Publish("b", nil))
		assert.Equal(t, 2, count)
	})

	t.Run("Publish_KeepsSubscriptionOrder", func(t *testing.T) {
		bus := NewBus()

		var order []int
		for i := 0; i < 5; i++ {
			i := i
			bus.Subscribe("tick", func(event Event) error {
				order = append(order, i)
				return nil
			})
		}

		require.NoError(t, bus.Publish("tick", nil))
		assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
	})

	t.Run("Publish_HandlerErrorAbortsDispatch", func(t *testing.T) {
		bus := NewBus()

		var reached bool
		wantErr := fmt.Errorf("handler failed")
		bus.Subscribe("tick", func(event Event) error {
			return wantErr
		})
		bus.Subscribe("tick", func(event Event) error {
			reached = true
			return nil
		})

		err := bus.Publish("tick", nil)
		require.ErrorIs(t, err, wantErr)
		assert.False(t, reached, "dispatch must stop after a failing handler")
	})

	t.Run("Unsubscribe_StopsDelivery", func(t *testing.T) {
		bus := NewBus()

		var count int
		token := bus.Subscribe("tick", func(event Event) error {
			count++
			return nil
		})

		require.NoError(t, bus.Publish("tick", nil))
		bus.Unsubscribe(token)
		require.NoError(t, bus.Publish("tick", nil))

		assert.Equal(t, 1, count)
	})

	t.Run("Unsubscribe_UnknownTokenIgnored", func(t *testing.T) {
		bus := NewBus()
		bus.Unsubscribe(Token(999))
		require.NoError(t, bus.Publish("tick", nil))
	})

	t.Run("Publish_ReentrantFromHandler", func(t *testing.T) {
		bus := NewBus()

		var names []string
		bus.SubscribeAll(func(event Event) error {
			names = append(names, event.Name)
			return nil
		})
		bus.Subscribe("outer", func(event Event) error {
			return bus.Publish("inner", nil)
		})

		require.NoError(t, bus.Publish("outer", nil))
		// Вложенная публикация завершается до возврата из внешней (доставка в глубину)
		assert.Equal(t, []string{"outer", "inner"}, names)
	})
}
