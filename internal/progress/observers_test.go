package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestObserverRegistry(t *testing.T) {
	var registry observerRegistry
	var calls []string

	unsubA := registry.add(func() { calls = append(calls, "a") })
	registry.add(func() { panic("boom") })
	registry.add(func() { calls = append(calls, "c") })
	registry.add(func() { panic("bang") })
	require.Equal(t, 4, registry.len())

	failed, err := registry.notify()
	assert.Equal(t, 2, failed)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "bang")
	assert.Equal(t, []string{"a", "c"}, calls)

	unsubA()
	unsubA()
	assert.Equal(t, 3, registry.len())

	calls = nil
	_, _ = registry.notify()
	assert.Equal(t, []string{"c"}, calls)
}

func TestObserverRegistry_UnsubscribeDuringNotify(t *testing.T) {
	var registry observerRegistry
	var calls []string

	var unsubB func()
	registry.add(func() {
		calls = append(calls, "a")
		unsubB()
	})
	unsubB = registry.add(func() { calls = append(calls, "b") })

	// b is gone before its turn comes
	failed, err := registry.notify()
	assert.Zero(t, failed)
	assert.NoError(t, err)
	assert.Equal(t, []string{"a"}, calls)
	assert.Equal(t, 1, registry.len())

	calls = nil
	_, _ = registry.notify()
	assert.Equal(t, []string{"a"}, calls)
}

func TestObserverRegistry_SubscribeDuringNotify(t *testing.T) {
	var registry observerRegistry
	var calls []string

	added := false
	registry.add(func() {
		calls = append(calls, "a")
		if !added {
			added = true
			registry.add(func() { calls = append(calls, "late") })
		}
	})

	// added observers join from the next pass on
	_, _ = registry.notify()
	assert.Equal(t, []string{"a"}, calls)

	calls = nil
	_, _ = registry.notify()
	assert.Equal(t, []string{"a", "late"}, calls)
}
