package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/farmstack/farmsync/internal/adapters/watcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncer_CoalescesEventsWithinWindow(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/backend/app/models.py")
		d.Add("/backend/app/routes.py")
		d.Add("/backend/app/models.py") // duplicate, deduplicated via interning

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)
		require.Len(t, receivedPaths, 2)
		// Order is not guaranteed since paths are stored in a map.
		assert.Contains(t, receivedPaths, "/backend/app/models.py")
		assert.Contains(t, receivedPaths, "/backend/app/routes.py")
	})
}

func TestDebouncer_EachAddResetsWindow(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var mu sync.Mutex
		var callCount int

		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
			mu.Lock()
			callCount++
			mu.Unlock()
		})

		d.Add("/backend/app/models.py")
		time.Sleep(50 * time.Millisecond)

		// A second event inside the window pushes the deadline out.
		d.Add("/backend/app/routes.py")
		time.Sleep(50 * time.Millisecond)

		synctest.Wait()
		mu.Lock()
		count := callCount
		mu.Unlock()
		assert.Equal(t, 0, count)

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		count = callCount
		mu.Unlock()
		require.Equal(t, 1, count)
	})
}

func TestDebouncer_FlushFiresPendingSynchronously(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/backend/app/models.py")
		d.Flush()

		require.Equal(t, 1, callCount)
		require.Equal(t, []string{"/backend/app/models.py"}, receivedPaths)

		// The original timer must not fire a second batch.
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, 1, callCount)
	})
}

func TestDebouncer_FlushWithNothingPending(t *testing.T) {
	var callCount int

	d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
		callCount++
	})

	d.Flush()

	assert.Equal(t, 0, callCount)
}

func TestDebouncer_FlushAfterFire(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int

		d := watcher.NewDebouncer(50*time.Millisecond, func([]string) {
			callCount++
		})

		d.Add("/backend/app/models.py")

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		require.Equal(t, 1, callCount)

		d.Flush()
		assert.Equal(t, 1, callCount)
	})
}

func TestDebouncer_ReusableAfterFlush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/backend/app/models.py")
		d.Flush()
		require.Equal(t, 1, callCount)

		d.Add("/backend/app/schemas.py")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 2, callCount)
		assert.Equal(t, []string{"/backend/app/schemas.py"}, receivedPaths)
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		d := watcher.NewDebouncer(50*time.Millisecond, nil)

		d.Add("/backend/app/models.py")

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		d.Flush()
	})
}
