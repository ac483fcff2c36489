package registry_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padsync/padsync/device"
	"github.com/padsync/padsync/registry"
)

func ident(last byte, kind device.ConnKind) device.Identity {
	return device.Identity{
		Addr: [6]byte{0x00, 0x1F, 0xA7, 0x00, 0x00, last},
		Conn: kind,
	}
}

func TestRegisterDuplicateMatrix(t *testing.T) {
	t.Run("same address same kind fails", func(t *testing.T) {
		r := registry.New()
		dup, err := r.Register(ident(1, device.ConnUSB))
		require.NoError(t, err)
		assert.False(t, dup)

		_, err = r.Register(ident(1, device.ConnUSB))
		assert.ErrorIs(t, err, registry.ErrAlreadyConnected)
		assert.Equal(t, 1, r.Len())
	})

	t.Run("same address across transports is one physical unit", func(t *testing.T) {
		r := registry.New()
		dup, err := r.Register(ident(1, device.ConnUSB))
		require.NoError(t, err)
		assert.False(t, dup)

		dup, err = r.Register(ident(1, device.ConnBluetooth))
		require.NoError(t, err)
		assert.True(t, dup, "second transport must be flagged as duplicate-physical-device")
		assert.Equal(t, 2, r.Len())
	})

	t.Run("distinct addresses never conflict", func(t *testing.T) {
		r := registry.New()
		for i := byte(1); i <= 5; i++ {
			dup, err := r.Register(ident(i, device.ConnBluetooth))
			require.NoError(t, err)
			assert.False(t, dup)
		}
		assert.Equal(t, 5, r.Len())
	})
}

func TestReleaseIdempotent(t *testing.T) {
	r := registry.New()
	id := ident(1, device.ConnUSB)

	r.Release(id) // never registered: no-op

	_, err := r.Register(id)
	require.NoError(t, err)
	r.Release(id)
	r.Release(id)
	assert.Zero(t, r.Len())

	// Releasing one transport leaves the other registered.
	_, err = r.Register(ident(2, device.ConnUSB))
	require.NoError(t, err)
	_, err = r.Register(ident(2, device.ConnBluetooth))
	require.NoError(t, err)
	r.Release(ident(2, device.ConnUSB))
	assert.Equal(t, 1, r.Len())
}

func TestIDPoolReuse(t *testing.T) {
	r := registry.New()

	const n = 10
	first := make([]int, 0, n)
	for i := 0; i < n; i++ {
		id, err := r.AcquireID()
		require.NoError(t, err)
		first = append(first, id)
	}
	for _, id := range first {
		r.ReleaseID(id)
	}

	second := make([]int, 0, n)
	for i := 0; i < n; i++ {
		id, err := r.AcquireID()
		require.NoError(t, err)
		second = append(second, id)
	}
	assert.ElementsMatch(t, first, second, "pool must not leak IDs across cycles")
}

func TestIDPoolSmallestFree(t *testing.T) {
	r := registry.New()
	a, _ := r.AcquireID()
	b, _ := r.AcquireID()
	c, _ := r.AcquireID()
	assert.Equal(t, []int{0, 1, 2}, []int{a, b, c})

	r.ReleaseID(b)
	id, err := r.AcquireID()
	require.NoError(t, err)
	assert.Equal(t, b, id)
}

func TestIDPoolExhaustion(t *testing.T) {
	r := registry.New()
	for i := 0; i < registry.MaxNumericIDs; i++ {
		_, err := r.AcquireID()
		require.NoError(t, err)
	}
	_, err := r.AcquireID()
	assert.ErrorIs(t, err, registry.ErrPoolExhausted)
}

func TestIDPoolDoubleReleasePanics(t *testing.T) {
	r := registry.New()
	id, err := r.AcquireID()
	require.NoError(t, err)
	r.ReleaseID(id)

	assert.Panics(t, func() { r.ReleaseID(id) })
	assert.Panics(t, func() { r.ReleaseID(-1) })
	assert.Panics(t, func() { r.ReleaseID(registry.MaxNumericIDs) })
}

func TestIDPoolConcurrentSessions(t *testing.T) {
	r := registry.New()

	const workers = 16
	const rounds = 200

	live := make(chan int, workers)
	done := make(chan struct{})
	seen := make(map[int]int)

	// Collector asserts no ID is ever held by two workers at once.
	go func() {
		defer close(done)
		for id := range live {
			if id >= 0 {
				seen[id]++
				if seen[id] != 1 {
					t.Errorf("numeric ID %d live twice", id)
					return
				}
			} else {
				seen[-id-1]--
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				id, err := r.AcquireID()
				if err != nil {
					continue
				}
				live <- id
				live <- -id - 1
				r.ReleaseID(id)
			}
		}()
	}
	wg.Wait()
	close(live)
	<-done
}
