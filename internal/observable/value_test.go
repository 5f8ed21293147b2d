package observable

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSetNotifiesSubscribers(t *testing.T) {
	v := New(1)

	var got []int
	cancel := v.Subscribe(func(n int) { got = append(got, n) })
	defer cancel()

	v.Set(2)
	v.Set(3)

	assert.Equal(t, 3, v.Get())
	assert.Equal(t, []int{2, 3}, got)
}

func TestValueUpdate(t *testing.T) {
	tests := []struct {
		name        string
		fn          func(int) (int, bool)
		wantChanged bool
		wantValue   int
		wantNotify  int
	}{
		{
			name:        "accepted change is stored and notified",
			fn:          func(cur int) (int, bool) { return cur + 10, true },
			wantChanged: true,
			wantValue:   15,
			wantNotify:  1,
		},
		{
			name:        "rejected change keeps value silently",
			fn:          func(cur int) (int, bool) { return 99, false },
			wantChanged: false,
			wantValue:   5,
			wantNotify:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(5)
			notified := 0
			v.Subscribe(func(int) { notified++ })

			changed := v.Update(tt.fn)

			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantValue, v.Get())
			assert.Equal(t, tt.wantNotify, notified)
		})
	}
}

func TestValueCancelStopsNotifications(t *testing.T) {
	v := New("a")
	calls := 0
	cancel := v.Subscribe(func(string) { calls++ })

	v.Set("b")
	cancel()
	cancel()
	v.Set("c")

	assert.Equal(t, 1, calls)
}

func TestValueSubscriberMayReadValue(t *testing.T) {
	v := New(0)
	var seen int
	v.Subscribe(func(int) { seen = v.Get() })

	v.Set(42)

	assert.Equal(t, 42, seen)
}

func TestValueConcurrentSet(t *testing.T) {
	v := New(0)
	var mu sync.Mutex
	notified := 0
	v.Subscribe(func(int) {
		mu.Lock()
		notified++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v.Update(func(cur int) (int, bool) { return cur + 1, true })
		}()
	}
	wg.Wait()

	require.Equal(t, 50, v.Get())
	assert.Equal(t, 50, notified)
}
