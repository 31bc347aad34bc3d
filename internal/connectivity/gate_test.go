package connectivity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"medicine-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireOnline(t *testing.T) {
	gate := NewGate(true)
	assert.NoError(t, RequireOnline(gate, "search"))

	gate.Set(false)
	err := RequireOnline(gate, "search")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrOffline))

	var connErr *models.ConnectivityError
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, "search", connErr.Operation)
}

func TestSubscribersReceiveEveryTransition(t *testing.T) {
	gate := NewGate(true)

	var first, second []bool
	unsubFirst := gate.Subscribe(func(online bool) { first = append(first, online) })
	defer unsubFirst()
	unsubSecond := gate.Subscribe(func(online bool) { second = append(second, online) })
	defer unsubSecond()

	gate.Set(false)
	gate.Set(false)
	gate.Set(true)

	assert.Equal(t, []bool{false, true}, first)
	assert.Equal(t, []bool{false, true}, second)
}

func TestSubscribeWithStateHasNoGapOrRepeat(t *testing.T) {
	gate := NewGate(true)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 2000; i++ {
			gate.Set(i%2 == 1)
		}
	}()

	var mu sync.Mutex
	var seen []bool
	online, unsub := gate.SubscribeWithState(func(online bool) {
		mu.Lock()
		seen = append(seen, online)
		mu.Unlock()
	})
	defer unsub()
	<-done

	mu.Lock()
	defer mu.Unlock()

	// transitions alternate, so the first one must differ from the snapshot
	prev := online
	for i, state := range seen {
		require.NotEqual(t, prev, state, "transition %d repeats the previous state", i)
		prev = state
	}
	assert.Equal(t, gate.IsOnline(), prev)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	gate := NewGate(true)

	var got []bool
	unsub := gate.Subscribe(func(online bool) { got = append(got, online) })

	gate.Set(false)
	unsub()
	unsub()
	gate.Set(true)

	assert.Equal(t, []bool{false}, got)
	assert.Equal(t, 0, gate.Subscribers())
}

func TestSubscribeSeesOnlyLaterTransitions(t *testing.T) {
	gate := NewGate(true)
	gate.Set(false)

	var got []bool
	unsub := gate.Subscribe(func(online bool) { got = append(got, online) })
	defer unsub()

	gate.Set(true)
	assert.Equal(t, []bool{true}, got)
}

func TestUnsubscribeDuringDelivery(t *testing.T) {
	gate := NewGate(true)

	var secondCalls int
	var unsubSecond func()
	unsubFirst := gate.Subscribe(func(bool) { unsubSecond() })
	defer unsubFirst()
	unsubSecond = gate.Subscribe(func(bool) { secondCalls++ })

	gate.Set(false)
	gate.Set(true)

	// the second subscriber may see the first transition depending on map
	// order but never the second
	assert.LessOrEqual(t, secondCalls, 1)
}

func TestProbeUpdatesGate(t *testing.T) {
	gate := NewGate(true)
	var fail bool
	probe := NewProbeWithCheck(gate, func(ctx context.Context) error {
		if fail {
			return errors.New("unreachable")
		}
		return nil
	}, time.Second)

	fail = true
	probe.Run(context.Background())
	assert.False(t, gate.IsOnline())

	fail = false
	probe.Run(context.Background())
	assert.True(t, gate.IsOnline())
}

func TestDialCheckUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	assert.Error(t, DialCheck("127.0.0.1:1")(ctx))
}
