package connectivity

import (
	"sync"

	"medicine-service/internal/models"
	"medicine-service/internal/util"

	"go.uber.org/zap"
)

// Port reports reachability and delivers online/offline transitions
type Port interface {
	IsOnline() bool
	Subscribe(callback func(online bool)) (unsubscribe func())
}

// Watcher is a Port that can hand out the current state and a subscription
// atomically
type Watcher interface {
	Port
	SubscribeWithState(callback func(online bool)) (online bool, unsubscribe func())
}

// Gate is a manually driven Port. The probe drives it in production and
// tests toggle it directly.
type Gate struct {
	mu      sync.Mutex
	deliver sync.Mutex
	online  bool
	subs    map[uint64]func(bool)
	nextID  uint64
	logger  *zap.Logger
}

// NewGate creates a gate with the given initial state
func NewGate(online bool) *Gate {
	return &Gate{
		online: online,
		subs:   make(map[uint64]func(bool)),
		logger: util.GetLogger(),
	}
}

// IsOnline reports the current state
func (g *Gate) IsOnline() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.online
}

// Set records the current state and notifies subscribers if it changed.
// Callbacks run on the caller's goroutine and must not call Set.
func (g *Gate) Set(online bool) {
	g.deliver.Lock()
	defer g.deliver.Unlock()

	g.mu.Lock()
	if g.online == online {
		g.mu.Unlock()
		return
	}
	g.online = online
	ids := make([]uint64, 0, len(g.subs))
	for id := range g.subs {
		ids = append(ids, id)
	}
	g.mu.Unlock()

	util.ConnectivityOnline.Set(boolGauge(online))
	g.logger.Info("Connectivity changed", zap.Bool("online", online), zap.Int("subscribers", len(ids)))

	for _, id := range ids {
		g.mu.Lock()
		cb, ok := g.subs[id]
		g.mu.Unlock()
		if ok {
			cb(online)
		}
	}
}

// Subscribe registers a callback for transitions. The returned func removes it
// and is safe to call more than once.
func (g *Gate) Subscribe(callback func(online bool)) func() {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.subs[id] = callback
	g.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.subs, id)
			g.mu.Unlock()
		})
	}
}

// SubscribeWithState returns the current state together with a subscription
// that receives every transition after it. No transition can fall between the
// two.
func (g *Gate) SubscribeWithState(callback func(online bool)) (bool, func()) {
	g.deliver.Lock()
	defer g.deliver.Unlock()

	online := g.IsOnline()
	return online, g.Subscribe(callback)
}

// Subscribers returns the number of registered callbacks
func (g *Gate) Subscribers() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.subs)
}

// RequireOnline fails with a ConnectivityError when the port reports offline
func RequireOnline(p Port, operation string) error {
	if p.IsOnline() {
		return nil
	}
	util.OfflineRejectionsTotal.WithLabelValues(operation).Inc()
	return &models.ConnectivityError{Operation: operation}
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
