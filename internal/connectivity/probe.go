package connectivity

import (
	"context"
	"net"
	"time"

	"medicine-service/internal/util"

	"go.uber.org/zap"
)

// CheckFunc returns nil when the network is reachable
type CheckFunc func(ctx context.Context) error

// Probe checks reachability and feeds the result into a Gate
type Probe struct {
	gate    *Gate
	check   CheckFunc
	timeout time.Duration
	logger  *zap.Logger
}

// NewProbe creates a probe that dials addr over TCP
func NewProbe(gate *Gate, addr string, timeout time.Duration) *Probe {
	return NewProbeWithCheck(gate, DialCheck(addr), timeout)
}

// NewProbeWithCheck creates a probe with a custom check
func NewProbeWithCheck(gate *Gate, check CheckFunc, timeout time.Duration) *Probe {
	return &Probe{
		gate:    gate,
		check:   check,
		timeout: timeout,
		logger:  util.GetLogger(),
	}
}

// DialCheck returns a check that opens and closes a TCP connection to addr
func DialCheck(addr string) CheckFunc {
	return func(ctx context.Context) error {
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return err
		}
		return conn.Close()
	}
}

// Run performs one check and updates the gate
func (p *Probe) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.check(ctx)
	if err != nil {
		p.logger.Debug("Connectivity probe failed", zap.Error(err))
	}
	p.gate.Set(err == nil)
}
