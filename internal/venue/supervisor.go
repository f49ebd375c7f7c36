package venue

import (
	"context"
	"log/slog"
	"time"

	"github.com/rickgao/ticker-data/internal/hub"
)

// DefaultRetryDelay is the fixed wait between reconnection attempts.
// Flat-interval retry is intentional: venues are long-lived and the venue
// count is small, so indefinite fixed-interval retry is easier to reason
// about than adaptive backoff.
const DefaultRetryDelay = 5 * time.Second

// SupervisorConfig configures a venue supervisor.
type SupervisorConfig struct {
	RetryDelay time.Duration // Wait between session attempts
}

// Supervisor runs one venue's session loop forever: connect, authenticate,
// subscribe, stream, and on any failure rebuild the session from scratch
// after a fixed delay. One instance per venue; instances never interact.
type Supervisor struct {
	cfg     SupervisorConfig
	adapter Adapter
	hub     *hub.Hub
	logger  *slog.Logger
}

// NewSupervisor creates a supervisor for one venue.
func NewSupervisor(cfg SupervisorConfig, adapter Adapter, h *hub.Hub, logger *slog.Logger) *Supervisor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	return &Supervisor{
		cfg:     cfg,
		adapter: adapter,
		hub:     h,
		logger:  logger.With("venue", adapter.Name()),
	}
}

// Run loops until ctx is cancelled. There is no terminal state besides
// process shutdown: every failure is recovered locally by retry.
func (s *Supervisor) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		s.runSession(ctx)

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.cfg.RetryDelay):
		}
	}
}

// runSession drives a single session from dial to teardown. Returning
// means the session is dead; the caller waits and starts over. A half-open
// session is never reused: any handshake failure closes it.
func (s *Supervisor) runSession(ctx context.Context) {
	s.logger.Info("connecting")

	sess, err := s.adapter.Connect(ctx)
	if err != nil {
		s.logger.Error("connect failed", "error", err)
		return
	}
	defer sess.Close()

	// Tear the session down on shutdown so the blocking read returns.
	stop := context.AfterFunc(ctx, func() { sess.Close() })
	defer stop()

	if err := s.adapter.Authenticate(sess); err != nil {
		s.logger.Error("authentication failed", "error", err)
		return
	}

	if err := s.adapter.Subscribe(sess); err != nil {
		s.logger.Error("subscribe failed", "error", err)
		return
	}

	s.logger.Info("streaming")

	for {
		data, err := sess.NextMessage()
		if err != nil {
			// Clean close or read error: same recovery either way.
			s.logger.Warn("stream ended", "error", err)
			return
		}

		for _, ev := range s.adapter.Decode(data) {
			s.hub.Publish(ev)
		}
	}
}
