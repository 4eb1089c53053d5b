// Package cleanup runs periodic per-guild maintenance.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kcdcommunity/kcdbot/internal/bot/interfaces"
	"github.com/kcdcommunity/kcdbot/internal/bot/metrics"
	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// ErrInvalidInterval is returned when the sweep interval is not positive.
var ErrInvalidInterval = errors.New("sweep interval must be positive")

// GuildLister returns the guilds to sweep.
type GuildLister interface {
	Guilds() []interfaces.Guild
}

// GuildFunc does the cleanup work for one guild.
type GuildFunc func(ctx context.Context, guild interfaces.Guild) error

// Sweeper runs a GuildFunc over every guild on a fixed interval.
// The next sweep is scheduled only after the previous one finished, so sweeps never overlap.
type Sweeper struct {
	guilds   GuildLister
	fn       GuildFunc
	interval time.Duration
	logger   *zap.Logger
}

// NewSweeper creates a Sweeper.
func NewSweeper(guilds GuildLister, fn GuildFunc, interval time.Duration, logger *zap.Logger) (*Sweeper, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}

	return &Sweeper{
		guilds:   guilds,
		fn:       fn,
		interval: interval,
		logger:   logger.Named("guild_sweeper"),
	}, nil
}

// Run sweeps until the context is canceled.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("Guild sweeper started", zap.Duration("interval", s.interval))

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Guild sweeper stopped")
			return
		case <-timer.C:
		}

		if err := s.Sweep(ctx); err != nil {
			metrics.SweepFailures.Inc()
			s.logger.Error("Guild sweep failed", zap.Error(err))
		}

		// Wait a full interval after the pass, however long it took
		timer.Reset(s.interval)
	}
}

// Sweep runs the GuildFunc for every guild concurrently and waits for all of them.
// A failing guild never stops the others. Transient platform errors are dropped.
func (s *Sweeper) Sweep(ctx context.Context) error {
	guilds := s.guilds.Guilds()
	if len(guilds) == 0 {
		return nil
	}

	p := pool.New().WithErrors().WithContext(ctx)

	for _, guild := range guilds {
		p.Go(func(ctx context.Context) error {
			return s.sweepGuild(ctx, guild)
		})
	}

	return p.Wait()
}

func (s *Sweeper) sweepGuild(ctx context.Context, guild interfaces.Guild) (err error) {
	var pc panics.Catcher
	pc.Try(func() { err = s.fn(ctx, guild) })

	if recovered := pc.Recovered(); recovered != nil {
		return fmt.Errorf("guild %s: %w", guild.ID, recovered.AsError())
	}

	if errors.Is(err, interfaces.ErrTransient) {
		s.logger.Debug("Ignoring transient sweep errors",
			zap.Uint64("guild_id", uint64(guild.ID)),
			zap.Error(err))
		err = withoutTransient(err)
	}
	if err != nil {
		return fmt.Errorf("guild %s: %w", guild.ID, err)
	}

	return nil
}

// withoutTransient drops the transient parts of err, descending into joined errors
// so a transient failure never hides a sibling that is not.
// An error with ErrTransient as a direct multi-%w operand is transient as a whole.
func withoutTransient(err error) error {
	if err == nil || !errors.Is(err, interfaces.ErrTransient) {
		return err
	}

	switch e := err.(type) {
	case interface{ Unwrap() []error }:
		children := e.Unwrap()
		for _, child := range children {
			if child == interfaces.ErrTransient {
				return nil
			}
		}

		kept := make([]error, 0, len(children))
		for _, child := range children {
			if child = withoutTransient(child); child != nil {
				kept = append(kept, child)
			}
		}
		if len(kept) == len(children) {
			return err
		}
		return errors.Join(kept...)
	case interface{ Unwrap() error }:
		if withoutTransient(e.Unwrap()) == nil {
			return nil
		}
		return err
	default:
		return nil
	}
}
