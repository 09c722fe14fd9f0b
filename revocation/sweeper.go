package revocation

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// DefaultSweepInterval is the sweep cadence when none is configured.
const DefaultSweepInterval = time.Hour

// SweeperConfig controls the background sweep job.
type SweeperConfig struct {
	// Interval between sweeps. Defaults to [DefaultSweepInterval].
	Interval time.Duration
	// OnSweep, when set, receives the removal count after each sweep.
	OnSweep func(removed int)
	// OnError, when set, receives sweep failures (redis backend loss is the
	// only realistic source).
	OnError func(err error)
}

// Sweeper owns the periodic [Store.Sweep] as an explicit, cancellable job on
// a gocron scheduler. The process startup sequence calls Start and the
// shutdown sequence calls Close; tests bypass it entirely and call Sweep
// directly for deterministic assertions.
type Sweeper struct {
	scheduler gocron.Scheduler
}

// NewSweeper registers the sweep job for store. The job does not run until
// [Sweeper.Start].
func NewSweeper(store Store, cfg SweeperConfig) (*Sweeper, error) {
	if store == nil {
		return nil, errors.New("sweeper requires a store")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultSweepInterval
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(cfg.Interval),
		gocron.NewTask(func() {
			removed, err := store.Sweep(context.Background())
			if err != nil {
				if cfg.OnError != nil {
					cfg.OnError(err)
				}
				return
			}
			if cfg.OnSweep != nil {
				cfg.OnSweep(removed)
			}
		}),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}

	return &Sweeper{scheduler: scheduler}, nil
}

// Start launches the job.
func (s *Sweeper) Start() {
	s.scheduler.Start()
}

// Close cancels the job and waits for an in-flight sweep to finish.
func (s *Sweeper) Close() error {
	return s.scheduler.Shutdown()
}
