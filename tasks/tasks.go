package tasks

import (
	"time"

	"go.uber.org/zap"

	"navid/server/constants"
)

// Sweeper is anything that can drop expired state and report how much it
// removed.
type Sweeper interface {
	Sweep() int
}

// Janitor periodically sweeps expired sessions in the background.
type Janitor struct {
	sweeper  Sweeper
	interval time.Duration
	log      *zap.Logger
	stop     chan struct{}
	done     chan struct{}
}

func NewJanitor(sweeper Sweeper, interval time.Duration, log *zap.Logger) *Janitor {
	return &Janitor{
		sweeper:  sweeper,
		interval: interval,
		log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop. Call Stop to shut it down.
func (j *Janitor) Start() {
	go func() {
		defer close(j.done)
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if removed := j.sweeper.Sweep(); removed > 0 {
					j.log.Info("swept expired sessions",
						zap.String("task", constants.TaskSessionSweep),
						zap.Int("removed", removed))
				}
			case <-j.stop:
				return
			}
		}
	}()
}

// Stop halts the loop and waits for it to exit.
func (j *Janitor) Stop() {
	close(j.stop)
	<-j.done
}
