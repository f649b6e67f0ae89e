package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"lompakko/internal/domain/user"
)

// SubscriptionSweepJob deactivates subscriptions whose paid period has
// ended. It is idempotent: running it twice in a row affects no
// additional rows.
type SubscriptionSweepJob struct {
	users user.Repository
	now   func() time.Time
}

func NewSubscriptionSweepJob(users user.Repository) *SubscriptionSweepJob {
	return &SubscriptionSweepJob{users: users, now: time.Now}
}

func (j *SubscriptionSweepJob) Description() string {
	return "subscription expiry sweep"
}

func (j *SubscriptionSweepJob) Execute(ctx context.Context) error {
	affected, err := j.users.DeactivateExpiredSubscriptions(ctx, j.now())
	if err != nil {
		return fmt.Errorf("failed to deactivate expired subscriptions: %w", err)
	}
	if affected > 0 {
		log.Printf("Subscription sweep: deactivated %d expired subscriptions", affected)
	}
	return nil
}

// Sweeper periodically submits the subscription sweep to the worker
// pool.
type Sweeper struct {
	pool         *WorkerPool
	job          Job
	interval     time.Duration
	runOnStartup bool
	stop         chan struct{}
	done         chan struct{}
}

func NewSweeper(pool *WorkerPool, job Job, interval time.Duration, runOnStartup bool) *Sweeper {
	return &Sweeper{
		pool:         pool,
		job:          job,
		interval:     interval,
		runOnStartup: runOnStartup,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// Start launches the ticker loop in its own goroutine.
func (s *Sweeper) Start() {
	log.Printf("Starting sweeper with interval %s", s.interval)

	go func() {
		defer close(s.done)

		if s.runOnStartup {
			s.submit()
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.submit()
			}
		}
	}()
}

func (s *Sweeper) submit() {
	if err := s.pool.Submit(s.job); err != nil {
		log.Printf("Sweeper: failed to submit %s: %v", s.job.Description(), err)
	}
}

// Stop halts the ticker loop and waits for it to exit. It does not
// shut down the worker pool.
func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}
