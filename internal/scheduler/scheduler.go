// Package scheduler runs recurring maintenance jobs on fixed intervals.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a named unit of work executed every Interval.
type Job interface {
	Name() string
	Interval() time.Duration
	Run(ctx context.Context) error
}

type funcJob struct {
	name     string
	interval time.Duration
	fn       func(ctx context.Context) error
}

func (j funcJob) Name() string                  { return j.name }
func (j funcJob) Interval() time.Duration       { return j.interval }
func (j funcJob) Run(ctx context.Context) error { return j.fn(ctx) }

// NewFuncJob wraps fn as a Job.
func NewFuncJob(name string, interval time.Duration, fn func(ctx context.Context) error) Job {
	return funcJob{name: name, interval: interval, fn: fn}
}

// Scheduler manages periodic job execution.
// A job never runs in parallel with itself: a tick that arrives while the
// previous run is still going is skipped.
type Scheduler struct {
	mu     sync.Mutex
	cron   *cron.Cron
	jobs   []Job
	names  map[string]struct{}
	locks  map[string]*sync.Mutex
	cancel context.CancelFunc
}

// New creates a scheduler. Jobs must be registered before Start.
func New() *Scheduler {
	return &Scheduler{
		names: make(map[string]struct{}),
		locks: make(map[string]*sync.Mutex),
	}
}

// Register adds a job. Returns an error for duplicate names or a non-positive interval.
func (s *Scheduler) Register(j Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := j.Name()
	if _, exists := s.names[name]; exists {
		return fmt.Errorf("scheduler: duplicate job name %q", name)
	}
	if j.Interval() <= 0 {
		return fmt.Errorf("scheduler: job %q has non-positive interval %v", name, j.Interval())
	}

	s.names[name] = struct{}{}
	s.locks[name] = &sync.Mutex{}
	s.jobs = append(s.jobs, j)
	return nil
}

// Start begins executing registered jobs.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.cron = cron.New()

	for _, job := range s.jobs {
		lock := s.locks[job.Name()]
		s.cron.Schedule(cron.Every(job.Interval()), cron.FuncJob(func() {
			if !lock.TryLock() {
				log.Printf("[Scheduler Job:%s] Still running, skipping tick", job.Name())
				return
			}
			defer lock.Unlock()

			if err := job.Run(ctx); err != nil {
				log.Printf("[Scheduler Job:%s] Failed: %v", job.Name(), err)
			}
		}))
		log.Printf("[Scheduler Job:%s] Scheduled every %v", job.Name(), job.Interval())
	}

	s.cron.Start()
	log.Printf("[Scheduler] Started with %d job(s)", len(s.jobs))
}

// Stop shuts the scheduler down and waits for in-flight jobs.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	if s.cron != nil {
		<-s.cron.Stop().Done()
		s.cron = nil
		log.Println("[Scheduler] Stopped")
	}
}
