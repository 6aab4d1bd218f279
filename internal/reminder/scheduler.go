package reminder

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
	"task-manager/internal/logging"
)

// DefaultRunTimeout bounds a single reminder job.
const DefaultRunTimeout = 30 * time.Second

// DefaultSyncInterval is how often a started scheduler picks up jobs that
// other processes wrote to the shared store.
const DefaultSyncInterval = 30 * time.Second

// Scheduler runs reminder jobs at their fire time. Jobs are persisted through
// an optional JobStore; several schedulers may share one store, and each job
// is claimed in the store before it runs so only one of them runs it.
type Scheduler struct {
	worker    *Worker
	store     JobStore
	cron      *cron.Cron
	logger    *zap.Logger
	now       func() time.Time
	onFinish  func(Job)
	syncEvery time.Duration

	mu      sync.Mutex
	jobs    map[string]*Job
	entries map[string]cron.EntryID
	running map[string]bool
	syncing bool
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithJobStore persists jobs in store.
func WithJobStore(store JobStore) SchedulerOption {
	return func(s *Scheduler) { s.store = store }
}

// WithOnFinish registers a callback invoked after every job reaches a terminal state.
func WithOnFinish(fn func(Job)) SchedulerOption {
	return func(s *Scheduler) { s.onFinish = fn }
}

// WithSyncInterval sets how often a started scheduler syncs with its store.
// Non-positive values disable periodic syncing.
func WithSyncInterval(d time.Duration) SchedulerOption {
	return func(s *Scheduler) { s.syncEvery = d }
}

// NewScheduler creates a scheduler running jobs with worker.
func NewScheduler(worker *Worker, logger *zap.Logger, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		worker:    worker,
		cron:      cron.New(cron.WithLocation(time.Local)),
		logger:    logging.OrNop(logger).Named("scheduler"),
		now:       time.Now,
		syncEvery: DefaultSyncInterval,
		jobs:      make(map[string]*Job),
		entries:   make(map[string]cron.EntryID),
		running:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start re-arms every pending job, loads the jobs persisted by earlier runs or
// other processes and launches the cron scheduler. A stopped scheduler can be
// started again.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	for _, job := range s.jobs {
		if job.State == JobScheduled {
			s.arm(job)
		}
	}
	if s.store != nil && s.syncEvery > 0 && !s.syncing {
		s.cron.Schedule(cron.Every(s.syncEvery), cron.FuncJob(s.syncLogged))
		s.syncing = true
	}
	s.mu.Unlock()

	if err := s.Sync(); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("reminder scheduler started")
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs or ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	s.logger.Info("reminder scheduler stopped")
}

// Sync merges the store into the scheduler. Jobs written by other processes
// are armed; jobs another process ran or cancelled are disarmed here.
func (s *Scheduler) Sync() error {
	if s.store == nil {
		return nil
	}
	stored, err := s.store.LoadJobs()
	if err != nil {
		return errors.WrapError(err, errors.ErrorTypeDatabase, "load reminder jobs")
	}

	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range stored {
		remote := stored[i]
		local, known := s.jobs[remote.ID]
		switch {
		case !known:
			job := remote
			s.jobs[job.ID] = &job
			if job.Runnable(now) {
				job.State = JobScheduled
				s.arm(&job)
			}
		case s.running[remote.ID] || local.State.Finished():
			// running here, or settled
		case remote.Runnable(now):
			if local.State != JobScheduled {
				*local = remote
				local.State = JobScheduled
				s.arm(local)
			}
		default:
			*local = remote
			s.disarm(remote.ID)
		}
	}
	return nil
}

// Schedule enqueues a reminder check of dueDate at fireAt. A fire time in the
// past runs as soon as the scheduler is started.
func (s *Scheduler) Schedule(dueDate string, fireAt time.Time) (Job, error) {
	job := &Job{
		ID:      uuid.NewString(),
		DueDate: dueDate,
		FireAt:  fireAt,
		State:   JobScheduled,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(*job); err != nil {
		return Job{}, err
	}
	s.jobs[job.ID] = job
	s.arm(job)
	s.logger.Debug("reminder scheduled", zap.String("job_id", job.ID), zap.Time("fire_at", fireAt))
	return *job, nil
}

// ScheduleForTask enqueues the reminder pair for a task: one check the day
// before the due date and one on the due date itself.
func (s *Scheduler) ScheduleForTask(task domain.Task) ([]Job, error) {
	due, ok := task.Due()
	if !ok {
		return nil, errors.NewInvalidInputError("due_date", task.DueDate, "not in d/M/yyyy form")
	}

	var jobs []Job
	for _, fireAt := range []time.Time{due.AddDate(0, 0, -1), due} {
		job, err := s.Schedule(task.DueDate, fireAt)
		if err != nil {
			return jobs, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// RunDue runs every scheduled job whose fire time has passed, in fire time
// order, and returns how many of them ran here. It does not need Start.
func (s *Scheduler) RunDue() int {
	now := s.now()
	var due []Job
	s.mu.Lock()
	for _, job := range s.jobs {
		if job.State == JobScheduled && !job.FireAt.After(now) {
			due = append(due, *job)
		}
	}
	s.mu.Unlock()
	sortByFireTime(due)

	ran := 0
	for _, job := range due {
		if s.run(job.ID) {
			ran++
		}
	}
	return ran
}

// Cancel stops a scheduled job from running.
func (s *Scheduler) Cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return errors.NewNotFoundError("reminder job", id)
	}
	if job.State != JobScheduled {
		return cannotCancel(id, job.State)
	}

	now := s.now()
	if s.store != nil {
		cancelled := false
		stored, found, err := s.store.UpdateJob(id, func(stored *Job) bool {
			if stored.State != JobScheduled {
				return false
			}
			stored.State = JobCancelled
			stored.FinishedAt = now
			cancelled = true
			return true
		})
		if err != nil {
			return errors.WrapError(err, errors.ErrorTypeDatabase, "cancel reminder job")
		}
		if found {
			*job = stored
			if !cancelled {
				return cannotCancel(id, stored.State)
			}
			s.disarm(id)
			return nil
		}
	}

	job.State = JobCancelled
	job.FinishedAt = now
	s.disarm(id)
	return s.persist(*job)
}

func cannotCancel(id string, state JobState) error {
	return errors.NewInvalidInputError("job", id, fmt.Sprintf("cannot cancel a %s job", state))
}

// Job returns the job with id.
func (s *Scheduler) Job(id string) (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// Jobs returns every known job ordered by fire time.
func (s *Scheduler) Jobs() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs := make([]Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, *job)
	}
	sortByFireTime(jobs)
	return jobs
}

func sortByFireTime(jobs []Job) {
	sort.Slice(jobs, func(i, j int) bool {
		if !jobs[i].FireAt.Equal(jobs[j].FireAt) {
			return jobs[i].FireAt.Before(jobs[j].FireAt)
		}
		return jobs[i].ID < jobs[j].ID
	})
}

// arm replaces any cron entry of job with a fresh one-shot entry. It must be
// called with mu held.
func (s *Scheduler) arm(job *Job) {
	id := job.ID
	s.disarm(id)
	s.entries[id] = s.cron.Schedule(newOneShot(job.FireAt), cron.FuncJob(func() { s.run(id) }))
}

// disarm must be called with mu held.
func (s *Scheduler) disarm(id string) {
	if entry, ok := s.entries[id]; ok {
		s.cron.Remove(entry)
		delete(s.entries, id)
	}
}

// run executes job id if it is still scheduled and this scheduler wins the
// claim on it. It reports whether the job ran.
func (s *Scheduler) run(id string) bool {
	s.mu.Lock()
	job, ok := s.jobs[id]
	if !ok || job.State != JobScheduled {
		s.mu.Unlock()
		return false
	}
	if !s.claim(job) {
		s.disarm(id)
		s.mu.Unlock()
		s.logger.Debug("reminder job taken elsewhere", zap.String("job_id", id), zap.String("state", string(job.State)))
		return false
	}
	s.running[id] = true
	dueDate := job.DueDate
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), DefaultRunTimeout)
	err := s.worker.Run(ctx, dueDate)
	cancel()

	s.mu.Lock()
	if err != nil {
		job.State = JobFailed
		job.Error = err.Error()
		s.logger.Warn("reminder job failed", zap.String("job_id", id), zap.Error(err))
	} else {
		job.State = JobSucceeded
	}
	job.FinishedAt = s.now()
	s.disarm(id)
	delete(s.running, id)
	s.persistLogged(*job)
	finished := *job
	s.mu.Unlock()

	if s.onFinish != nil {
		s.onFinish(finished)
	}
	return true
}

// claim marks job running in the store when the stored copy is still
// runnable, and syncs the local copy with the stored one. It must be called
// with mu held.
func (s *Scheduler) claim(job *Job) bool {
	now := s.now()
	if s.store == nil {
		job.State = JobRunning
		job.StartedAt = now
		return true
	}

	claimed := false
	stored, found, err := s.store.UpdateJob(job.ID, func(stored *Job) bool {
		if !stored.Runnable(now) {
			return false
		}
		stored.State = JobRunning
		stored.StartedAt = now
		claimed = true
		return true
	})
	if err != nil {
		s.logger.Error("claim reminder job", zap.String("job_id", job.ID), zap.Error(err))
		return false
	}
	if !found {
		job.State = JobRunning
		job.StartedAt = now
		s.persistLogged(*job)
		return true
	}
	*job = stored
	return claimed
}

func (s *Scheduler) syncLogged() {
	if err := s.Sync(); err != nil {
		s.logger.Warn("reminder sync failed", zap.Error(err))
	}
}

func (s *Scheduler) persist(job Job) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.SaveJob(job); err != nil {
		return errors.WrapError(err, errors.ErrorTypeDatabase, "save reminder job")
	}
	return nil
}

func (s *Scheduler) persistLogged(job Job) {
	if err := s.persist(job); err != nil {
		s.logger.Error("persist reminder job", zap.String("job_id", job.ID), zap.Error(err))
	}
}
