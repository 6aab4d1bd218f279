package reminder

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"task-manager/internal/logging"
	"task-manager/internal/storage/bolt"
)

// JobState tracks a reminder job through its lifecycle.
type JobState string

const (
	JobScheduled JobState = "scheduled"
	JobRunning   JobState = "running"
	JobSucceeded JobState = "succeeded"
	JobFailed    JobState = "failed"
	JobCancelled JobState = "cancelled"
)

// Finished reports whether the state is terminal.
func (s JobState) Finished() bool {
	return s == JobSucceeded || s == JobFailed || s == JobCancelled
}

// Job is one scheduled reminder check.
type Job struct {
	ID         string    `json:"id"`
	DueDate    string    `json:"dueDate"`
	FireAt     time.Time `json:"fireAt"`
	State      JobState  `json:"state"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"startedAt,omitempty"`
	FinishedAt time.Time `json:"finishedAt,omitempty"`
}

// StaleRunAfter is how long a job may stay running before another scheduler
// treats its runner as gone and runs it again.
const StaleRunAfter = 2 * DefaultRunTimeout

// Runnable reports whether a scheduler may start the job at now: it is still
// scheduled, or its last runner stopped without recording an outcome.
func (j Job) Runnable(now time.Time) bool {
	switch j.State {
	case JobScheduled:
		return true
	case JobRunning:
		return now.Sub(j.StartedAt) > StaleRunAfter
	default:
		return false
	}
}

// JobStore persists jobs so pending reminders survive restarts and are seen
// by every process sharing the store.
type JobStore interface {
	SaveJob(job Job) error
	LoadJobs() ([]Job, error)
	// UpdateJob applies fn to the stored job in one transaction and returns
	// the job as stored afterwards. fn returns false to leave it unchanged.
	UpdateJob(id string, fn func(job *Job) bool) (stored Job, found bool, err error)
}

// Bucket holds reminder jobs in the bolt store.
const Bucket = "reminders"

// BoltJobStore keeps jobs in a bbolt bucket keyed by job id.
type BoltJobStore struct {
	db     *bolt.Store
	logger *zap.Logger
}

// NewBoltJobStore wraps db, which must have been opened with Bucket.
func NewBoltJobStore(db *bolt.Store, logger *zap.Logger) *BoltJobStore {
	return &BoltJobStore{db: db, logger: logging.OrNop(logger).Named("jobs")}
}

func (s *BoltJobStore) SaveJob(job Job) error {
	return s.db.Put(Bucket, job.ID, job)
}

// LoadJobs returns every stored job. Records that cannot be decoded are
// logged and skipped so one bad record does not disable every reminder.
func (s *BoltJobStore) LoadJobs() ([]Job, error) {
	var jobs []Job
	err := s.db.ForEach(Bucket, func(key string, raw []byte) error {
		var job Job
		if err := json.Unmarshal(raw, &job); err != nil {
			s.logger.Warn("skipping unreadable reminder job", zap.String("job_id", key), zap.Error(err))
			return nil
		}
		jobs = append(jobs, job)
		return nil
	})
	return jobs, err
}

func (s *BoltJobStore) UpdateJob(id string, fn func(job *Job) bool) (Job, bool, error) {
	var job Job
	var found bool
	err := s.db.Update(Bucket, id, &job, func(exists bool) (bool, error) {
		found = exists
		if !exists {
			return false, nil
		}
		return fn(&job), nil
	})
	if err != nil {
		return Job{}, false, err
	}
	return job, found, nil
}

// oneShot is a cron.Schedule that fires once at a fixed time, or immediately
// when that time has already passed.
type oneShot struct {
	at    time.Time
	armed atomic.Bool
}

func newOneShot(at time.Time) *oneShot {
	s := &oneShot{at: at}
	s.armed.Store(true)
	return s
}

// Next implements cron.Schedule. The zero time tells cron never to run again.
func (s *oneShot) Next(t time.Time) time.Time {
	if !s.armed.CompareAndSwap(true, false) {
		return time.Time{}
	}
	if s.at.After(t) {
		return s.at
	}
	return t
}
