// Package scheduler runs batch jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one batch run triggered by the scheduler.
type Job func(ctx context.Context) error

// Config configuration for the schedule manager
type Config struct {
	// Timeout bounds a single job run; zero means no limit.
	Timeout  time.Duration `json:"timeout"`
	Location *time.Location
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Timeout:  30 * time.Minute,
		Location: time.Local,
	}
}

// parser accepts five or six fields and descriptors such as "@every 5m".
var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ValidateSpec validates a cron expression
func ValidateSpec(spec string) error {
	_, err := parser.Parse(spec)
	return err
}

// Manager runs named jobs on cron schedules. A job whose previous run is
// still in progress skips the tick.
type Manager struct {
	cron    *cron.Cron
	jobs    map[string]cron.EntryID
	config  Config
	logger  *zap.Logger
	mu      sync.RWMutex
	running bool
	ctx     context.Context
}

// NewManager creates a new schedule manager
func NewManager(logger *zap.Logger, config Config) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Location == nil {
		config.Location = time.Local
	}

	cl := cronLogger{logger.Sugar()}
	return &Manager{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLocation(config.Location),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		jobs:   make(map[string]cron.EntryID),
		config: config,
		logger: logger,
		ctx:    context.Background(),
	}
}

// Add registers job under name. Adding a name twice replaces the schedule.
func (m *Manager) Add(spec, name string, job Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entryID, ok := m.jobs[name]; ok {
		m.cron.Remove(entryID)
	}

	entryID, err := m.cron.AddJob(spec, cron.FuncJob(func() {
		m.execute(name, job)
	}))
	if err != nil {
		return fmt.Errorf("failed to add cron job %q: %w", name, err)
	}
	m.jobs[name] = entryID

	m.logger.Info("Added schedule",
		zap.String("job", name),
		zap.String("cron", spec),
		zap.String("timezone", m.config.Location.String()))

	return nil
}

func (m *Manager) execute(name string, job Job) {
	m.mu.RLock()
	ctx := m.ctx
	m.mu.RUnlock()

	if m.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.Timeout)
		defer cancel()
	}

	started := time.Now()
	m.logger.Info("Executing scheduled job", zap.String("job", name))

	if err := job(ctx); err != nil {
		m.logger.Error("Scheduled job failed",
			zap.String("job", name),
			zap.Duration("duration", time.Since(started)),
			zap.Error(err))
		return
	}

	m.logger.Info("Scheduled job completed",
		zap.String("job", name),
		zap.Duration("duration", time.Since(started)),
		zap.Time("next_execution", m.NextRun(name)))
}

// Start starts the schedule manager. Jobs receive contexts derived from ctx.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return fmt.Errorf("schedule manager already running")
	}
	m.running = true
	m.ctx = ctx

	m.logger.Info("Starting schedule manager", zap.Int("jobs", len(m.jobs)))
	m.cron.Start()
	return nil
}

// Stop stops the schedule manager and waits for running jobs to finish.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.mu.Unlock()

	m.logger.Info("Stopping schedule manager")
	<-m.cron.Stop().Done()
}

// Run starts the manager and blocks until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) error {
	if err := m.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	m.Stop()
	return nil
}

// NextRun returns the next activation of the named job, or the zero time
// when it is unknown or the manager is not running.
func (m *Manager) NextRun(name string) time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entryID, ok := m.jobs[name]
	if !ok {
		return time.Time{}
	}
	return m.cron.Entry(entryID).Next
}

// ActiveJobs returns the number of registered jobs
func (m *Manager) ActiveJobs() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.jobs)
}

// cronLogger routes cron's own logging through zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
