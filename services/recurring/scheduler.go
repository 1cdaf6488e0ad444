package recurring

import (
	"context"
	"fmt"
	"sync"
	"time"

	"caseflow/models"
	"caseflow/utils"

	"go.uber.org/zap"
)

// Action is the unit of work a recurring task executes.
type Action func(ctx context.Context) error

type task struct {
	name   string
	rule   models.RecurrenceRule
	action Action
}

// TaskScheduler drives periodic maintenance jobs from recurrence
// rules. Each task is a self-rearming timer chain: the next occurrence
// is armed only after the current action returns, so two invocations
// of the same task never run concurrently. An action failure or panic
// is logged and contained; it never breaks the chain. Different tasks
// run independently of each other.
type TaskScheduler struct {
	clock  utils.Clock
	logger *zap.Logger

	mu      sync.Mutex
	tasks   []*task
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewTaskScheduler constructs a stopped scheduler.
func NewTaskScheduler(clock utils.Clock, logger *zap.Logger) *TaskScheduler {
	if clock == nil {
		clock = utils.SystemClock()
	}
	if logger == nil {
		logger = utils.GetLogger()
	}
	return &TaskScheduler{clock: clock, logger: logger}
}

// Schedule registers a task. The rule is validated by computing its
// next occurrence once; a rule that cannot produce one is rejected.
// Scheduling onto a running scheduler arms the task immediately.
func (s *TaskScheduler) Schedule(name string, rule models.RecurrenceRule, action Action) error {
	if action == nil {
		return fmt.Errorf("recurring: task %q has no action", name)
	}
	if _, err := rule.NextAfter(s.clock.Now()); err != nil {
		return fmt.Errorf("recurring: task %q: %w", name, err)
	}

	t := &task{name: name, rule: rule, action: action}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, t)
	if s.running {
		s.wg.Add(1)
		go s.run(s.ctx, t)
	}
	return nil
}

// Start arms every registered task.
func (s *TaskScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.running = true
	for _, t := range s.tasks {
		s.wg.Add(1)
		go s.run(s.ctx, t)
	}
}

// Stop cancels all timer chains and waits for in-flight actions to
// return. Armed but unfired timers are drained, not leaked.
func (s *TaskScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
}

func (s *TaskScheduler) run(ctx context.Context, t *task) {
	defer s.wg.Done()
	for {
		now := s.clock.Now()
		next, err := t.rule.NextAfter(now)
		if err != nil {
			// Rules are validated at Schedule time; a failure here means
			// the rule cannot rearm, so the chain must end.
			s.logger.Error("recurring task cannot compute next occurrence; stopping chain",
				zap.String("task", t.name), zap.Error(err))
			return
		}

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		s.invoke(ctx, t)

		// Occurrences that fell due while the action was still running
		// are skipped rather than run concurrently with it.
		if due, nerr := t.rule.NextAfter(next); nerr == nil && !s.clock.Now().Before(due) {
			s.logger.Warn("recurring task overran its period; skipping missed occurrences",
				zap.String("task", t.name), zap.Time("missed", due))
		}
	}
}

// invoke executes the action, containing errors and panics so the
// chain unconditionally rearms afterwards.
func (s *TaskScheduler) invoke(ctx context.Context, t *task) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("recurring task panicked",
				zap.String("task", t.name), zap.Any("panic", r))
		}
	}()
	start := s.clock.Now()
	if err := t.action(ctx); err != nil {
		s.logger.Error("recurring task failed",
			zap.String("task", t.name), zap.Error(err))
		return
	}
	s.logger.Debug("recurring task finished",
		zap.String("task", t.name), zap.Duration("took", s.clock.Now().Sub(start)))
}
