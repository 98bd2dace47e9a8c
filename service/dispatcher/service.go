// Package dispatcher hands committed transport tasks over to execution:
// workers consume the task queue and flip the ledger records from pending to
// assigned. Later lifecycle states belong to the robots downstream.
package dispatcher

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/agvsim/putaway/model"
	"github.com/agvsim/putaway/service/messaging"
)

// TaskStore is the slice of the task ledger the dispatcher needs.
type TaskStore interface {
	Save(ctx context.Context, task *model.Task) error
}

// Config represents dispatcher configuration.
type Config struct {
	// Workers is the number of concurrent queue consumers.
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// DefaultConfig returns the default dispatcher configuration.
func DefaultConfig() Config {
	return Config{Workers: 2}
}

// Service consumes committed tasks and marks them assigned.
type Service struct {
	config   Config
	queue    messaging.Queue[model.Task]
	tasks    TaskStore
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	startMux sync.Mutex
}

// New creates a dispatcher reading from the supplied queue and updating the
// supplied ledger.
func New(queue messaging.Queue[model.Task], tasks TaskStore, config Config) (*Service, error) {
	if queue == nil || tasks == nil {
		return nil, fmt.Errorf("dispatcher: queue and task store are required")
	}
	if config.Workers <= 0 {
		config.Workers = DefaultConfig().Workers
	}
	return &Service{config: config, queue: queue, tasks: tasks}, nil
}

// Start launches the consumer workers. It returns immediately; workers run
// until the context is cancelled or Shutdown is called.
func (s *Service) Start(ctx context.Context) error {
	s.startMux.Lock()
	defer s.startMux.Unlock()
	if s.cancel != nil {
		return fmt.Errorf("dispatcher: already started")
	}
	ctx, s.cancel = context.WithCancel(ctx)

	for i := 0; i < s.config.Workers; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.consume(ctx)
		}()
	}
	return nil
}

// Shutdown stops the workers and waits for them to drain.
func (s *Service) Shutdown() {
	s.startMux.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.startMux.Unlock()
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

func (s *Service) consume(ctx context.Context) {
	for {
		message, err := s.queue.Consume(ctx)
		if err != nil {
			return // context cancelled
		}
		task := message.T()
		task.Status = model.TaskStatusAssigned
		if err := s.tasks.Save(ctx, task); err != nil {
			log.Printf("dispatcher: failed to assign task %v: %v", task.TaskID, err)
			_ = message.Nack(err)
			continue
		}
		_ = message.Ack()
	}
}
