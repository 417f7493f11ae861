package worker

import (
	"context"
	"errors"
	"log"
	"runtime"
	"sync"

	"travel-ai-planner/internal/usecase"
)

var _ usecase.Enqueuer = (*Pool)(nil)

// Pool is a small bounded worker pool for plan generation tasks. Submitted
// tasks run with the pool's root context so an HTTP request finishing does
// not cancel the job it enqueued.
type Pool struct {
	wg   sync.WaitGroup
	jobs chan func(ctx context.Context) error
	quit chan struct{}
	n    int
}

func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{
		jobs: make(chan func(ctx context.Context) error, workers*4),
		quit: make(chan struct{}),
		n:    workers,
	}
}

func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.n; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-p.quit:
					return
				case task := <-p.jobs:
					if task == nil {
						continue
					}
					if err := task(ctx); err != nil {
						log.Printf("worker %d task error: %v", id, err)
					}
				}
			}
		}(i)
	}
}

func (p *Pool) Stop() {
	close(p.quit)
	p.wg.Wait()
}

// Submit rejects when the queue is full instead of blocking; the caller
// reports the job as unschedulable and the user retries.
func (p *Pool) Submit(task func(ctx context.Context) error) error {
	if task == nil {
		return errors.New("nil task")
	}
	select {
	case p.jobs <- task:
		return nil
	default:
		return errors.New("worker queue full")
	}
}
