// Package worker runs fire-and-forget jobs on a fixed number of goroutines.
package worker

import (
	"errors"
	"runtime/debug"
	"sync"

	"seungpyo.lee/PersonalBlog/internal/metrics"
	"seungpyo.lee/PersonalBlog/pkg/logger"
)

// ErrPoolStopped is returned by Submit after Stop.
var ErrPoolStopped = errors.New("worker pool stopped")

type task func()

type Pool struct {
	wg      sync.WaitGroup
	mu      sync.RWMutex
	stopped bool
	jobs    chan task
	log     *logger.Logger
}

// NewPool starts n workers reading from a queue of the given capacity.
func NewPool(n, queueSize int, log *logger.Logger) *Pool {
	if n < 1 {
		n = 1
	}
	if log == nil {
		log = logger.NewNop()
	}
	p := &Pool{jobs: make(chan task, queueSize), log: log}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				metrics.WorkerQueueDepth.Set(float64(len(p.jobs)))
				p.run(job)
			}
		}()
	}
	return p
}

// run keeps one panicking job from taking the worker down with it.
func (p *Pool) run(job task) {
	defer func() {
		if r := recover(); r != nil {
			metrics.WorkerPanicsTotal.Inc()
			p.log.Error("worker job panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	job()
}

// Submit queues f. It blocks while the queue is full.
func (p *Pool) Submit(f func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrPoolStopped
	}
	p.jobs <- f
	metrics.WorkerQueueDepth.Set(float64(len(p.jobs)))
	return nil
}

// Stop refuses new jobs, drains the queue and waits for the workers to exit.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}
