// worker/pool.go
package worker

import (
	"context"
	"sync"
)

type Job[T any] func(ctx context.Context) (T, error)

type Result[T any] struct {
	JobID  int
	Output T
	Err    error
}

type Pool[T any] struct {
	ctx     context.Context
	jobs    chan jobWrapper[T]
	results chan Result[T]
	wg      sync.WaitGroup
}

type jobWrapper[T any] struct {
	id int
	fn Job[T]
}

// NewPool starts workerCount workers. Jobs see ctx; a job submitted after
// ctx is done still runs and should return ctx.Err() itself.
func NewPool[T any](ctx context.Context, workerCount int, bufferSize int) *Pool[T] {
	if workerCount < 1 {
		workerCount = 1
	}
	p := &Pool[T]{
		ctx:     ctx,
		jobs:    make(chan jobWrapper[T], bufferSize),
		results: make(chan Result[T], bufferSize),
	}

	p.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go p.worker()
	}
	go func() {
		p.wg.Wait()
		close(p.results)
	}()

	return p
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		output, err := job.fn(p.ctx)
		p.results <- Result[T]{
			JobID:  job.id,
			Output: output,
			Err:    err,
		}
	}
}

func (p *Pool[T]) Submit(id int, fn Job[T]) {
	p.jobs <- jobWrapper[T]{id: id, fn: fn}
}

// Close stops accepting jobs. Results is closed once every submitted job
// has reported.
func (p *Pool[T]) Close() {
	close(p.jobs)
}

func (p *Pool[T]) Results() <-chan Result[T] {
	return p.results
}

// RunOrdered runs jobs on workerCount workers and returns their outputs in
// job order. The first failure cancels the remaining jobs and is the error
// returned.
func RunOrdered[T any](ctx context.Context, workerCount int, jobs []Job[T]) ([]T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := NewPool[T](ctx, workerCount, len(jobs))
	for i, fn := range jobs {
		p.Submit(i, fn)
	}
	p.Close()

	outputs := make([]T, len(jobs))
	var firstErr error
	for res := range p.Results() {
		if res.Err != nil {
			if firstErr == nil {
				firstErr = res.Err
				cancel()
			}
			continue
		}
		outputs[res.JobID] = res.Output
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return outputs, nil
}
