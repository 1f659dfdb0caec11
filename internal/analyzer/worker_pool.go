package analyzer

import (
	"runtime"
	"sync"
)

// WorkerPool runs CPU-bound analysis jobs concurrently. Batch dataset
// estimation submits one job per image and waits for the batch to drain.
type WorkerPool struct {
	workers  int
	jobQueue chan func()
	wg       sync.WaitGroup
	once     sync.Once
}

// NewWorkerPool creates a worker pool; workers <= 0 uses the CPU count.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &WorkerPool{
		workers:  workers,
		jobQueue: make(chan func(), workers*2),
	}
}

// Start launches the workers. Calling Start more than once is a no-op.
func (wp *WorkerPool) Start() {
	wp.once.Do(func() {
		for i := 0; i < wp.workers; i++ {
			go wp.worker()
		}
	})
}

func (wp *WorkerPool) worker() {
	for job := range wp.jobQueue {
		job()
		wp.wg.Done()
	}
}

// Submit queues a job. Blocks when the queue is full, which bounds memory
// for large batches.
func (wp *WorkerPool) Submit(job func()) {
	wp.wg.Add(1)
	wp.jobQueue <- job
}

// Wait blocks until all submitted jobs have finished.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Close shuts down the pool. Submit must not be called after Close.
func (wp *WorkerPool) Close() {
	close(wp.jobQueue)
}
