package replay

import (
	"context"
	"sync"

	"github.com/leterax/go-stroll/pkg/scene"
)

// SceneFactory builds a fresh scene for one script
type SceneFactory func(script *Script) (*scene.Context, error)

// Result is the outcome of one batched replay
type Result struct {
	Name       string
	Trajectory *Trajectory
	Err        error
}

type batchJob struct {
	index  int
	name   string
	script *Script
}

// Batch runs scripts on a pool of workers, each on its own scene
type Batch struct {
	ctx      context.Context
	newScene SceneFactory
	jobs     chan batchJob
	workers  sync.WaitGroup

	results   []Result
	resultsMu sync.RWMutex
	submitted int
	closed    bool
}

// NewBatch starts workers goroutines; at least one is started
func NewBatch(ctx context.Context, workers int, newScene SceneFactory) *Batch {
	if workers < 1 {
		workers = 1
	}
	b := &Batch{
		ctx:      ctx,
		newScene: newScene,
		jobs:     make(chan batchJob, workers*4),
	}
	for i := 0; i < workers; i++ {
		b.workers.Add(1)
		go b.worker()
	}
	return b
}

// Submit queues a script. It blocks while the queue is full.
func (b *Batch) Submit(name string, script *Script) {
	b.resultsMu.Lock()
	idx := b.submitted
	b.submitted++
	b.results = append(b.results, Result{Name: name})
	b.resultsMu.Unlock()

	b.jobs <- batchJob{index: idx, name: name, script: script}
}

func (b *Batch) worker() {
	defer b.workers.Done()

	for job := range b.jobs {
		var res Result
		select {
		case <-b.ctx.Done():
			res = Result{Name: job.name, Err: b.ctx.Err()}
		default:
			res = b.run(job)
		}
		b.store(job.index, res)
	}
}

func (b *Batch) run(job batchJob) Result {
	sc, err := b.newScene(job.script)
	if err != nil {
		return Result{Name: job.name, Err: err}
	}
	defer sc.Close()

	traj, err := Run(b.ctx, sc, job.script)
	return Result{Name: job.name, Trajectory: traj, Err: err}
}

func (b *Batch) store(idx int, res Result) {
	b.resultsMu.Lock()
	b.results[idx] = res
	b.resultsMu.Unlock()
}

// Wait closes the queue, waits for the workers and returns the results
// in submission order
func (b *Batch) Wait() []Result {
	b.resultsMu.Lock()
	if !b.closed {
		b.closed = true
		close(b.jobs)
	}
	b.resultsMu.Unlock()

	b.workers.Wait()

	b.resultsMu.RLock()
	defer b.resultsMu.RUnlock()
	out := make([]Result, len(b.results))
	copy(out, b.results)
	return out
}
