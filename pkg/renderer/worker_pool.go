package renderer

import (
	"context"
	"runtime"
	"sync"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile       *Tile
	PixelStats [][]PixelStats // Shared pixel grid; tiles never overlap so no locking is needed
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TileID  int
	Samples int
	Err     error
}

// WorkerPool manages parallel tile rendering
type WorkerPool struct {
	renderer    *TileRenderer
	taskQueue   chan TileTask
	resultQueue chan TileResult
	numWorkers  int
	wg          sync.WaitGroup
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// numWorkers <= 0 uses one worker per CPU. queueSize bounds the task and result buffers.
func NewWorkerPool(renderer *TileRenderer, numWorkers, queueSize int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		renderer:    renderer,
		taskQueue:   make(chan TileTask, queueSize),
		resultQueue: make(chan TileResult, queueSize),
		numWorkers:  numWorkers,
	}
}

// Start begins all workers. Workers stop rendering once ctx is done and report
// the remaining tasks as failed with ctx's error.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.run(ctx)
	}
}

// Stop closes the task queue and waits for workers to drain it
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask submits a tile task to the worker pool
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed tile result
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (wp *WorkerPool) run(ctx context.Context) {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		if err := ctx.Err(); err != nil {
			wp.resultQueue <- TileResult{TileID: task.Tile.ID, Err: err}
			continue
		}

		samples := wp.renderer.RenderTile(task.Tile, task.PixelStats)
		wp.resultQueue <- TileResult{TileID: task.Tile.ID, Samples: samples}
	}
}
