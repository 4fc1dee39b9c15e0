package field

import (
	"errors"
	"runtime"
	"sync"
)

// parallelThreshold is the minimum sample count to use the worker pool.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 4096

// ErrPoolClosed is returned by Fill after Close.
var ErrPoolClosed = errors.New("field: pool closed")

// fillJob is one FillRegion call shared by the workers serving it.
type fillJob struct {
	field *Field
	dst   []float32
	w, h  int
	r     Region
	wg    sync.WaitGroup
}

// rowChunk represents a range of rows for a worker to sample.
type rowChunk struct {
	job    *fillJob
	y0, y1 int
}

// Pool fans grid rows over persistent worker goroutines. It is safe for
// concurrent use; concurrent fills interleave their chunks.
type Pool struct {
	numWorkers int

	mu       sync.Mutex
	workChan chan rowChunk  // sends work to workers
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	inflight sync.WaitGroup // tracks dispatched jobs
	running  bool
	closed   bool
}

// NewPool creates a pool with the given worker count (0 = GOMAXPROCS).
// Workers start on the first parallel fill.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{numWorkers: workers}
}

// Workers returns the worker count.
func (p *Pool) Workers() int { return p.numWorkers }

// startWorkers launches persistent worker goroutines. Caller holds p.mu.
func (p *Pool) startWorkers() {
	if p.running {
		return
	}
	p.workChan = make(chan rowChunk, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case chunk := <-p.workChan:
			j := chunk.job
			j.field.fillRows(j.dst, j.w, j.h, j.r, chunk.y0, chunk.y1)
			j.wg.Done()
		}
	}
}

// Close waits for in-flight fills, then stops the workers.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	running := p.running
	p.mu.Unlock()

	p.inflight.Wait()
	if running {
		close(p.stopChan)
		p.wg.Wait()
	}
}

// Fill samples the unit tile of f into dst.
func (p *Pool) Fill(f *Field, dst []float32, w, h int) error {
	return p.FillRegion(f, dst, w, h, UnitTile)
}

// FillRegion samples r into dst, splitting rows across the workers. The
// result is identical to Field.FillRegion.
func (p *Pool) FillRegion(f *Field, dst []float32, w, h int, r Region) error {
	if err := checkGrid(dst, w, h); err != nil {
		return err
	}

	// Hold the lock while dispatching so Close cannot stop the workers
	// between the check and the sends.
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	if w*h < parallelThreshold || p.numWorkers == 1 || h == 1 {
		p.mu.Unlock()
		f.fillRows(dst, w, h, r, 0, h)
		return nil
	}
	p.startWorkers()

	p.inflight.Add(1)
	defer p.inflight.Done()

	job := &fillJob{field: f, dst: dst, w: w, h: h, r: r}
	chunkRows := (h + p.numWorkers - 1) / p.numWorkers
	for y0 := 0; y0 < h; y0 += chunkRows {
		y1 := min(y0+chunkRows, h)
		job.wg.Add(1)
		p.workChan <- rowChunk{job: job, y0: y0, y1: y1}
	}
	p.mu.Unlock()

	job.wg.Wait()
	return nil
}
