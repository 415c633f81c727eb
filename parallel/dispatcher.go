// Package parallel decodes multiple independent LZ4 streams concurrently.
// spec.md §5 permits parallelising across independent streams while
// forbidding it within one: this dispatcher never splits a single stream
// across workers, it only fans a batch of wholly separate byte sources out
// to a worker pool, each worker running its own sequential stream.Reader.
package parallel

import (
	"errors"
	"io"
	"runtime"
	"sync"

	"github.com/harriteja/lz4decode/frame"
	"github.com/harriteja/lz4decode/stream"
)

// DefaultNumWorkers means "use runtime.GOMAXPROCS(0)".
const DefaultNumWorkers = 0

// ErrAlreadyRunning is returned by Start when the dispatcher is already
// running.
var ErrAlreadyRunning = errors.New("parallel: dispatcher already running")

// Dispatcher manages a pool of workers that each decode one independent
// LZ4 stream end-to-end.
type Dispatcher struct {
	numWorkers int

	jobChan   chan decodeJob
	wg        sync.WaitGroup
	running   bool
	runningMu sync.Mutex
}

type decodeJob struct {
	index    int
	src      io.Reader
	opts     frame.Options
	resultCh chan<- decodeResult
}

// decodeResult is one job's outcome: Index identifies which input source
// (in the original batch order) it corresponds to.
type decodeResult struct {
	Index int
	Data  []byte
	Err   error
}

// NewDispatcher creates a dispatcher with numWorkers goroutines (0 means
// runtime.GOMAXPROCS(0)).
func NewDispatcher(numWorkers int) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	return &Dispatcher{
		numWorkers: numWorkers,
		jobChan:    make(chan decodeJob, numWorkers*2),
	}
}

// Start launches the worker goroutines.
func (d *Dispatcher) Start() error {
	d.runningMu.Lock()
	defer d.runningMu.Unlock()

	if d.running {
		return ErrAlreadyRunning
	}

	d.wg.Add(d.numWorkers)
	for i := 0; i < d.numWorkers; i++ {
		go d.worker()
	}
	d.running = true
	return nil
}

// Stop shuts down the worker goroutines and waits for them to exit.
func (d *Dispatcher) Stop() {
	d.runningMu.Lock()
	defer d.runningMu.Unlock()

	if !d.running {
		return
	}
	close(d.jobChan)
	d.wg.Wait()
	d.running = false
	d.jobChan = make(chan decodeJob, d.numWorkers*2)
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for job := range d.jobChan {
		data, err := io.ReadAll(stream.NewReader(job.src, job.opts))
		job.resultCh <- decodeResult{Index: job.index, Data: data, Err: err}
	}
}

// DecodeAll decodes each of srcs independently and concurrently, returning
// one result per source in the same order as srcs. A failure decoding one
// source does not stop the others; the first error encountered (by index)
// is also returned for convenience, or nil if all sources decoded cleanly.
func (d *Dispatcher) DecodeAll(srcs []io.Reader, opts frame.Options) ([][]byte, error) {
	if err := d.Start(); err != nil && !errors.Is(err, ErrAlreadyRunning) {
		return nil, err
	}

	resultCh := make(chan decodeResult, len(srcs))
	for i, src := range srcs {
		d.jobChan <- decodeJob{index: i, src: src, opts: opts, resultCh: resultCh}
	}

	results := make([][]byte, len(srcs))
	var firstErr error
	firstErrIndex := -1
	for range srcs {
		r := <-resultCh
		results[r.Index] = r.Data
		if r.Err != nil && (firstErr == nil || r.Index < firstErrIndex) {
			firstErr = r.Err
			firstErrIndex = r.Index
		}
	}

	return results, firstErr
}

// NumWorkers returns the number of worker goroutines.
func (d *Dispatcher) NumWorkers() int {
	return d.numWorkers
}
