// Package workpool implements the bounded cryptographic offload pool
// described in §4.13: a process-wide cap on how many CFB-8 stream-cipher
// jobs run concurrently, so bulk encryption/decryption of large packets
// does not serialize behind a single connection's goroutine.
package workpool

import (
	"context"
	"crypto/cipher"
	"os"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/dmitrymodder/mcwire/mcerr"
	"github.com/dmitrymodder/mcwire/mclog"
	"go.uber.org/zap"
)

// Job is a cryptographic offload request: Stream's XORKeyStream is applied
// in place to the last LengthFromEnd bytes of Data (mirroring
// the source's in-place CFB-8 application over the tail of a shared
// buffer).
type Job struct {
	Data          []byte
	LengthFromEnd int
	Stream        cipher.Stream
}

// Result is delivered to a Job's completion channel once the stream cipher
// has been applied.
type Result struct {
	Data []byte
	Err  error
}

// Pool bounds how many crypto jobs run concurrently. The zero value is not
// usable; construct with New. Workers here are plain goroutines gated by a
// weighted semaphore rather than the source's explicit thread pool with an
// idle-timeout reaper: Go's scheduler already parks and reclaims idle
// goroutines for free, so the semaphore alone reproduces the concurrency
// cap without hand-rolled worker lifecycle management.
type Pool struct {
	sem     *semaphore.Weighted
	maxJobs int64
}

// maxWorkers resolves the pool's worker cap per §4.13:
// min(available_parallelism, env-configured-max), honoring
// ENCRYPTION_MAX_THREADCOUNT and, failing that, MINERS_ENCRYPTION_THREADS.
func maxWorkers() int64 {
	n := int64(runtime.GOMAXPROCS(0))
	for _, name := range []string{"ENCRYPTION_MAX_THREADCOUNT", "MINERS_ENCRYPTION_THREADS"} {
		if v := os.Getenv(name); v != "" {
			if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 {
				if parsed < n {
					n = parsed
				}
				break
			}
		}
	}
	if n < 1 {
		n = 1
	}
	return n
}

// New returns a pool capped at min(available_parallelism, env max).
func New() *Pool {
	n := maxWorkers()
	return &Pool{
		sem:     semaphore.NewWeighted(n),
		maxJobs: n,
	}
}

// MaxJobs reports the pool's concurrency cap.
func (p *Pool) MaxJobs() int64 { return p.maxJobs }

// Submit runs job on a worker, applying its stream cipher to
// job.Data[len(job.Data)-job.LengthFromEnd:] in place and returning the
// mutated slice. If ctx is cancelled before a worker slot is acquired,
// Submit returns ctx.Err() immediately without running the job.
//
// Per §4.13's cancellation contract: if the caller abandons the returned
// context before the worker finishes, the worker still completes the
// cipher operation (the in-place mutation already touched the shared
// buffer) but the result is dropped, since resultCh is buffered and never
// blocks on a missing receiver.
func (p *Pool) Submit(ctx context.Context, job Job) ([]byte, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	resultCh := make(chan Result, 1)
	go p.run(job, resultCh)

	select {
	case res := <-resultCh:
		return res.Data, res.Err
	case <-ctx.Done():
		// The goroutine still runs to completion and releases the
		// semaphore; its result lands in resultCh's buffer and is
		// never read, which is the harmless leak §4.13 describes.
		return nil, ctx.Err()
	}
}

func (p *Pool) run(job Job, resultCh chan<- Result) {
	defer p.sem.Release(1)
	start := time.Now()
	offset := len(job.Data) - job.LengthFromEnd
	if offset < 0 || offset > len(job.Data) {
		resultCh <- Result{Err: mcerr.New(mcerr.KindLengthOverflow, "workpool job length_from_end exceeds buffer length")}
		return
	}
	job.Stream.XORKeyStream(job.Data[offset:], job.Data[offset:])
	mclog.L().Debug("workpool job completed", zap.Duration("elapsed", time.Since(start)))
	resultCh <- Result{Data: job.Data}
}
