// Package batch fans independent Kernel.Generate runs out across a
// worker pool. Every run owns its own Bundle and its own placement
// Engine internally, so runs never share mutable state and can execute
// concurrently without coordination beyond result collection.
package batch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ll-scheduler-kernel/internal/kernel"
)

// Request is one bundle queued for generation.
type Request struct {
	ID      string
	Bundle  kernel.Bundle
	RNGSeed int64
}

// Outcome pairs a Request's ID with its GenerationResult and wall-clock
// duration.
type Outcome struct {
	RequestID string
	Result    kernel.GenerationResult
	Duration  time.Duration
}

// RunnerConfig configures the worker pool.
type RunnerConfig struct {
	Workers int
	Logger  *zap.Logger
}

// Runner dispatches Requests to a fixed-size pool of Kernel.Generate
// workers.
type Runner struct {
	k       *kernel.Kernel
	workers int
	logger  *zap.Logger
}

// NewRunner builds a Runner bound to k.
func NewRunner(k *kernel.Kernel, cfg RunnerConfig) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Runner{k: k, workers: cfg.Workers, logger: cfg.Logger}
}

// Run dispatches every request and blocks until all have completed or
// ctx is cancelled. Outcomes are returned in the same order as requests,
// regardless of completion order. A cancelled ctx propagates as the
// cancel channel each in-flight Generate call observes, so in-flight
// runs wind down cooperatively rather than being killed outright.
func (r *Runner) Run(ctx context.Context, requests []Request) []Outcome {
	outcomes := make([]Outcome, len(requests))
	jobs := make(chan int)
	var wg sync.WaitGroup

	cancelCh := ctx.Done()
	// kernel.Generate expects a <-chan struct{}; translate ctx.Done()'s
	// <-chan struct{} directly since the underlying type already matches.
	var kernelCancel <-chan struct{} = cancelCh

	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range jobs {
				req := requests[i]
				start := time.Now()
				result := r.k.Generate(req.Bundle, req.RNGSeed, kernelCancel)
				outcomes[i] = Outcome{RequestID: req.ID, Result: result, Duration: time.Since(start)}
				r.logger.Sugar().Infow("batch request finished",
					"worker", workerID, "request_id", req.ID,
					"events", len(result.Events), "cancelled", result.Cancelled)
			}
		}(w + 1)
	}

	go func() {
		defer close(jobs)
		for i := range requests {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()
	return outcomes
}
