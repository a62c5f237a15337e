// Package driver dispatches a timestep across a fixed worker pool, one
// goroutine per disjoint shard of the particle range, and reduces each
// worker's event counters by summation once every shard has finished.
// The shard/channel pattern follows the reference implementation's own
// render-dispatch loop: N-1 goroutines plus one shard run inline on the
// calling goroutine, with a channel carrying results back.
package driver

import (
	"fmt"
	"runtime"

	"neutron2d/particle"
	"neutron2d/physics"
)

// Driver owns the worker count used to partition a step's particles.
// The zero value uses runtime.GOMAXPROCS(0).
type Driver struct {
	Workers int
}

// workers returns the configured worker count, defaulting to
// runtime.GOMAXPROCS(0) when unset.
func (d *Driver) workers() int {
	if d.Workers > 0 {
		return d.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// shardResult carries one worker's outcome back over the reduction
// channel: its counters, or an error if its shard failed partway through.
type shardResult struct {
	counters physics.EventCounters
	err      error
}

// AdvanceOneStep partitions store's particles into contiguous shards, one
// per worker, runs engine.AdvanceParticlesOneStep over each shard
// concurrently, and returns the summed event counters. If any shard
// returns an error, AdvanceOneStep returns the first one observed after
// every shard has finished (every worker always runs to completion; a
// mid-step abort would leave other shards' particles in an undefined
// state).
func (d *Driver) AdvanceOneStep(engine *physics.EventEngine, store *particle.Store, ctx physics.StepContext, initial bool) (physics.EventCounters, error) {
	n := store.Len()
	workers := d.workers()
	if workers > n {
		workers = n
	}
	if workers <= 0 {
		return physics.EventCounters{}, nil
	}

	shardSize := (n + workers - 1) / workers
	out := make(chan shardResult, workers)

	nshards := 0
	for lo := 0; lo < n; lo += shardSize {
		hi := lo + shardSize
		if hi > n {
			hi = n
		}
		nshards++
		lo, hi := lo, hi
		run := func() {
			counters, err := engine.AdvanceParticlesOneStep(store, lo, hi, ctx, initial)
			out <- shardResult{counters: counters, err: err}
		}
		if hi < n {
			go run()
		} else {
			run()
		}
	}

	var total physics.EventCounters
	var firstErr error
	for i := 0; i < nshards; i++ {
		res := <-out
		total.Add(res.counters)
		if res.err != nil && firstErr == nil {
			firstErr = res.err
		}
	}
	if firstErr != nil {
		return total, fmt.Errorf("driver: step failed: %w", firstErr)
	}
	return total, nil
}
