// Package pool provides the worker pool that executes crawl tasks.
//
// Design decision: Submit spawns one goroutine per task rather than
// dispatching to a fixed set of workers because:
//  1. Submission must never block the submitter; a crawl task submits
//     children and then joins them, so a bounded dispatch queue could
//     deadlock parent against child
//  2. Goroutines are cheap enough that the frontier size is the
//     practical bound; callers limit expensive work (network fetches)
//     separately
//  3. It mirrors cached-pool semantics: idle cost is zero, growth
//     follows demand
//
// Shutdown stops intake, waits a bounded grace period for in-flight
// tasks, then cancels the pool context to abandon stragglers. A task
// abandoned at its join deadline keeps running until that final
// cancellation; this is a tolerated leak, not a hard-cancel guarantee.
package pool
