// Package sweeper walks every Pages project of an account and deletes the
// deployments the retention policy does not keep.
//
// # Control Flow
//
// A run pulls projects one at a time from a lazy pager. For each project it
// creates a fresh retention.Evaluator and pulls deployments, newest first,
// one page at a time. Every deployment is evaluated and, if it is not kept,
// handed to the Executor before the next one is looked at. Nothing holds a
// full deployment list in memory and there is no parallelism.
//
// # Failure Handling
//
//   - Projects or deployments with missing fields are logged and skipped.
//   - A failure listing projects ends the run with an error.
//   - A failure listing a project's deployments, or deleting one of them,
//     ends that project; the run moves on and reports every such failure
//     in its final error.
//   - Cancellation is checked before each page fetch and each delete. A
//     delete that has started is allowed to finish.
//
// # Scheduling
//
// Scheduler runs a Sweeper on a cron schedule. Runs never overlap: a tick
// that fires while a run is in progress is skipped.
package sweeper
