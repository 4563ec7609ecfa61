// Package retention decides which Pages deployments to keep and which to
// delete.
//
// # Rules
//
// Deployments are evaluated one at a time in the order the platform lists
// them (newest first). For each deployment the Evaluator first bumps exactly
// one running counter (success, or failed for every other status) and then
// applies the first matching rule:
//
//  1. Active alias: the deployment serves live traffic and is always kept.
//  2. Recent: created within RetainRecentDays of the run start (inclusive).
//  3. First N succeeded: one of the first RetainSuccessCount successes.
//  4. First N failed: one of the first RetainFailedCount non-successes.
//  5. Otherwise the deployment is deleted.
//
// Counters include the deployment being evaluated, so a RetainSuccessCount of
// 1 keeps only the first success and 0 keeps none by count.
//
// # Usage
//
//	now := time.Now()
//	eval := retention.NewEvaluator(policy, now) // one per project
//	for pager.Next(ctx) {
//	    decision, err := eval.Evaluate(pager.Value())
//	    if err != nil {
//	        // malformed deployment: warn and move on, counters untouched
//	        continue
//	    }
//	    if decision.Action == retention.ActionDelete {
//	        // hand off to the executor before reading the next deployment
//	    }
//	}
//
// The Evaluator is pure apart from its counters: identical input streams with
// the same now produce identical decisions.
package retention
