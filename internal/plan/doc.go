// Package plan builds the execution plan: batches, moves, and cover actions.
//
// A plan is computed once from a filesystem snapshot and never mutated
// afterwards; the apply step consumes it exactly once. Everything the user
// confirms is in the plan, so no mutation can happen that was not shown.
package plan
