// Package meilisearch implements the search engine port over the
// Meilisearch HTTP API.
//
// Meilisearch applies every mutation asynchronously as a task. Each
// mutating call here enqueues its task and then polls until the task has
// finished, so callers observe the engine in its final state. A task that
// finishes in any status other than succeeded is returned as a
// [*TaskFailedError].
package meilisearch
