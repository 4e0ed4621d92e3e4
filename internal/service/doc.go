// Package service implements the task lifecycle: creating, completing and
// deleting tasks in the durable store while keeping the urgency cache in
// step, plus the read paths over both stores.
//
// The durable store is authoritative. Every write goes to it first; the cache
// is then updated on a best-effort basis, and a cache failure never changes
// the outcome reported for the durable operation.
package service
