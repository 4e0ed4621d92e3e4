// Package redis implements the urgency cache on top of go-redis. Each urgent
// task is stored as a JSON snapshot under "task_<id>" with a fixed one-hour
// expiry, and the adapter transparently re-establishes its connection before
// every operation if it has been closed.
package redis
