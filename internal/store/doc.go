// Package store defines interfaces for data persistence operations.
// These interfaces abstract the durable task store and the volatile urgency
// cache from the application's core logic, allowing the lifecycle rules to
// remain independent of MongoDB and Redis specifics.
package store
