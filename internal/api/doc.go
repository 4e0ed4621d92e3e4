// Package api exposes the read-only HTTP surface over the task service. It
// translates service results and errors into JSON responses and never
// writes to either store.
package api
