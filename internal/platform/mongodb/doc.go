// Package mongodb provides MongoDB implementations of the durable store
// interfaces defined in the internal/store package. It owns the canonical
// user and task documents, connection setup, and the mapping of driver
// errors onto the store error taxonomy.
package mongodb
