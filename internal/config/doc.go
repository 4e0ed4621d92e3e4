// Package config handles configuration loading, parsing, and validation
// from defaults, an optional YAML file and TASKCACHE_* environment
// variables. It gives the entry point type-safe settings for the HTTP
// endpoint, the MongoDB durable store, the Redis urgency cache and password
// hashing, keeping those details out of the business logic.
package config
