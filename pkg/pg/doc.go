// Package pg manages the lifecycle of the process-wide Postgres pool and
// applies embedded schema migrations with goose.
//
// Like the Redis client, the pool is constructed once at startup and passed
// explicitly to the components that persist through it.
package pg
