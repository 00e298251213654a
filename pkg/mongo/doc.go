// Package mongo provides MongoDB connection management: environment-driven
// configuration, connect retries for transient failures, and a health check
// for orchestration.
package mongo
