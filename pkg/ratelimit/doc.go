// Package ratelimit provides a fixed-window request limiter with in-memory
// and Redis-backed counter stores, plus HTTP middleware for guarding
// endpoints such as login.
package ratelimit
