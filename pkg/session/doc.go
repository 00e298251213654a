// Package session manages cookie-based browser sessions. Each session binds
// a user to the tenant it authenticated on; sessions are stored server-side
// (memory or Redis) and the cookie carries only a random token.
package session
