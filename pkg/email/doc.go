// Package email sends transactional mail through Postmark, with a
// file-based sender for development.
package email
