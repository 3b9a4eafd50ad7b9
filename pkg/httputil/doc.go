// Package httputil provides retry-with-backoff for outbound HTTP calls.
// Transient failures are marked with [RetryableError]; everything else fails
// fast.
package httputil
