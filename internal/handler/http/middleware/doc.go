// Package middleware holds the per-client-IP rate limiter for /api/* and the
// client IP extraction it keys on.
package middleware
