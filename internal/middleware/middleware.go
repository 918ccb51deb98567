// Package middleware holds the echo middleware of the admin API.
//
// The global chain adds request ids, tracing, request-scoped loggers and
// per-IP rate limiting. The /api/v1 group adds Clerk session verification
// followed by the admin check, which puts the resolved Principal on the
// echo context.
package middleware
