// Package middleware provides HTTP middleware for the photo timeline server.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics labelled by route template
//   - gzip compression of JSON responses
//
// Photo downloads and health checks can be excluded from the request log.
// Server-sent event streams are never compressed or buffered.
package middleware
