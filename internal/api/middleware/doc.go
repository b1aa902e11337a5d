// Package middleware provides the HTTP middleware of the assistant API.
//
// Middleware stack includes:
//   - CORS: loopback origins plus a configured allow-list
//   - RateLimit: per-IP token bucket with idle client eviction
//   - GlobalRateLimit: one token bucket for every caller
//
// Rejected requests get a 429 whose body has the same shape as a command
// response: {"status":"error","message":"rate limit exceeded","error_kind":"Unavailable"}.
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
