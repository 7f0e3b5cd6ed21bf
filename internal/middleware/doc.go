// Package middleware provides HTTP middleware for the Places API.
//
// # Available Middleware
//
//   - RequestID: assigns or propagates X-Request-ID
//   - Logger: one structured log line per request
//   - Recovery: turns panics into a problem+json 500
//   - Metrics: request counter and latency by route pattern
//   - Auth: bearer token validation, preflight requests pass through
//   - ImageUpload: multipart image intake into a storage.Store
//
// # Authentication
//
//	r.With(middleware.Auth(credentials)).Post("/api/places", h.CreatePlace)
//
// After authentication, handlers read the canonical user id:
//
//	userID := middleware.GetUserID(r.Context())
//
// # Uploads
//
// ImageUpload stores the file before the handler runs and removes it again
// when the handler answers with a 4xx or 5xx status:
//
//	path := middleware.GetImagePath(r.Context())
package middleware
