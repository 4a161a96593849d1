// Package handlers provides HTTP request handlers for the photo timeline API.
//
// It includes handlers for:
//   - Photo listing and on-demand metadata lookup
//   - The location and timeline views, with range filtering
//   - The timeline histogram
//   - Manual reloads and the view change event stream
//   - Health checks, stats and version information
//   - Serving the photo files themselves
package handlers
