// Package main provides the entry point for the Photo Timeline server.
//
// Photo Timeline reads the EXIF metadata of a directory of photos and serves
// two views over it: the located photos for a map, and the dated photos in
// chronological order for a timeline scrubber.
//
// # Application Lifecycle
//
//  1. Configuration Loading: Reads environment variables and an optional config file
//  2. Metrics Initialization: Registers collectors and pre-populates labels
//  3. Component Initialization:
//     - Library: Enumerates photo files in PHOTOS_DIR
//     - Fetcher: Decodes EXIF concurrently with a bounded worker pool
//     - Indexer: Runs load cycles and publishes snapshots
//     - Event broker: Pushes view changes to connected browsers
//  4. HTTP Server Setup: Configures routes, middleware, and starts servers
//  5. Graceful Shutdown: Handles SIGINT/SIGTERM, stops all components cleanly
//
// # Background Services
//
//   - Indexer: Reloads on start, on an interval, and when the directory changes
//   - Metrics Collector: Updates library gauges every minute
//   - Metrics Server: Serves /metrics on METRICS_PORT when enabled
package main
