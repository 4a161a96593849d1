// Package indexer runs load cycles that turn the photo directory into the
// published location and date views.
//
// A load cycle lists the photo files, fetches their metadata concurrently,
// builds both views and publishes them as an immutable Snapshot. Consumers
// registered with SetOnLocationViewChange and SetOnDateViewChange are called
// after publication, and only when a view's membership changed.
//
// Cycles are started by:
//   - Start: an initial load in the background
//   - Periodic reload: every ReloadInterval
//   - File watching: fsnotify events on the photo directory, debounced
//   - Manual trigger: TriggerLoad, or Load for a synchronous cycle
//
// Each cycle carries a UUID and a sequence number. Starting a cycle cancels
// the one before it, and a cycle that finishes after a newer one started is
// discarded with ErrSuperseded, so stale results never overwrite newer state.
package indexer
