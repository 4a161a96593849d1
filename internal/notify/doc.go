// Package notify decides when a derived view has changed enough to tell its
// consumers.
//
// A view's Signature is the canonical JSON array of its sorted item ids.
// Consumers are notified only when the signature differs from the one they
// last saw, so a rebuild that yields the same membership is silent even if
// item values (coordinates, URLs) changed.
//
// The last-seen signature lives in a Tracker owned by each consumer. Notifier
// pairs a Tracker with a callback and serializes delivery.
package notify
