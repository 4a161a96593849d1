// Package histogram buckets photo capture times into equal-width bins for
// the timeline scrubber.
package histogram
