// Package fetcher decodes and resolves the metadata of a batch of files
// concurrently.
//
// Every file is decoded exactly once on a bounded pool of goroutines
// (github.com/sourcegraph/conc/iter). Results are written into the slot of
// their input index, so the output has the same length and order as the
// input no matter how decodes interleave.
//
// A failed decode never affects other files: the file still appears in the
// output, with metadata that has no location and no date.
package fetcher
