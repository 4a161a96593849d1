/*
Package workers sizes worker pools in containerized environments.

runtime.NumCPU reports the host's CPU count, while GOMAXPROCS follows the
container CPU limit (Go 1.19+). A pod limited to 2 cores on a 64-core node
should not start 64 decoders, so every helper here starts from GOMAXPROCS:

	// metadata decoding is I/O-bound: 2 workers per CPU, at most 16
	n := workers.ForIO(16)

The DECODE_WORKERS environment variable overrides the computed count. The
limit still applies to the override.
*/
package workers
