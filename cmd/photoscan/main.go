// Command photoscan reads the EXIF metadata of a photo directory and prints
// the location view, the timeline and its histogram without starting the
// server.
//
// Usage:
//
//	photoscan scan ./photos
//	photoscan scan ./photos --recursive --timezone Europe/Paris --json
//	photoscan histogram ./photos --buckets 12
//	photoscan version
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
