// Package library enumerates the photo files of a directory.
//
// An Enumerator lists regular files whose extension is a supported photo
// format (see mediatypes), skipping hidden entries, sorted by filename. Each
// file gets a URL under the configured prefix so clients can fetch it from
// the static file route.
//
// A missing photo directory is not an error: the library is simply empty
// until the directory appears. Any other read error fails the enumeration.
package library
