// Package metadata normalizes raw tag dictionaries produced by an image
// metadata decoder into a NormalizedMetadata record.
//
// Resolution never fails: a missing dictionary, an unparseable date or a
// non-finite coordinate simply leaves the corresponding field absent.
//
// The capture time is taken from the first usable candidate of:
//
//	DateTimeOriginal -> CreateDate -> tag 36867 -> tag 306
//
// GPS coordinates are only reported as a complete, finite pair.
package metadata
