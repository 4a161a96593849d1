// Package mediatypes holds the photo file extensions the timeline understands
// and their MIME types.
//
// It has no dependencies beyond the standard library so the enumerator, the
// HTTP handlers and the CLI can all import it without cycles.
//
// Extensions are compared in lowercase with the leading dot:
//
//	ext := mediatypes.Ext(filename) // ".jpg"
//	if mediatypes.IsPhoto(ext) {
//	    // enumerate it
//	}
//
// Only JPEG and TIFF containers carry EXIF that the decoder can read; the
// other formats are listed so they still appear in the photo list. Their
// metadata decodes fail and they fall out of both views.
package mediatypes
