// Package views derives the location and date views from a batch of photo
// records.
//
// The location view keeps every record with valid GPS, in input order. The
// date view keeps every record with a resolved capture time, sorted
// ascending with a stable sort so equal timestamps keep input order. Both
// views are freshly allocated on every call and never share backing arrays
// with earlier results.
package views
