// Package exif decodes photo files into the raw tag dictionary consumed by
// the metadata resolver.
//
// Decoding uses github.com/rwcarlsen/goexif. The decoder emits only the tags
// the resolver looks at:
//
//	DateTimeOriginal  EXIF DateTimeOriginal, as the raw string
//	CreateDate        EXIF DateTimeDigitized, as the raw string
//	"36867"           DateTimeOriginal again, under its numeric tag id
//	"306"             IFD0 DateTime (file modification time)
//	latitude          signed decimal degrees from the GPS IFD
//	longitude         signed decimal degrees from the GPS IFD
//	Make, Model       camera identification, informational
//
// No interpretation happens here: date strings are passed through untouched
// and a missing tag is simply absent from the map.
package exif
