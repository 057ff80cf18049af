// Package archive wraps the archive-read capability used for cover extraction.
//
// Volume archives come in .cbz/.zip (zip containers, directly readable) and
// .cbr/.cb7 (rar/7z containers, enumerated as volumes but not extractable).
// The Inspector filters platform junk entries and locates the first image in
// natural order, which is the conventional cover page position.
package archive
