// Package cover resolves the base cover image for a series.
//
// Resolution walks a fixed preference chain: the first image embedded in the
// lowest-numbered volume archive (only that volume is consulted; an
// unsupported or image-less archive falls through), then a known local cover file
// in the series folder, then the remote providers MangaDex, AniList, and
// Kitsu in that order. Remote lookups run concurrently for latency but the
// winner is always chosen by chain position, never by arrival time. When the
// whole chain comes up empty the resolver reports an absent source; all
// cover writes are skipped in that case.
package cover
