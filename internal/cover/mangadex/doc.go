// Package mangadex looks up volume-1 cover art through the MangaDex API.
//
// MangaDex is the only provider with per-volume cover entries, so the lookup
// insists on an explicit volume-1 cover and reports no match otherwise; the
// chain then falls through to providers that only carry a series image.
package mangadex
