// Package covercache provides a local cache of resolved cover image URLs.
//
// Each entry maps a provider name plus a normalized series title to the URL
// the provider resolved, so repeat runs over the same library skip the
// network round trips entirely. Negative results (provider queried, no
// match) are cached too.
//
// The cache is stored as a human-readable JSON file at a configurable path
// (default: ~/.cache/tanko/covers.json) and written atomically.
package covercache
