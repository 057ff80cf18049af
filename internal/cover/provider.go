package cover

import "context"

// Provider is one remote cover source. Implementations return the URL of
// the best cover image for a series title, or an empty URL with a nil error
// when they have no match.
type Provider interface {
	Name() string
	LookupCoverURL(ctx context.Context, title string) (string, error)
}
