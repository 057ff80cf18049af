package cover

import "fmt"

// Kind identifies where a cover image came from. The zero value is KindNone.
type Kind string

const (
	// KindNone means the resolution chain was exhausted without a result.
	KindNone Kind = ""
	// KindArchive is an image extracted from a volume archive.
	KindArchive Kind = "archive"
	// KindLocal is an existing image file in the series folder.
	KindLocal Kind = "local"
	// KindRemote is an image downloaded from a metadata provider.
	KindRemote Kind = "remote"
)

// Source is the resolved cover image and its origin. Handle the Kind
// exhaustively wherever cover files are written: KindNone carries no data
// and must skip every write.
type Source struct {
	Kind     Kind   `json:"kind"`
	Origin   string `json:"origin,omitempty"`   // archive path + entry, local path, or remote URL
	Provider string `json:"provider,omitempty"` // set for KindRemote only
	Data     []byte `json:"-"`
}

// None is the absent cover source.
func None() Source { return Source{Kind: KindNone} }

// Available reports whether the source carries usable image bytes.
func (s Source) Available() bool {
	return s.Kind != KindNone && len(s.Data) > 0
}

// Describe renders the origin for plan display and logs.
func (s Source) Describe() string {
	switch s.Kind {
	case KindArchive:
		return fmt.Sprintf("embedded (%s)", s.Origin)
	case KindLocal:
		return fmt.Sprintf("local file (%s)", s.Origin)
	case KindRemote:
		return fmt.Sprintf("remote (%s)", s.Provider)
	case KindNone:
		return "none"
	default:
		return string(s.Kind)
	}
}
