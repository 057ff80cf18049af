// Package render produces the numbered cover image written into each batch
// folder. The batch number is drawn over the series cover in an embedded
// bold face, sized to fill the image inside a margin and centered on the
// measured glyph bounds.
package render
