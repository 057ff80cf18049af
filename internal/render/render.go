package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	_ "image/png" // decode registration

	_ "golang.org/x/image/webp" // decode registration
)

const minFontSize = 10

// Options controls text sizing and output encoding.
type Options struct {
	// TextScale shrinks the largest fitting font size, leaving breathing
	// room inside the margins.
	TextScale float64
	// MarginFraction is the fraction of each dimension kept clear on every
	// side when fitting the text.
	MarginFraction float64
	// JPEGQuality is the output encoder quality.
	JPEGQuality int
}

// Renderer draws a batch number dead center on a base cover image. Centering
// uses the measured glyph bounds rather than font metrics, so digits with
// uneven ink (a lone "1", descender-free numerals) still land visually
// centered.
type Renderer struct {
	font *opentype.Font
	opts Options
}

// New parses the embedded bold font and validates options.
func New(opts Options) (*Renderer, error) {
	if opts.TextScale <= 0 || opts.TextScale > 1 {
		return nil, fmt.Errorf("text scale %v out of range (0, 1]", opts.TextScale)
	}
	if opts.MarginFraction < 0 || opts.MarginFraction >= 0.5 {
		return nil, fmt.Errorf("margin fraction %v out of range [0, 0.5)", opts.MarginFraction)
	}
	if opts.JPEGQuality < 1 || opts.JPEGQuality > 100 {
		return nil, fmt.Errorf("jpeg quality %d out of range [1, 100]", opts.JPEGQuality)
	}
	parsed, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}
	return &Renderer{font: parsed, opts: opts}, nil
}

// NumberedCover decodes base (JPEG, PNG, or WebP), overlays the batch number,
// and returns the result encoded as JPEG. The output always carries the
// cover.jpg format regardless of the input encoding.
func (r *Renderer) NumberedCover(base []byte, number int) ([]byte, error) {
	if number < 1 {
		return nil, fmt.Errorf("batch number %d must be positive", number)
	}
	src, _, err := image.Decode(bytes.NewReader(base))
	if err != nil {
		return nil, fmt.Errorf("decode base cover: %w", err)
	}

	bounds := src.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, src, bounds.Min, draw.Src)

	if err := r.drawCentered(canvas, strconv.Itoa(number)); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: r.opts.JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode cover: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJPEG re-encodes any supported cover image (JPEG, PNG, WebP) as JPEG
// at the given quality. Cover artifacts are always .jpg files, whatever the
// source encoding was.
func EncodeJPEG(data []byte, quality int) ([]byte, error) {
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("jpeg quality %d out of range [1, 100]", quality)
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode cover: %w", err)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode cover: %w", err)
	}
	return buf.Bytes(), nil
}

// ReencodeJPEG re-encodes data at the renderer's configured output quality.
func (r *Renderer) ReencodeJPEG(data []byte) ([]byte, error) {
	return EncodeJPEG(data, r.opts.JPEGQuality)
}

func (r *Renderer) drawCentered(canvas *image.RGBA, text string) error {
	width := canvas.Bounds().Dx()
	height := canvas.Bounds().Dy()

	size, err := r.fitFontSize(text, width, height)
	if err != nil {
		return err
	}
	size = max(minFontSize, int(float64(size)*r.opts.TextScale))

	face, err := r.newFace(size)
	if err != nil {
		return err
	}
	defer face.Close()

	bounds, _ := font.BoundString(face, text)

	// Place the dot so the visual bounding box center lands on the image
	// center. Baseline-relative metrics alone would sit the text too high.
	cx := fixed.I(width) / 2
	cy := fixed.I(height) / 2
	dot := fixed.Point26_6{
		X: cx - (bounds.Min.X+bounds.Max.X)/2,
		Y: cy - (bounds.Min.Y+bounds.Max.Y)/2,
	}

	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  dot,
	}
	drawer.DrawString(text)
	return nil
}

// fitFontSize binary-searches the largest size whose glyph bounds fit inside
// the margins.
func (r *Renderer) fitFontSize(text string, width, height int) (int, error) {
	maxW := int(float64(width) * (1 - 2*r.opts.MarginFraction))
	maxH := int(float64(height) * (1 - 2*r.opts.MarginFraction))

	lo, hi := minFontSize, max(width, height)*5
	best := lo
	for lo <= hi {
		mid := (lo + hi) / 2
		w, h, err := r.measure(text, mid)
		if err != nil {
			return 0, err
		}
		if w <= maxW && h <= maxH {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return best, nil
}

func (r *Renderer) measure(text string, size int) (int, int, error) {
	face, err := r.newFace(size)
	if err != nil {
		return 0, 0, err
	}
	defer face.Close()

	bounds, _ := font.BoundString(face, text)
	return (bounds.Max.X - bounds.Min.X).Ceil(), (bounds.Max.Y - bounds.Min.Y).Ceil(), nil
}

func (r *Renderer) newFace(size int) (font.Face, error) {
	face, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("size font face: %w", err)
	}
	return face, nil
}
