// Package invite draws the invitation text over a design background and
// encodes the result as JPEG.
package invite

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	_ "image/png"
	"math"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"eventInvite/internal/catalog"
)

const (
	ContentType = "image/jpeg"
	jpegQuality = 90

	fontScale  = 0.04
	lineFactor = 1.4
)

var ErrEmptyBackground = errors.New("background image is empty")

// builtinTTF is DejaVu Sans. It covers Hebrew and Latin, backs the catalog's
// file-less font and fills in runes a catalog font has no glyph for.
//
//go:embed fonts/DejaVuSans.ttf
var builtinTTF []byte

// Result is the composed invitation together with the overlay it carries.
type Result struct {
	Image   []byte
	Text    string
	FontKey string
	Width   int
	Height  int
}

// Composer caches parsed font files between calls.
type Composer struct {
	mu    sync.Mutex
	fonts map[string]*opentype.Font
}

func NewComposer() *Composer {
	return &Composer{fonts: make(map[string]*opentype.Font)}
}

func (c *Composer) font(f catalog.Font) (*opentype.Font, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if parsed, ok := c.fonts[f.File]; ok {
		return parsed, nil
	}

	data := builtinTTF
	if f.File != "" {
		b, err := os.ReadFile(f.File)
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", f.Key, err)
		}
		data = b
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", f.Key, err)
	}
	c.fonts[f.File] = parsed
	return parsed, nil
}

// face opens parsed at size. Fonts other than the built-in one are wrapped so
// runes they lack are drawn with the built-in face instead of a missing-glyph box.
func (c *Composer) face(parsed *opentype.Font, size float64) (font.Face, error) {
	builtin, err := c.font(catalog.Font{})
	if err != nil {
		return nil, err
	}
	opts := &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull}
	primary, err := opentype.NewFace(parsed, opts)
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	if parsed == builtin {
		return primary, nil
	}
	fallback, err := opentype.NewFace(builtin, opts)
	if err != nil {
		primary.Close()
		return nil, fmt.Errorf("fallback face: %w", err)
	}
	return &fallbackFace{primary: primary, fallback: fallback, has: covers(parsed)}, nil
}

// covers reports whether f maps r to a real glyph. The returned func is not
// safe for concurrent use.
func covers(f *opentype.Font) func(r rune) bool {
	var buf sfnt.Buffer
	return func(r rune) bool {
		i, err := f.GlyphIndex(&buf, r)
		return err == nil && i != 0
	}
}

type fallbackFace struct {
	primary  font.Face
	fallback font.Face
	has      func(r rune) bool
}

func (f *fallbackFace) pick(r rune) font.Face {
	if f.has(r) {
		return f.primary
	}
	return f.fallback
}

func (f *fallbackFace) Close() error {
	return errors.Join(f.primary.Close(), f.fallback.Close())
}

func (f *fallbackFace) Glyph(dot fixed.Point26_6, r rune) (image.Rectangle, image.Image, image.Point, fixed.Int26_6, bool) {
	return f.pick(r).Glyph(dot, r)
}

func (f *fallbackFace) GlyphBounds(r rune) (fixed.Rectangle26_6, fixed.Int26_6, bool) {
	return f.pick(r).GlyphBounds(r)
}

func (f *fallbackFace) GlyphAdvance(r rune) (fixed.Int26_6, bool) {
	return f.pick(r).GlyphAdvance(r)
}

func (f *fallbackFace) Kern(r0, r1 rune) fixed.Int26_6 {
	if f.has(r0) && f.has(r1) {
		return f.primary.Kern(r0, r1)
	}
	return 0
}

func (f *fallbackFace) Metrics() font.Metrics {
	return f.primary.Metrics()
}

// LoadBackground decodes a JPEG or PNG design file.
func LoadBackground(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open background: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode background: %w", err)
	}
	return img, nil
}

// Compose draws text centred on bg: font size is 4% of the image height, lines
// are trimmed and spaced 1.4 sizes apart, and the block is centred vertically.
func (c *Composer) Compose(bg image.Image, text string, f catalog.Font) (*Result, error) {
	b := bg.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, ErrEmptyBackground
	}
	if strings.TrimSpace(text) == "" {
		text = " "
	}

	parsed, err := c.font(f)
	if err != nil {
		return nil, err
	}

	size := math.Max(1, math.Floor(float64(b.Dy())*fontScale))
	face, err := c.face(parsed, size)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), bg, b.Min, draw.Src)

	lines := strings.Split(text, "\n")
	lineHeight := size * lineFactor
	startY := (float64(b.Dy()) - lineHeight*float64(len(lines))) / 2

	m := face.Metrics()
	// Shift from the line's middle to its baseline.
	middle := (m.Ascent - m.Descent) / 2

	d := &font.Drawer{Dst: dst, Src: image.Black, Face: face}
	for i, line := range lines {
		s := Visual(strings.TrimSpace(line))
		width := d.MeasureString(s)
		y := fixed.Int26_6((startY + float64(i)*lineHeight) * 64)
		d.Dot = fixed.Point26_6{
			X: fixed.I(b.Dx())/2 - width/2,
			Y: y + middle,
		}
		d.DrawString(s)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode invitation: %w", err)
	}

	return &Result{
		Image:   buf.Bytes(),
		Text:    text,
		FontKey: f.Key,
		Width:   b.Dx(),
		Height:  b.Dy(),
	}, nil
}
