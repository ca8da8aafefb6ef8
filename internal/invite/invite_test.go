package invite

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"eventInvite/internal/catalog"
)

func whiteBackground(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

func TestVisual(t *testing.T) {
	tests := []struct {
		name    string
		logical string
		visual  string
	}{
		{name: "latin unchanged", logical: "Hello (world)", visual: "Hello (world)"},
		{name: "hebrew reversed", logical: "שלום, בואו!", visual: "!ואוב ,םולש"},
		{name: "numbers keep order", logical: "בתאריך 05/03/2027 בשעה 20:00", visual: "20:00 העשב 05/03/2027 ךיראתב"},
		{name: "brackets mirror", logical: "חברת (אבג)", visual: "(גבא) תרבח"},
		{name: "latin inside hebrew", logical: "אולם Royal Garden", visual: "Royal Garden םלוא"},
		{name: "phone number", logical: "טלפון 050-1234567", visual: "050-1234567 ןופלט"},
		{name: "empty", logical: "", visual: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Visual(tt.logical); got != tt.visual {
				t.Errorf("Visual(%q) = %q, want %q", tt.logical, got, tt.visual)
			}
		})
	}
}

func TestComposeKeepsOverlay(t *testing.T) {
	c := NewComposer()
	builtin := catalog.Font{Key: "builtin"}

	res, err := c.Compose(whiteBackground(300, 200), "שלום, בואו!", builtin)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if res.Text != "שלום, בואו!" {
		t.Errorf("Expected overlay text to round-trip, got %q", res.Text)
	}
	if res.FontKey != "builtin" {
		t.Errorf("Expected font builtin, got %q", res.FontKey)
	}

	img, err := jpeg.Decode(bytes.NewReader(res.Image))
	if err != nil {
		t.Fatalf("Result is not a JPEG: %v", err)
	}
	if img.Bounds().Dx() != 300 || img.Bounds().Dy() != 200 {
		t.Errorf("Expected 300x200, got %v", img.Bounds())
	}
}

func TestComposeDrawsCenteredText(t *testing.T) {
	c := NewComposer()
	res, err := c.Compose(whiteBackground(400, 400), "HELLO\nWORLD", catalog.Font{Key: "builtin"})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(res.Image))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	dark := func(r image.Rectangle) bool {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
				if g.Y < 100 {
					return true
				}
			}
		}
		return false
	}

	if !dark(image.Rect(150, 170, 250, 230)) {
		t.Error("Expected text pixels around the centre")
	}
	if dark(image.Rect(0, 0, 400, 100)) || dark(image.Rect(0, 300, 400, 400)) {
		t.Error("Expected no text far from the centre")
	}
}

func TestComposeBlankTextAndEmptyImage(t *testing.T) {
	c := NewComposer()
	res, err := c.Compose(whiteBackground(50, 50), "  ", catalog.Font{})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if res.Text != " " {
		t.Errorf("Blank text should become a single space, got %q", res.Text)
	}

	if _, err := c.Compose(image.NewRGBA(image.Rect(0, 0, 0, 0)), "x", catalog.Font{}); err != ErrEmptyBackground {
		t.Errorf("Expected ErrEmptyBackground, got %v", err)
	}
}

func TestComposeMissingFontFile(t *testing.T) {
	c := NewComposer()
	if _, err := c.Compose(whiteBackground(10, 10), "x", catalog.Font{Key: "gone", File: "/no/such/font.ttf"}); err == nil {
		t.Error("Expected an error for a missing font file")
	}
}

const hebrewSample = "שלום, בואו!"

func TestDefaultCatalogFontHasHebrew(t *testing.T) {
	cat, err := catalog.Load("../../catalog/designs.yaml")
	if err != nil {
		t.Fatalf("Load catalog: %v", err)
	}
	f, err := cat.Font("")
	if err != nil {
		t.Fatalf("Default font: %v", err)
	}

	parsed, err := NewComposer().font(f)
	if err != nil {
		t.Fatalf("Default font %q does not load: %v", f.Key, err)
	}
	has := covers(parsed)
	for _, r := range hebrewSample {
		if !has(r) {
			t.Errorf("Default font %q has no glyph for %q", f.Key, r)
		}
	}
}

func TestShippedFontsCompose(t *testing.T) {
	cat, err := catalog.Load("../../catalog/designs.yaml")
	if err != nil {
		t.Fatalf("Load catalog: %v", err)
	}
	if len(cat.Fonts) == 0 {
		t.Fatal("Expected at least one usable font")
	}

	c := NewComposer()
	for _, entry := range cat.Fonts {
		t.Run(entry.Key, func(t *testing.T) {
			f, err := cat.Font(entry.Key)
			if err != nil {
				t.Fatalf("Font: %v", err)
			}
			res, err := c.Compose(whiteBackground(300, 200), hebrewSample, f)
			if err != nil {
				t.Fatalf("Compose: %v", err)
			}
			if res.FontKey != entry.Key {
				t.Errorf("Expected font %q, got %q", entry.Key, res.FontKey)
			}
		})
	}
}

func TestFallbackFaceFillsMissingGlyphs(t *testing.T) {
	c := NewComposer()
	latin, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	builtin, err := c.font(catalog.Font{})
	if err != nil {
		t.Fatal(err)
	}
	if covers(latin)('ש') {
		t.Fatal("Go Regular unexpectedly covers Hebrew")
	}

	face, err := c.face(latin, 20)
	if err != nil {
		t.Fatalf("face: %v", err)
	}
	defer face.Close()
	if _, ok := face.(*fallbackFace); !ok {
		t.Fatalf("Expected a fallback face, got %T", face)
	}

	opts := &opentype.FaceOptions{Size: 20, DPI: 72, Hinting: font.HintingFull}
	latinFace, _ := opentype.NewFace(latin, opts)
	builtinFace, _ := opentype.NewFace(builtin, opts)
	defer latinFace.Close()
	defer builtinFace.Close()

	got, _ := face.GlyphAdvance('ש')
	want, _ := builtinFace.GlyphAdvance('ש')
	if got != want {
		t.Errorf("Hebrew advance = %v, want the built-in face's %v", got, want)
	}
	got, _ = face.GlyphAdvance('A')
	want, _ = latinFace.GlyphAdvance('A')
	if got != want {
		t.Errorf("Latin advance = %v, want the selected face's %v", got, want)
	}

	self, err := c.face(builtin, 20)
	if err != nil {
		t.Fatal(err)
	}
	defer self.Close()
	if _, ok := self.(*fallbackFace); ok {
		t.Error("The built-in font should not be wrapped")
	}
}
