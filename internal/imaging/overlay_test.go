package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#7FFA02", color.RGBA{127, 250, 2, 255}, false},
		{"#03f06c", color.RGBA{3, 240, 108, 255}, false},
		{"FF0000", color.RGBA{255, 0, 0, 255}, false},
		{"#FFF", color.RGBA{255, 255, 255, 255}, false},
		{"", color.RGBA{}, true},
		{"#GG0000", color.RGBA{}, true},
		{"red", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseColorOr(t *testing.T) {
	if got := ParseColorOr("", DefaultMarkerColor); got != (color.RGBA{3, 240, 108, 255}) {
		t.Errorf("empty: got %v", got)
	}
	if got := ParseColorOr("nonsense", DefaultEdgeColor); got != (color.RGBA{127, 250, 2, 255}) {
		t.Errorf("invalid: got %v", got)
	}
	if got := ParseColorOr("#0000FF", DefaultEdgeColor); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("valid: got %v", got)
	}
}

func TestEdgeOverlay(t *testing.T) {
	src := solidImage(5, 5, color.RGBA{10, 20, 30, 255})
	mask := image.NewGray(image.Rect(0, 0, 5, 5))
	mask.SetGray(2, 2, color.Gray{Y: 255})
	mask.SetGray(3, 2, color.Gray{Y: 127})

	edge := color.RGBA{127, 250, 2, 255}
	out, err := EdgeOverlay(src, mask, edge)
	if err != nil {
		t.Fatalf("EdgeOverlay failed: %v", err)
	}

	if got := out.RGBAAt(2, 2); got != edge {
		t.Errorf("edge pixel: got %v, want %v", got, edge)
	}
	if got := out.RGBAAt(3, 2); got != (color.RGBA{10, 20, 30, 255}) {
		t.Errorf("weak pixel should not be painted: got %v", got)
	}
	if got := src.RGBAAt(2, 2); got != (color.RGBA{10, 20, 30, 255}) {
		t.Error("EdgeOverlay modified the source")
	}
}

func TestEdgeOverlay_SizeMismatch(t *testing.T) {
	src := solidImage(5, 5, color.Black)
	mask := image.NewGray(image.Rect(0, 0, 4, 5))
	if _, err := EdgeOverlay(src, mask, color.White); err == nil {
		t.Error("expected error for mismatched sizes")
	}
}

func TestDrawMarker(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 12, 12))
	c := color.RGBA{3, 240, 108, 255}

	DrawMarker(img, image.Pt(5, 5), 2, c)

	inside := []image.Point{{5, 5}, {7, 5}, {5, 3}, {6, 6}}
	for _, p := range inside {
		if img.RGBAAt(p.X, p.Y) != c {
			t.Errorf("point %v should be marked", p)
		}
	}
	outside := []image.Point{{7, 7}, {8, 5}, {0, 0}}
	for _, p := range outside {
		if img.RGBAAt(p.X, p.Y) == c {
			t.Errorf("point %v should not be marked", p)
		}
	}
}

func TestDrawMarker_ClipsAtBorder(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	c := color.RGBA{255, 0, 0, 255}

	DrawMarker(img, image.Pt(0, 0), 3, c)
	DrawMarker(img, image.Pt(-1, 2), 0, c)

	if img.RGBAAt(0, 0) != c {
		t.Error("corner should be marked")
	}
}

func TestDrawBoundaries(t *testing.T) {
	img := solidImage(60, 40, color.RGBA{0, 0, 0, 255})
	c := color.RGBA{255, 0, 255, 255}

	DrawBoundaries(img, []int{10, 25, 500, -3}, c)

	for _, y := range []int{10, 25} {
		if got := img.RGBAAt(50, y); got != c {
			t.Errorf("boundary at y=%d: got %v, want %v", y, got, c)
		}
	}
	if got := img.RGBAAt(50, 11); got == c {
		t.Error("row 11 should not be a boundary")
	}
}

func TestEncodePNG(t *testing.T) {
	img := solidImage(7, 3, color.RGBA{1, 2, 3, 255})

	result, err := EncodePNG(img)
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	if result.Width != 7 || result.Height != 3 {
		t.Errorf("dimensions: got %dx%d, want 7x3", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
	r, g, b, _ := decoded.At(3, 1).RGBA()
	if uint8(r>>8) != 1 || uint8(g>>8) != 2 || uint8(b>>8) != 3 {
		t.Errorf("pixel: got (%d,%d,%d), want (1,2,3)", r>>8, g>>8, b>>8)
	}
}
