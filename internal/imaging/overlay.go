package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Default overlay colours.
const (
	// DefaultEdgeColor highlights confirmed edge pixels drawn over the source.
	DefaultEdgeColor = "#7FFA02"

	// DefaultMarkerColor marks the center of each accepted object.
	DefaultMarkerColor = "#03F06C"

	// DefaultBandColor draws classification band boundaries.
	DefaultBandColor = "#FF00FF"
)

// ImageResult contains an image encoded as base64 PNG.
type ImageResult struct {
	// Width of the image in pixels.
	Width int `json:"width"`

	// Height of the image in pixels.
	Height int `json:"height"`

	// ImageBase64 is the image encoded as base64 PNG.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png".
	MimeType string `json:"mime_type"`
}

// EncodePNG encodes img as a base64 PNG result.
func EncodePNG(img image.Image) (*ImageResult, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	b := img.Bounds()
	return &ImageResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// ParseColor parses a "#RRGGBB" or "#RGB" colour string into an opaque RGBA
// colour.
func ParseColor(hex string) (color.RGBA, error) {
	if hex == "" {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] != '#' {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// ParseColorOr parses hex and falls back to def when hex is empty or invalid.
func ParseColorOr(hex, def string) color.RGBA {
	if c, err := ParseColor(hex); err == nil {
		return c
	}
	c, _ := ParseColor(def)
	return c
}

// ToRGBA copies img into a new RGBA image with its origin at (0, 0).
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// EdgeOverlay paints every 255 pixel of mask over a copy of src in colour c.
// mask and src must have the same dimensions.
func EdgeOverlay(src image.Image, mask *image.Gray, c color.Color) (*image.RGBA, error) {
	sb, mb := src.Bounds(), mask.Bounds()
	if sb.Dx() != mb.Dx() || sb.Dy() != mb.Dy() {
		return nil, fmt.Errorf("mask %dx%d does not match image %dx%d", mb.Dx(), mb.Dy(), sb.Dx(), sb.Dy())
	}

	dst := ToRGBA(src)
	for y := 0; y < mb.Dy(); y++ {
		row := mask.Pix[mask.PixOffset(mb.Min.X, mb.Min.Y+y):]
		for x := 0; x < mb.Dx(); x++ {
			if row[x] == 255 {
				dst.Set(x, y, c)
			}
		}
	}
	return dst, nil
}

// DrawMarker fills a disc of the given radius centred on p. Pixels outside
// img are skipped.
func DrawMarker(img *image.RGBA, p image.Point, radius int, c color.Color) {
	if radius < 0 {
		radius = 0
	}
	bounds := img.Bounds()
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			pt := image.Pt(p.X+dx, p.Y+dy)
			if pt.In(bounds) {
				img.Set(pt.X, pt.Y, c)
			}
		}
	}
}

// DrawBoundaries draws a horizontal line at each y in rows and labels it with
// its coordinate at the left edge.
func DrawBoundaries(img *image.RGBA, rows []int, c color.RGBA) {
	bounds := img.Bounds()
	labelColor := color.RGBA{255, 255, 255, 255}
	bgColor := color.RGBA{0, 0, 0, 180}

	for _, y := range rows {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.Set(x, y, c)
		}
		drawLabel(img, bounds.Min.X+2, y+2, strconv.Itoa(y), labelColor, bgColor)
	}
}

// drawLabel draws a label using a 3x5 pixel digit font.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			if pt := image.Pt(x+dx, y+dy); pt.In(bounds) {
				img.Set(pt.X, pt.Y, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel != '1' {
					continue
				}
				if pt := image.Pt(cx+col, y+row); pt.In(bounds) {
					img.Set(pt.X, pt.Y, fg)
				}
			}
		}
		cx += charWidth
	}
}
