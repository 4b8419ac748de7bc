package imaging

import (
	"fmt"
	"image"
	"strings"

	"github.com/anthonynsimon/bild/channel"
	"github.com/disintegration/imaging"
)

// Channel names the intensity source used for single-channel processing.
type Channel string

// Supported channels. ChannelGray is ITU-R BT.601 luma.
const (
	ChannelGray  Channel = "gray"
	ChannelRed   Channel = "red"
	ChannelGreen Channel = "green"
	ChannelBlue  Channel = "blue"
)

// ParseChannel converts a case-insensitive name into a Channel.
// The empty string selects ChannelGray.
func ParseChannel(name string) (Channel, error) {
	switch Channel(strings.ToLower(strings.TrimSpace(name))) {
	case "", ChannelGray, "grey", "luma":
		return ChannelGray, nil
	case ChannelRed:
		return ChannelRed, nil
	case ChannelGreen:
		return ChannelGreen, nil
	case ChannelBlue:
		return ChannelBlue, nil
	default:
		return "", fmt.Errorf("unknown channel: %q", name)
	}
}

// ToGray reduces img to a single 8-bit channel with its origin at (0, 0).
//
// ChannelGray uses luma weighting (0.299 R + 0.587 G + 0.114 B); an image
// that is already *image.Gray is copied unchanged. The colour channels extract
// the raw component values.
func ToGray(img image.Image, ch Channel) (*image.Gray, error) {
	ch, err := ParseChannel(string(ch))
	if err != nil {
		return nil, err
	}

	switch ch {
	case ChannelRed:
		return normalizeGray(channel.Extract(img, channel.Red)), nil
	case ChannelGreen:
		return normalizeGray(channel.Extract(img, channel.Green)), nil
	case ChannelBlue:
		return normalizeGray(channel.Extract(img, channel.Blue)), nil
	}

	if g, ok := img.(*image.Gray); ok {
		return normalizeGray(g), nil
	}
	return grayFromNRGBA(imaging.Grayscale(img)), nil
}

// grayFromNRGBA copies the red component of an image whose channels are
// already equal (the output of a grayscale filter).
func grayFromNRGBA(src *image.NRGBA) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride:]
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			out[x] = row[x*4]
		}
	}
	return dst
}

// normalizeGray returns a copy of g with its origin moved to (0, 0).
func normalizeGray(g *image.Gray) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		start := g.PixOffset(b.Min.X, b.Min.Y+y)
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w], g.Pix[start:start+w])
	}
	return dst
}
