package imaging

import (
	"image"
	"image/color"
	"testing"
)

// solidImage returns a width x height RGBA image filled with c.
func solidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestParseChannel(t *testing.T) {
	tests := []struct {
		name    string
		want    Channel
		wantErr bool
	}{
		{"", ChannelGray, false},
		{"gray", ChannelGray, false},
		{"GREY", ChannelGray, false},
		{"luma", ChannelGray, false},
		{"Red", ChannelRed, false},
		{" green ", ChannelGreen, false},
		{"blue", ChannelBlue, false},
		{"alpha", "", true},
		{"hsv", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseChannel(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseChannel(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseChannel(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestToGray_Channels(t *testing.T) {
	img := solidImage(8, 6, color.RGBA{200, 100, 50, 255})

	tests := []struct {
		channel Channel
		want    uint8
	}{
		{ChannelRed, 200},
		{ChannelGreen, 100},
		{ChannelBlue, 50},
		// 0.299*200 + 0.587*100 + 0.114*50 = 124.2
		{ChannelGray, 124},
	}

	for _, tt := range tests {
		t.Run(string(tt.channel), func(t *testing.T) {
			gray, err := ToGray(img, tt.channel)
			if err != nil {
				t.Fatalf("ToGray failed: %v", err)
			}
			if gray.Bounds() != image.Rect(0, 0, 8, 6) {
				t.Fatalf("bounds: got %v, want (0,0)-(8,6)", gray.Bounds())
			}
			for y := 0; y < 6; y++ {
				for x := 0; x < 8; x++ {
					if v := gray.GrayAt(x, y).Y; v != tt.want {
						t.Fatalf("pixel (%d,%d): got %d, want %d", x, y, v, tt.want)
					}
				}
			}
		})
	}
}

func TestToGray_UnknownChannel(t *testing.T) {
	_, err := ToGray(solidImage(4, 4, color.Black), Channel("infrared"))
	if err == nil {
		t.Error("expected error for unknown channel")
	}
}

func TestToGray_GrayInputCopied(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range src.Pix {
		src.Pix[i] = uint8(i)
	}

	gray, err := ToGray(src, ChannelGray)
	if err != nil {
		t.Fatalf("ToGray failed: %v", err)
	}
	if gray == src {
		t.Fatal("ToGray returned its input instead of a copy")
	}
	for i := range src.Pix {
		if gray.Pix[i] != src.Pix[i] {
			t.Fatalf("pixel %d: got %d, want %d", i, gray.Pix[i], src.Pix[i])
		}
	}

	gray.Pix[0] = 255
	if src.Pix[0] == 255 {
		t.Error("modifying the result changed the source")
	}
}

func TestToGray_SubImageOrigin(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 10, 10))
	src.SetGray(3, 4, color.Gray{Y: 99})
	sub := src.SubImage(image.Rect(2, 2, 8, 8)).(*image.Gray)

	gray, err := ToGray(sub, ChannelGray)
	if err != nil {
		t.Fatalf("ToGray failed: %v", err)
	}
	if gray.Bounds() != image.Rect(0, 0, 6, 6) {
		t.Fatalf("bounds: got %v, want (0,0)-(6,6)", gray.Bounds())
	}
	if v := gray.GrayAt(1, 2).Y; v != 99 {
		t.Errorf("shifted pixel: got %d, want 99", v)
	}
}
