package employee

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func sampleImage(t *testing.T, width, height int, encode func(buf *bytes.Buffer, img image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := encode(&buf, img); err != nil {
		t.Fatalf("encode sample: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizeAvatarFromPNG(t *testing.T) {
	data := sampleImage(t, 30, 60, func(buf *bytes.Buffer, img image.Image) error {
		return png.Encode(buf, img)
	})

	out, err := NormalizeAvatar(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not png: %v", err)
	}
	bounds := decoded.Bounds()
	if bounds.Dx() != avatarSize || bounds.Dy() != avatarSize {
		t.Fatalf("expected %dx%d, got %dx%d", avatarSize, avatarSize, bounds.Dx(), bounds.Dy())
	}
}

func TestNormalizeAvatarConvertsJPEG(t *testing.T) {
	data := sampleImage(t, 50, 40, func(buf *bytes.Buffer, img image.Image) error {
		return jpeg.Encode(buf, img, nil)
	})

	out, err := NormalizeAvatar(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(out)); err != nil {
		t.Fatalf("jpeg input should produce png output: %v", err)
	}
}

func TestNormalizeAvatarRejectsGarbage(t *testing.T) {
	if _, err := NormalizeAvatar([]byte("not an image")); err == nil {
		t.Fatal("expected decode error")
	}
}
