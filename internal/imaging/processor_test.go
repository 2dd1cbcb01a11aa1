// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gradient is a w x h picture with distinct pixels.
func gradient(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encode(t *testing.T, img image.Image, enc func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, enc(&buf, img))
	return buf.Bytes()
}

func pngBytes(t *testing.T, img image.Image) []byte {
	return encode(t, img, func(b *bytes.Buffer, i image.Image) error { return png.Encode(b, i) })
}

func TestNormalizeScalesDown(t *testing.T) {
	res, err := NewProcessor(100, 90).Normalize(pngBytes(t, gradient(400, 200)), "avatar.PNG")
	require.NoError(t, err)

	assert.Equal(t, 100, res.Width)
	assert.Equal(t, 50, res.Height)
	assert.Equal(t, MimeTypePNG, res.MimeType)
	assert.Equal(t, "avatar.png", res.Filename)

	mime, ok := Sniff(res.Data)
	assert.True(t, ok)
	assert.Equal(t, MimeTypePNG, mime)
}

func TestNormalizeKeepsSmallPictures(t *testing.T) {
	data := encode(t, gradient(40, 30), func(b *bytes.Buffer, i image.Image) error { return jpeg.Encode(b, i, nil) })

	res, err := NewProcessor(0, 0).Normalize(data, "photo")
	require.NoError(t, err)
	assert.Equal(t, [2]int{40, 30}, [2]int{res.Width, res.Height})
	assert.Equal(t, MimeTypeJPEG, res.MimeType)
	assert.Equal(t, "photo.jpg", res.Filename)
}

func TestNormalizeGIF(t *testing.T) {
	data := encode(t, gradient(10, 10), func(b *bytes.Buffer, i image.Image) error { return gif.Encode(b, i, nil) })

	res, err := NewProcessor(0, 0).Normalize(data, "dir/anim.gif")
	require.NoError(t, err)
	assert.Equal(t, MimeTypeGIF, res.MimeType)
	assert.Equal(t, "anim.gif", res.Filename)
}

func TestNormalizeRejectsNonImages(t *testing.T) {
	_, err := NewProcessor(0, 0).Normalize([]byte("%PDF-1.4 not an image"), "doc.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		mime string
		ok   bool
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, MimeTypeJPEG, true},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, MimeTypePNG, true},
		{"gif", []byte("GIF89a"), MimeTypeGIF, true},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), MimeTypeWebP, true},
		{"tiff", []byte{0x49, 0x49, 0x2A, 0x00}, "", false},
		{"text", []byte("hello"), "text/plain", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, ok := Sniff(tt.data)
			assert.Equal(t, tt.ok, ok)
			if tt.mime != "" {
				assert.Equal(t, tt.mime, mime)
			}
		})
	}
}

func TestBaseName(t *testing.T) {
	for in, want := range map[string]string{
		"me.jpeg":     "me",
		"dir/me.webp": "me",
		"me":          "me",
		"":            "image",
	} {
		assert.Equal(t, want, baseName(in), in)
	}
}

func TestOrient(t *testing.T) {
	img := gradient(20, 10)
	for o := 0; o <= 9; o++ {
		t.Run(strconv.Itoa(o), func(t *testing.T) {
			b := orient(img, o).Bounds()
			if o >= 5 && o <= 8 {
				assert.Equal(t, [2]int{10, 20}, [2]int{b.Dx(), b.Dy()})
			} else {
				assert.Equal(t, [2]int{20, 10}, [2]int{b.Dx(), b.Dy()})
			}
		})
	}
}

func TestOrientMirrors(t *testing.T) {
	img := gradient(4, 2)
	flipped := orient(img, 2)
	assert.Equal(t, color.NRGBAModel.Convert(img.At(3, 0)), flipped.At(0, 0))
}
