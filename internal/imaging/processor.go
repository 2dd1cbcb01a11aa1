// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging normalizes uploaded pictures before they are forwarded to
// the content API. The EXIF orientation is baked into the pixels, metadata
// is dropped by re-encoding and oversized images are scaled down.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp"
)

// MIME types of the accepted pictures.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// Bounds used when NewProcessor gets zero values.
const (
	DefaultMaxDimension = 1600
	DefaultQuality      = 85
)

// ErrUnsupportedFormat is returned for anything but JPEG, PNG, GIF and WebP.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// output is how an accepted input type is written back.
type output struct {
	format imaging.Format
	mime   string
	ext    string
}

// outputs is keyed by the sniffed input type. WebP decodes in pure Go but
// has no encoder, so it leaves as JPEG.
var outputs = map[string]output{
	MimeTypeJPEG: {imaging.JPEG, MimeTypeJPEG, ".jpg"},
	MimeTypePNG:  {imaging.PNG, MimeTypePNG, ".png"},
	MimeTypeGIF:  {imaging.GIF, MimeTypeGIF, ".gif"},
	MimeTypeWebP: {imaging.JPEG, MimeTypeJPEG, ".jpg"},
}

// Result is a normalized picture.
type Result struct {
	Data          []byte
	MimeType      string
	Filename      string
	Width, Height int
}

// Processor fits pictures into a square bound.
type Processor struct {
	maxDimension int
	quality      int
}

// NewProcessor returns a Processor fitting pictures into maxDimension
// pixels and writing JPEGs at quality. Out-of-range values use the defaults.
func NewProcessor(maxDimension, quality int) *Processor {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Processor{maxDimension: maxDimension, quality: quality}
}

// Sniff reports the MIME type of data and whether it is an accepted
// picture type. TIFF is never accepted, as its decoder in the imaging
// library is unsafe on hostile input.
func Sniff(data []byte) (string, bool) {
	mime, _, _ := strings.Cut(http.DetectContentType(data), ";")
	_, ok := outputs[mime]
	return mime, ok
}

// Normalize decodes data, applies its EXIF orientation, scales it down to
// the bound and encodes it again. name gives the output base name; its
// extension follows the output type.
func (p *Processor) Normalize(data []byte, name string) (*Result, error) {
	mime, ok := Sniff(data)
	if !ok {
		return nil, ErrUnsupportedFormat
	}
	out := outputs[mime]

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	img = orient(img, exifOrientation(data))

	if b := img.Bounds(); b.Dx() > p.maxDimension || b.Dy() > p.maxDimension {
		img = imaging.Fit(img, p.maxDimension, p.maxDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, out.format, imaging.JPEGQuality(p.quality)); err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	b := img.Bounds()
	return &Result{
		Data:     buf.Bytes(),
		MimeType: out.mime,
		Filename: baseName(name) + out.ext,
		Width:    b.Dx(),
		Height:   b.Dy(),
	}, nil
}

// exifOrientation reads the EXIF orientation tag, 1 when there is none.
func exifOrientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	o, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return o
}

// orient turns img upright for an EXIF orientation value (2 to 8 are
// mirrored and rotated variants).
func orient(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}

func baseName(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "image"
	}
	return base
}
