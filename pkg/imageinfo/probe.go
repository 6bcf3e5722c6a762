// Package imageinfo reads image dimensions from a container header without
// decoding pixel data.
//
// Decoders for PNG, JPEG, GIF, BMP, TIFF and WebP are registered on import.
// The first decoder whose signature matches the input wins.
package imageinfo

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"strconv"

	// Registered decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNoDecoder is returned when no registered decoder recognises the input.
var ErrNoDecoder = errors.New("imageinfo: no decoder for image format")

// Dimensions are the intrinsic pixel dimensions of an image.
type Dimensions struct {
	Width  int
	Height int

	// Format is the registered decoder name ("png", "jpeg", ...).
	Format string
}

// CSSWidth returns the width as a CSS pixel length, e.g. "64px".
func (d Dimensions) CSSWidth() string {
	return strconv.Itoa(d.Width) + "px"
}

// CSSHeight returns the height as a CSS pixel length.
func (d Dimensions) CSSHeight() string {
	return strconv.Itoa(d.Height) + "px"
}

// Probe reads just enough of r to report the image's dimensions.
//
// It returns ErrNoDecoder if the signature matches no registered format.
// Any other error means a decoder claimed the input but could not read its
// header (truncated or corrupt data, or a read failure).
func Probe(r io.Reader) (Dimensions, error) {
	cfg, format, err := image.DecodeConfig(bufio.NewReader(r))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return Dimensions{}, ErrNoDecoder
		}
		return Dimensions{}, fmt.Errorf("imageinfo: read %s header: %w", formatOrUnknown(format), err)
	}
	return Dimensions{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// Formats lists the decoder names Probe understands.
func Formats() []string {
	return []string{"bmp", "gif", "jpeg", "png", "tiff", "webp"}
}

func formatOrUnknown(format string) string {
	if format == "" {
		return "image"
	}
	return format
}
