package score

import (
	"image"
	"image/png"
	"io"

	"github.com/HugoSmits86/nativewebp"
)

// EncodeWebP writes the image losslessly as WebP.
func EncodeWebP(w io.Writer, img image.Image) error {
	return nativewebp.Encode(w, img, nil)
}

// EncodePNG writes the image as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
