package images

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// PrepareInput fills dst with the normalized NHWC float tensor the palm
// detector expects: the frame resized to size x size with a bilinear
// (triangle) kernel, channels interleaved (R, G, B per pixel), each
// value divided by 255 into [0, 1].
//
// Arguments:
//   - img: The source frame at its native resolution.
//   - size: The square model input edge in pixels.
//   - dst: The destination buffer; must hold size*size*3 floats.
//
// Returns:
//   - error: An error if dst is too small for the requested size.
func PrepareInput(img image.Image, size int, dst []float32) error {
	need := size * size * 3
	if len(dst) < need {
		return errors.Errorf("input tensor holds %d floats, needs %d (check the model input shape)",
			len(dst), need)
	}

	resized := resize.Resize(uint(size), uint(size), img, resize.Bilinear)

	i := 0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			dst[i] = float32(r>>8) / 255.0
			dst[i+1] = float32(g>>8) / 255.0
			dst[i+2] = float32(b>>8) / 255.0
			i += 3
		}
	}
	return nil
}

// FromRGB wraps a raw 8-bit interleaved RGB buffer as an image.Image
// without copying pixel data. The stride is assumed to be 3*width.
func FromRGB(buf []byte, width, height int) (image.Image, error) {
	if len(buf) < width*height*3 {
		return nil, errors.Errorf("RGB buffer holds %d bytes, needs %d for %dx%d",
			len(buf), width*height*3, width, height)
	}
	return &rgbImage{pix: buf, width: width, height: height}, nil
}

type rgbImage struct {
	pix           []byte
	width, height int
}

func (m *rgbImage) ColorModel() color.Model { return color.RGBAModel }

func (m *rgbImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

func (m *rgbImage) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return color.RGBA{}
	}
	i := (y*m.width + x) * 3
	return color.RGBA{R: m.pix[i], G: m.pix[i+1], B: m.pix[i+2], A: 0xff}
}
