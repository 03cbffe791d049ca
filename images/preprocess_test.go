package images

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPrepareInput verifies that a solid-color frame normalizes to the
// expected per-channel values in interleaved NHWC order.
func TestPrepareInput(t *testing.T) {
	const size = 8

	src := image.NewRGBA(image.Rect(0, 0, 32, 24))
	fill := color.RGBA{R: 255, G: 128, B: 0, A: 255}
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			src.Set(x, y, fill)
		}
	}

	dst := make([]float32, size*size*3)
	require.NoError(t, PrepareInput(src, size, dst))

	for i := 0; i < len(dst); i += 3 {
		assert.InDelta(t, 1.0, dst[i], 0.01, "red channel at pixel %d", i/3)
		assert.InDelta(t, 128.0/255.0, dst[i+1], 0.01, "green channel at pixel %d", i/3)
		assert.InDelta(t, 0.0, dst[i+2], 0.01, "blue channel at pixel %d", i/3)
	}
}

func TestPrepareInputShortBuffer(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	err := PrepareInput(src, 192, make([]float32, 10))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs")
}

// TestFromRGB verifies the zero-copy RGB wrapper reads interleaved
// pixels at the right offsets.
func TestFromRGB(t *testing.T) {
	buf := []byte{
		10, 20, 30, 40, 50, 60,
		70, 80, 90, 100, 110, 120,
	}
	img, err := FromRGB(buf, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())

	r, g, b, a := img.At(1, 0).RGBA()
	assert.Equal(t, uint32(40), r>>8)
	assert.Equal(t, uint32(50), g>>8)
	assert.Equal(t, uint32(60), b>>8)
	assert.Equal(t, uint32(0xff), a>>8)

	r, _, _, _ = img.At(0, 1).RGBA()
	assert.Equal(t, uint32(70), r>>8)

	// Out of bounds reads are transparent, not panics.
	_, _, _, a = img.At(5, 5).RGBA()
	assert.Equal(t, uint32(0), a)
}

func TestFromRGBShortBuffer(t *testing.T) {
	_, err := FromRGB(make([]byte, 5), 2, 2)
	require.Error(t, err)
}
