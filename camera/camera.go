// Package camera provides webcam frame capture using GoCV (OpenCV).
package camera

import (
	"image"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// ErrCameraNotOpen is returned when reading from a closed camera.
var ErrCameraNotOpen = errors.New("camera is not open")

// Camera wraps a gocv.VideoCapture device and hands out RGB frames with
// explicit dimensions. The detection pipeline consumes nothing else from
// the device layer.
type Camera struct {
	deviceID int
	capture  *gocv.VideoCapture
	// frame is reused across reads; Mat allocation per frame is wasteful
	// at webcam rates.
	frame gocv.Mat
	rgb   gocv.Mat
}

// Open opens the capture device.
//
// Arguments:
//   - deviceID: The OS camera index, usually 0.
//
// Returns:
//   - *Camera: An open camera; callers must Close it.
//   - error: An error if the device cannot be opened.
func Open(deviceID int) (*Camera, error) {
	capture, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open camera device %d", deviceID)
	}

	logrus.WithField("device", deviceID).Info("camera opened")

	return &Camera{
		deviceID: deviceID,
		capture:  capture,
		frame:    gocv.NewMat(),
		rgb:      gocv.NewMat(),
	}, nil
}

// Read captures one frame and returns it as an 8-bit interleaved RGB
// image with its native dimensions. OpenCV captures BGR, so the frame is
// converted before it crosses the package boundary.
//
// Returns:
//   - image.Image: The RGB frame.
//   - int: Frame width in pixels.
//   - int: Frame height in pixels.
//   - error: An error if the device produced no frame; camera faults are
//     unrecoverable at this layer and propagate to the caller.
func (c *Camera) Read() (image.Image, int, int, error) {
	if c.capture == nil {
		return nil, 0, 0, ErrCameraNotOpen
	}
	if ok := c.capture.Read(&c.frame); !ok || c.frame.Empty() {
		return nil, 0, 0, errors.Errorf("failed to read frame from camera device %d", c.deviceID)
	}

	gocv.CvtColor(c.frame, &c.rgb, gocv.ColorBGRToRGB)
	img, err := c.rgb.ToImage()
	if err != nil {
		return nil, 0, 0, errors.Wrap(err, "failed to convert frame")
	}

	return img, c.rgb.Cols(), c.rgb.Rows(), nil
}

// Mat returns the BGR gocv.Mat of the most recent Read, for rendering
// overlays onto the live frame. The Mat is reused across reads; callers
// must not retain it.
func (c *Camera) Mat() gocv.Mat {
	return c.frame
}

// Close releases the device and internal buffers.
func (c *Camera) Close() error {
	c.frame.Close()
	c.rgb.Close()
	if c.capture == nil {
		return nil
	}
	err := c.capture.Close()
	c.capture = nil
	return err
}
