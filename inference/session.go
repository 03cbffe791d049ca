// Package inference - onnxruntime session glue for the palm detector.
package inference

import (
	"image"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	ort "github.com/yalue/onnxruntime_go"
	"gorgonia.org/tensor"

	"github.com/handvision/go-palm/images"
	"github.com/handvision/go-palm/palm"
)

// Config configures a palm detector session.
type Config struct {
	// ModelPath is the path to palm_detection_lite.onnx.
	ModelPath string
	// InputName is the model's input tensor name.
	InputName string
	// OutputNames are the regression and score tensor names, in that
	// order.
	OutputNames []string
	// Layout is the output contract the session is validated against.
	Layout palm.Layout
}

// DefaultConfig returns the names and layout of palm_detection_lite.onnx.
func DefaultConfig(modelPath string) Config {
	return Config{
		ModelPath:   modelPath,
		InputName:   "input_1",
		OutputNames: []string{"Identity", "Identity_1"},
		Layout:      palm.DefaultLayout(),
	}
}

// Session owns an onnxruntime session for the palm detection model plus
// its preallocated input and output tensors. It is single-threaded by
// design: the pipeline runs one frame at a time, so the tensors are
// reused across calls without locking.
type Session struct {
	session  *ort.AdvancedSession
	input    *ort.Tensor[float32]
	regOut   *ort.Tensor[float32]
	scoreOut *ort.Tensor[float32]
	layout   palm.Layout
}

// NewSession loads the model and allocates the fixed-shape tensors. The
// input is (1, size, size, 3) NHWC; the outputs are the layout's
// (1, anchors, regressors) and (1, anchors, 1) shapes. onnxruntime
// rejects the session at creation when the model disagrees with these
// shapes or names, which is the fail-fast half of the shape contract;
// the other half is checked per frame when the outputs are decoded.
//
// Arguments:
//   - cfg: Model path, tensor names, and output layout.
//
// Returns:
//   - *Session: A ready session; callers must Close it.
//   - error: An error if the model is missing or incompatible.
func NewSession(cfg Config) (*Session, error) {
	if len(cfg.OutputNames) != 2 {
		return nil, errors.Errorf("palm model produces 2 outputs, config names %d", len(cfg.OutputNames))
	}
	if err := cfg.Layout.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid model layout")
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, errors.Wrapf(err, "palm model not found: %s", cfg.ModelPath)
	}

	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, errors.Wrap(err, "failed to initialize onnxruntime")
		}
	}

	l := cfg.Layout
	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(l.InputSize), int64(l.InputSize), 3))
	if err != nil {
		return nil, errors.Wrap(err, "failed to allocate input tensor")
	}
	regOut, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(l.NumAnchors), int64(l.RegressorCols)))
	if err != nil {
		input.Destroy()
		return nil, errors.Wrap(err, "failed to allocate regression tensor")
	}
	scoreOut, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(l.NumAnchors), int64(l.ScoreCols)))
	if err != nil {
		input.Destroy()
		regOut.Destroy()
		return nil, errors.Wrap(err, "failed to allocate score tensor")
	}

	session, err := ort.NewAdvancedSession(
		cfg.ModelPath,
		[]string{cfg.InputName},
		cfg.OutputNames,
		[]ort.ArbitraryTensor{input},
		[]ort.ArbitraryTensor{regOut, scoreOut},
		nil,
	)
	if err != nil {
		input.Destroy()
		regOut.Destroy()
		scoreOut.Destroy()
		return nil, errors.Wrap(err, "failed to create palm detection session")
	}

	logrus.WithFields(logrus.Fields{
		"model":   cfg.ModelPath,
		"input":   l.InputSize,
		"anchors": l.NumAnchors,
	}).Info("palm detection session ready")

	return &Session{
		session:  session,
		input:    input,
		regOut:   regOut,
		scoreOut: scoreOut,
		layout:   l,
	}, nil
}

// Infer runs one frame through the detector and returns the two raw
// output tensors wrapped as dense tensors carrying the contract shape.
// The returned tensors alias the session's output buffers and are only
// valid until the next Infer call.
//
// Arguments:
//   - frame: The source frame at its native resolution.
//
// Returns:
//   - *tensor.Dense: The (1, anchors, regressors) regression tensor.
//   - *tensor.Dense: The (1, anchors, 1) score tensor.
//   - error: An error if preprocessing or the model run fails.
func (s *Session) Infer(frame image.Image) (*tensor.Dense, *tensor.Dense, error) {
	if err := images.PrepareInput(frame, s.layout.InputSize, s.input.GetData()); err != nil {
		return nil, nil, errors.Wrap(err, "failed to prepare model input")
	}
	if err := s.session.Run(); err != nil {
		return nil, nil, errors.Wrap(err, "palm detection inference failed")
	}

	reg := tensor.New(
		tensor.WithShape(1, s.layout.NumAnchors, s.layout.RegressorCols),
		tensor.WithBacking(s.regOut.GetData()),
	)
	scores := tensor.New(
		tensor.WithShape(1, s.layout.NumAnchors, s.layout.ScoreCols),
		tensor.WithBacking(s.scoreOut.GetData()),
	)
	return reg, scores, nil
}

// Layout returns the output contract the session was built with.
func (s *Session) Layout() palm.Layout {
	return s.layout
}

// Close releases the session and its tensors.
func (s *Session) Close() {
	if s.input != nil {
		s.input.Destroy()
		s.input = nil
	}
	if s.regOut != nil {
		s.regOut.Destroy()
		s.regOut = nil
	}
	if s.scoreOut != nil {
		s.scoreOut.Destroy()
		s.scoreOut = nil
	}
	if s.session != nil {
		s.session.Destroy()
		s.session = nil
	}
}
