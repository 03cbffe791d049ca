package main

import (
	"flag"
	"path/filepath"
	"strings"
	"time"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/handvision/go-palm/camera"
	"github.com/handvision/go-palm/inference"
	"github.com/handvision/go-palm/palm"
	"github.com/handvision/go-palm/postprocess"
	"github.com/handvision/go-palm/render"
)

const (
	// DefaultModelPath is the palm detection model loaded when no flag
	// is given.
	DefaultModelPath = "palm_detection_lite.onnx"
	// DefaultScoreThreshold drops candidates the model is unsure about.
	DefaultScoreThreshold = 0.6
	// DefaultIoUThreshold suppresses duplicate boxes over the same palm.
	DefaultIoUThreshold = 0.25
	// DefaultMaxResults caps how many palms are displayed per frame.
	DefaultMaxResults = 4
)

// fpsTracker keeps a rolling frames-per-second figure for the log line.
type fpsTracker struct {
	frames int
	start  time.Time
	fps    float64
}

func (f *fpsTracker) tick() float64 {
	f.frames++
	if elapsed := time.Since(f.start).Seconds(); elapsed >= 1.0 {
		f.fps = float64(f.frames) / elapsed
		f.frames = 0
		f.start = time.Now()
	}
	return f.fps
}

func main() {
	var (
		modelPath      string
		deviceID       int
		imagePath      string
		scoreThreshold float64
		iouThreshold   float64
		maxResults     int
		showWindow     bool
	)
	flag.StringVar(&modelPath, "model", DefaultModelPath, "Path to palm detection ONNX model")
	flag.IntVar(&deviceID, "device", 0, "Camera device ID")
	flag.StringVar(&imagePath, "image", "", "Run on a single image file instead of the camera")
	flag.Float64Var(&scoreThreshold, "score", DefaultScoreThreshold, "Detection score threshold")
	flag.Float64Var(&iouThreshold, "iou", DefaultIoUThreshold, "NMS IoU threshold")
	flag.IntVar(&maxResults, "max-results", DefaultMaxResults, "Maximum palms to display per frame (0 = unlimited)")
	flag.BoolVar(&showWindow, "show-window", true, "Show visualization window")
	verbose := flag.Bool("verbose", false, "Log per-frame detection details")
	flag.Parse()

	logrus.SetFormatter(&nested.Formatter{
		TimestampFormat: time.RFC3339,
		HideKeys:        true,
	})
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	pipeline, err := palm.NewPipeline(palm.DefaultLayout(), &postprocess.NMSConfig{
		ScoreThreshold: float32(scoreThreshold),
		IoUThreshold:   float32(iouThreshold),
		MaxResults:     maxResults,
	})
	if err != nil {
		logrus.WithError(err).Fatal("failed to build detection pipeline")
	}

	session, err := inference.NewSession(inference.DefaultConfig(modelPath))
	if err != nil {
		logrus.WithError(err).Fatal("failed to load palm detection model")
	}
	defer session.Close()

	if imagePath != "" {
		processImage(imagePath, session, pipeline)
		return
	}

	cam, err := camera.Open(deviceID)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open camera")
	}
	defer cam.Close()

	var window *gocv.Window
	if showWindow {
		window = gocv.NewWindow("Palm Detection")
		defer window.Close()
	}

	tracker := fpsTracker{start: time.Now()}

	// Strict per-frame sequence: capture, infer, decode, render. A
	// camera or model fault aborts the process; a shape fault means the
	// model contract broke and must not be rendered as "no palms".
	for {
		frame, width, height, err := cam.Read()
		if err != nil {
			logrus.WithError(err).Fatal("camera fault")
		}

		reg, scores, err := session.Infer(frame)
		if err != nil {
			logrus.WithError(err).Fatal("inference fault")
		}

		detections, err := pipeline.Run(reg, scores, width, height)
		if err != nil {
			logrus.WithError(err).Fatal("model output violates layout contract")
		}

		fps := tracker.tick()
		if len(detections) > 0 {
			logrus.WithFields(logrus.Fields{
				"palms": len(detections),
				"top":   detections[0].Score,
				"fps":   fps,
			}).Debug("frame decoded")
		}

		if window != nil {
			img := cam.Mat()
			render.DrawDetections(&img, detections)
			window.IMShow(img)
			if window.WaitKey(1) == 27 { // ESC
				break
			}
		}
	}
}

// processImage runs the detector once over a still image and writes the
// annotated result next to the input file.
func processImage(path string, session *inference.Session, pipeline *palm.Pipeline) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		logrus.WithField("path", path).Fatal("failed to read image")
	}
	defer mat.Close()

	rgb := gocv.NewMat()
	defer rgb.Close()
	gocv.CvtColor(mat, &rgb, gocv.ColorBGRToRGB)
	frame, err := rgb.ToImage()
	if err != nil {
		logrus.WithError(err).Fatal("failed to convert image")
	}

	reg, scores, err := session.Infer(frame)
	if err != nil {
		logrus.WithError(err).Fatal("inference fault")
	}
	detections, err := pipeline.Run(reg, scores, mat.Cols(), mat.Rows())
	if err != nil {
		logrus.WithError(err).Fatal("model output violates layout contract")
	}

	render.DrawDetections(&mat, detections)

	out := strings.TrimSuffix(path, filepath.Ext(path)) + "_palms.png"
	if ok := gocv.IMWrite(out, mat); !ok {
		logrus.WithField("path", out).Fatal("failed to write annotated image")
	}
	logrus.WithFields(logrus.Fields{
		"palms":  len(detections),
		"output": out,
	}).Info("image processed")
}
