// Package studio wires image acquisition, the portrait session and the
// portrait renderer together. All methods except the background workers it
// spawns run on the caller's loop.
package studio

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"path/filepath"

	"golang.org/x/image/font"

	"matrix-portrait/internal/camera"
	"matrix-portrait/internal/portrait"
	"matrix-portrait/internal/render"
	"matrix-portrait/internal/source"
)

// ExportName is the file name used by Download.
const ExportName = "matrix-portrait.png"

// User-facing alert messages.
const (
	MsgCameraDenied      = "Could not access the camera. Please upload an image instead."
	MsgCameraUnsupported = "Your system does not support camera access. Please upload an image instead."
	MsgLoadFailed        = "Error loading image. Please try another one."
)

// ErrBusy reports that an image is already being processed.
var ErrBusy = errors.New("studio: image processing already in progress")

// Alerter shows a message to the user.
type Alerter interface {
	Alert(msg string)
}

// LogAlerter prints alerts to a logger.
type LogAlerter struct {
	Log *log.Logger
}

// Alert logs msg.
func (a LogAlerter) Alert(msg string) {
	if a.Log == nil {
		log.Print(msg)
		return
	}
	a.Log.Print(msg)
}

// Options configures a Studio.
type Options struct {
	Seed     int64
	MaxWidth int
	Accent   color.NRGBA
	Face     font.Face
	Camera   camera.Camera
	Alerter  Alerter
	Logger   *log.Logger
	OutDir   string
}

type loadResult struct {
	ticket portrait.Ticket
	img    *image.NRGBA
	err    error
}

// Studio is the portrait half of the application.
type Studio struct {
	log      *log.Logger
	alerts   Alerter
	cam      camera.Camera
	maxWidth int
	outDir   string

	session  *portrait.Session
	renderer *render.Portrait
	raster   *render.Raster
	preview  *image.NRGBA

	loads   chan loadResult
	camDone chan error

	cameraStarting  bool
	feedVisible     bool
	captureVisible  bool
	controlsVisible bool

	quote string
}

// New constructs a Studio.
func New(opts Options) *Studio {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	alerts := opts.Alerter
	if alerts == nil {
		alerts = LogAlerter{Log: logger}
	}
	maxWidth := opts.MaxWidth
	if maxWidth <= 0 {
		maxWidth = source.MaxWidth
	}
	accent := opts.Accent
	if accent == (color.NRGBA{}) {
		accent = render.DefaultAccent
	}
	session := portrait.NewSession(opts.Seed)
	return &Studio{
		log:      logger,
		alerts:   alerts,
		cam:      opts.Camera,
		maxWidth: maxWidth,
		outDir:   opts.OutDir,
		session:  session,
		renderer: render.NewPortrait(accent),
		raster:   render.NewRaster(0, 0, opts.Face),
		loads:    make(chan loadResult, 4),
		camDone:  make(chan error, 1),
		quote:    pickQuote(session.RNG()),
	}
}

// Session exposes the portrait session, e.g. for HUD controls.
func (s *Studio) Session() *portrait.Session { return s.session }

// Raster exposes the portrait surface.
func (s *Studio) Raster() *render.Raster { return s.raster }

// Preview returns the scaled source image of the current portrait.
func (s *Studio) Preview() *image.NRGBA { return s.preview }

// Quote returns the quote picked at start-up.
func (s *Studio) Quote() string { return s.quote }

// Loading reports whether an image is being decoded.
func (s *Studio) Loading() bool { return s.session.Processing() }

// FeedVisible reports whether the live camera feed is shown.
func (s *Studio) FeedVisible() bool { return s.feedVisible }

// CaptureVisible reports whether the capture control is available.
func (s *Studio) CaptureVisible() bool { return s.captureVisible }

// ControlsVisible reports whether the portrait controls are shown.
func (s *Studio) ControlsVisible() bool { return s.controlsVisible }

// CameraFrame returns the latest live frame while the feed is visible.
func (s *Studio) CameraFrame() image.Image {
	if !s.feedVisible || s.cam == nil {
		return nil
	}
	return s.cam.Frame()
}

// Upload starts processing the file at path. Files that are not images are
// ignored without error.
func (s *Studio) Upload(path string) error {
	if _, err := source.Sniff(path); err != nil {
		if errors.Is(err, source.ErrNotImage) {
			return nil
		}
		return s.failNow(fmt.Errorf("upload: %w", err))
	}
	ticket, ok := s.session.Begin()
	if !ok {
		return ErrBusy
	}
	go func() {
		img, err := source.Load(path, s.maxWidth)
		s.loads <- loadResult{ticket: ticket, img: img, err: err}
	}()
	return nil
}

// ProcessImage starts processing an already decoded image.
func (s *Studio) ProcessImage(img image.Image) error {
	ticket, ok := s.session.Begin()
	if !ok {
		return ErrBusy
	}
	go func() {
		if img == nil {
			s.loads <- loadResult{ticket: ticket, err: errors.New("studio: nil image")}
			return
		}
		s.loads <- loadResult{ticket: ticket, img: source.FitWidth(img, s.maxWidth)}
	}()
	return nil
}

func (s *Studio) failNow(err error) error {
	s.log.Printf("image load failed: %v", err)
	s.alerts.Alert(MsgLoadFailed)
	return err
}

// Poll applies finished background work. Call it once per frame.
func (s *Studio) Poll() {
	for {
		select {
		case res := <-s.loads:
			s.applyLoad(res)
		case err := <-s.camDone:
			s.applyCamera(err)
		default:
			return
		}
	}
}

// Await blocks until one pending load finishes and applies it.
func (s *Studio) Await(ctx context.Context) error {
	select {
	case res := <-s.loads:
		s.applyLoad(res)
		return res.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Studio) applyLoad(res loadResult) {
	if !s.session.Current(res.ticket) {
		return
	}
	if res.err != nil {
		s.session.Fail(res.ticket)
		s.failNow(res.err)
		return
	}
	grid := portrait.Extract(res.img)
	if !s.session.Complete(res.ticket, grid) {
		return
	}
	size := grid.Size()
	s.raster.Resize(size.W, size.H)
	s.preview = res.img
	s.controlsVisible = true
	s.session.Start()
	s.log.Printf("portrait ready: %dx%d, %d particles", size.W, size.H, s.session.Field().Len())
}

// ToggleCamera starts the camera when the feed is hidden and stops it
// otherwise. Start-up completes asynchronously; see Poll.
func (s *Studio) ToggleCamera(ctx context.Context) {
	if s.feedVisible {
		s.releaseCamera()
		return
	}
	if s.cameraStarting {
		return
	}
	if s.cam == nil {
		s.alerts.Alert(MsgCameraUnsupported)
		return
	}
	s.cameraStarting = true
	cam := s.cam
	go func() { s.camDone <- cam.Start(ctx) }()
}

func (s *Studio) applyCamera(err error) {
	s.cameraStarting = false
	if err != nil {
		s.log.Printf("camera error: %v", err)
		if errors.Is(err, camera.ErrUnsupported) {
			s.alerts.Alert(MsgCameraUnsupported)
		} else {
			s.alerts.Alert(MsgCameraDenied)
		}
		return
	}
	s.feedVisible = true
	s.captureVisible = true
}

func (s *Studio) releaseCamera() {
	if s.cam != nil {
		if err := s.cam.Stop(); err != nil {
			s.log.Printf("camera stop: %v", err)
		}
	}
	s.feedVisible = false
	s.captureVisible = false
}

// Capture grabs the current camera frame, releases the camera and processes
// the frame.
func (s *Studio) Capture() error {
	if !s.captureVisible {
		return nil
	}
	img, err := camera.Capture(s.cam)
	s.releaseCamera()
	if err != nil {
		return s.failNow(fmt.Errorf("capture: %w", err))
	}
	return s.ProcessImage(img)
}

// SetControl updates one of the portrait controls.
func (s *Studio) SetControl(key string, value int) bool {
	return s.session.SetIntParameter(key, value)
}

// Tick advances and paints the portrait once. It reports false when the
// animation is not running.
func (s *Studio) Tick() bool {
	if !s.session.Running() {
		return false
	}
	s.session.Step()
	s.renderer.Draw(s.raster, s.session.Field(), s.session.BrightnessMultiplier(), s.session.RNG())
	return true
}

// Download writes the current portrait to ExportName in the output
// directory. It does nothing before an image has been processed.
func (s *Studio) Download() (string, error) {
	if !s.session.HasImage() {
		return "", nil
	}
	path := filepath.Join(s.outDir, ExportName)
	if err := s.raster.SavePNG(path); err != nil {
		return "", err
	}
	s.log.Printf("saved %s", path)
	return path, nil
}

// Close stops the animation, abandons pending work and releases the camera.
func (s *Studio) Close() {
	s.session.Stop()
	s.session.Cancel()
	s.releaseCamera()
}
