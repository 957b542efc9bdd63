package studio

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"matrix-portrait/internal/camera"
	"matrix-portrait/internal/portrait"
)

type alertRecorder struct {
	msgs []string
}

func (a *alertRecorder) Alert(msg string) { a.msgs = append(a.msgs, msg) }

type fakeCamera struct {
	mu       sync.Mutex
	startErr error
	frame    image.Image
	active   bool
	stops    int
}

func (c *fakeCamera) Start(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.startErr != nil {
		return c.startErr
	}
	c.active = true
	return nil
}

func (c *fakeCamera) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = false
	c.stops++
	return nil
}

func (c *fakeCamera) Frame() image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

func (c *fakeCamera) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

func newTestStudio(t *testing.T, cam camera.Camera) (*Studio, *alertRecorder, string) {
	t.Helper()
	dir := t.TempDir()
	alerts := &alertRecorder{}
	opts := Options{
		Seed:    1,
		Alerter: alerts,
		Logger:  log.New(io.Discard, "", 0),
		OutDir:  dir,
	}
	if cam != nil {
		opts.Camera = cam
	}
	return New(opts), alerts, dir
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(255 * x / max(w-1, 1))
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func writeImage(t *testing.T, dir string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, "face.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func await(t *testing.T, s *Studio) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Await(ctx)
}

func pollUntil(t *testing.T, s *Studio, done func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		s.Poll()
		if done() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached")
}

func TestUploadNonImageIsIgnored(t *testing.T) {
	s, alerts, dir := newTestStudio(t, nil)
	path := filepath.Join(dir, "readme.txt")
	if err := os.WriteFile(path, []byte("wake up"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Upload(path); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	s.Poll()
	if s.Loading() || s.Session().HasImage() || s.ControlsVisible() {
		t.Fatal("non-image upload must not change state")
	}
	if len(alerts.msgs) != 0 {
		t.Fatalf("alerts = %v, want none", alerts.msgs)
	}
}

func TestUploadBuildsPortrait(t *testing.T) {
	s, alerts, dir := newTestStudio(t, nil)
	path := writeImage(t, dir, gradient(800, 200))

	if err := s.Upload(path); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !s.Loading() {
		t.Fatal("loading indicator must be set while decoding")
	}
	if err := s.Upload(path); !errors.Is(err, ErrBusy) {
		t.Fatalf("overlapping upload err = %v, want ErrBusy", err)
	}
	if err := await(t, s); err != nil {
		t.Fatalf("Await: %v", err)
	}
	if s.Loading() {
		t.Fatal("loading indicator must clear after success")
	}
	if !s.ControlsVisible() || !s.Session().Running() {
		t.Fatal("controls and animation must start after a load")
	}
	if size := s.Raster().Size(); size.W != 400 || size.H != 100 {
		t.Fatalf("raster = %+v, want 400x100", size)
	}
	if s.Session().Field().Len() == 0 {
		t.Fatal("expected particles for a gradient")
	}
	if !s.Tick() {
		t.Fatal("Tick must run after a load")
	}
	if len(alerts.msgs) != 0 {
		t.Fatalf("alerts = %v, want none", alerts.msgs)
	}
}

func TestDecodeFailureAlertsAndClearsGuard(t *testing.T) {
	s, alerts, dir := newTestStudio(t, nil)
	broken := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(broken, []byte("\x89PNG\r\n\x1a\nxxxx"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Upload(broken); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := await(t, s); err == nil {
		t.Fatal("expected a decode error")
	}
	if len(alerts.msgs) != 1 || alerts.msgs[0] != MsgLoadFailed {
		t.Fatalf("alerts = %v", alerts.msgs)
	}
	if s.Loading() {
		t.Fatal("guard must be cleared after a failure")
	}

	good := writeImage(t, dir, gradient(10, 10))
	if err := s.Upload(good); err != nil {
		t.Fatalf("retry upload: %v", err)
	}
	if err := await(t, s); err != nil {
		t.Fatalf("retry Await: %v", err)
	}
}

func TestControlChangeRebuilds(t *testing.T) {
	s, _, _ := newTestStudio(t, nil)
	if err := s.ProcessImage(gradient(40, 40)); err != nil {
		t.Fatal(err)
	}
	if err := await(t, s); err != nil {
		t.Fatal(err)
	}
	before := s.Session().Field().Len()
	if !s.SetControl(portrait.KeyDensity, 10) {
		t.Fatal("SetControl rejected density")
	}
	if after := s.Session().Field().Len(); after <= before {
		t.Fatalf("density 10 gave %d particles, density 5 gave %d", after, before)
	}
}

func TestDownloadBeforeImageIsNoop(t *testing.T) {
	s, _, dir := newTestStudio(t, nil)
	path, err := s.Download()
	if err != nil || path != "" {
		t.Fatalf("Download = %q, %v; want no-op", path, err)
	}
	if _, err := os.Stat(filepath.Join(dir, ExportName)); !os.IsNotExist(err) {
		t.Fatalf("export file must not exist, stat err = %v", err)
	}
}

func TestDownloadWritesPortrait(t *testing.T) {
	s, _, dir := newTestStudio(t, nil)
	if err := s.ProcessImage(gradient(64, 32)); err != nil {
		t.Fatal(err)
	}
	if err := await(t, s); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		s.Tick()
	}
	path, err := s.Download()
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if path != filepath.Join(dir, ExportName) {
		t.Fatalf("path = %q", path)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Fatalf("export bounds = %v", b)
	}
}

func TestCameraStartFailure(t *testing.T) {
	cam := &fakeCamera{startErr: errors.New("permission denied")}
	s, alerts, _ := newTestStudio(t, cam)

	s.ToggleCamera(context.Background())
	pollUntil(t, s, func() bool { return len(alerts.msgs) > 0 })

	if alerts.msgs[0] != MsgCameraDenied {
		t.Fatalf("alert = %q", alerts.msgs[0])
	}
	if s.FeedVisible() || s.CaptureVisible() {
		t.Fatal("feed and capture control must stay hidden")
	}
}

func TestCameraUnsupported(t *testing.T) {
	s, alerts, _ := newTestStudio(t, nil)
	s.ToggleCamera(context.Background())
	if len(alerts.msgs) != 1 || alerts.msgs[0] != MsgCameraUnsupported {
		t.Fatalf("alerts = %v", alerts.msgs)
	}
	if s.FeedVisible() || s.CaptureVisible() {
		t.Fatal("feed must stay hidden")
	}

	cam := &fakeCamera{startErr: camera.ErrUnsupported}
	s, alerts, _ = newTestStudio(t, cam)
	s.ToggleCamera(context.Background())
	pollUntil(t, s, func() bool { return len(alerts.msgs) > 0 })
	if alerts.msgs[0] != MsgCameraUnsupported {
		t.Fatalf("alert = %q", alerts.msgs[0])
	}
}

func TestCameraToggleAndCapture(t *testing.T) {
	cam := &fakeCamera{frame: gradient(32, 24)}
	s, alerts, _ := newTestStudio(t, cam)

	s.ToggleCamera(context.Background())
	pollUntil(t, s, s.FeedVisible)
	if !s.CaptureVisible() || s.CameraFrame() == nil {
		t.Fatal("capture control and feed must be visible")
	}

	if err := s.Capture(); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if cam.Active() || s.FeedVisible() || s.CaptureVisible() {
		t.Fatal("capture must release the camera and hide the feed")
	}
	if err := await(t, s); err != nil {
		t.Fatalf("Await: %v", err)
	}
	if !s.Session().HasImage() {
		t.Fatal("captured frame must become the portrait")
	}
	if len(alerts.msgs) != 0 {
		t.Fatalf("alerts = %v", alerts.msgs)
	}
}

func TestCameraToggleOffReleases(t *testing.T) {
	cam := &fakeCamera{frame: gradient(8, 8)}
	s, _, _ := newTestStudio(t, cam)
	s.ToggleCamera(context.Background())
	pollUntil(t, s, s.FeedVisible)

	s.ToggleCamera(context.Background())
	if cam.Active() || s.FeedVisible() || s.CaptureVisible() {
		t.Fatal("toggling off must release the camera")
	}
	if cam.stops != 1 {
		t.Fatalf("stops = %d, want 1", cam.stops)
	}
}

func TestCloseHaltsAnimation(t *testing.T) {
	s, _, _ := newTestStudio(t, nil)
	if err := s.ProcessImage(gradient(16, 16)); err != nil {
		t.Fatal(err)
	}
	if err := await(t, s); err != nil {
		t.Fatal(err)
	}
	s.Close()
	if s.Tick() {
		t.Fatal("Tick must not run after Close")
	}
}

func TestQuoteIsPicked(t *testing.T) {
	s, _, _ := newTestStudio(t, nil)
	if s.Quote() == "" {
		t.Fatal("expected a quote")
	}
}
