package camera

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os/exec"
	"testing"
	"time"
)

func encodeFrame(t *testing.T, w, h int, shade uint8) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = shade
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestNextFrameSplitsConcatenatedStream(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(encodeFrame(t, 4, 3, 10))
	stream.Write(encodeFrame(t, 6, 2, 200))
	br := bufio.NewReader(&stream)

	first, err := NextFrame(br)
	if err != nil {
		t.Fatalf("first frame: %v", err)
	}
	if b := first.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Fatalf("first bounds = %v", b)
	}
	second, err := NextFrame(br)
	if err != nil {
		t.Fatalf("second frame: %v", err)
	}
	if b := second.Bounds(); b.Dx() != 6 || b.Dy() != 2 {
		t.Fatalf("second bounds = %v", b)
	}
	if g := color.GrayModel.Convert(second.At(0, 0)).(color.Gray); g.Y != 200 {
		t.Fatalf("second frame shade = %d, want 200", g.Y)
	}
	if _, err := NextFrame(br); !errors.Is(err, io.EOF) {
		t.Fatalf("end of stream err = %v, want EOF", err)
	}
}

func TestNextFrameRejectsGarbage(t *testing.T) {
	br := bufio.NewReader(bytes.NewReader([]byte("definitely not a png")))
	if _, err := NextFrame(br); err == nil {
		t.Fatal("expected an error for non-PNG input")
	}
}

func TestStartMissingBinaryIsUnsupported(t *testing.T) {
	cam := NewFFmpeg("matrix-portrait-no-such-ffmpeg", "")
	err := cam.Start(context.Background())
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
	if cam.Active() {
		t.Fatal("camera must stay inactive after a failed start")
	}
}

func TestStartFailsWhenStreamEndsEarly(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false(1) not available")
	}
	cam := NewFFmpeg("false", "")
	cam.StartTimeout = 5 * time.Second
	if err := cam.Start(context.Background()); err == nil {
		t.Fatal("expected start failure")
	}
	if cam.Active() {
		t.Fatal("camera must stay inactive after a failed start")
	}
	if err := cam.Stop(); err != nil {
		t.Fatalf("Stop on inactive camera: %v", err)
	}
}

func TestCaptureRequiresFrame(t *testing.T) {
	if _, err := Capture(nil); !errors.Is(err, ErrNoFrame) {
		t.Fatalf("err = %v, want ErrNoFrame", err)
	}
	cam := NewFFmpeg("", "")
	if _, err := Capture(cam); !errors.Is(err, ErrNoFrame) {
		t.Fatalf("err = %v, want ErrNoFrame", err)
	}
}
