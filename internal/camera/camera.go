// Package camera captures still frames from a live video device.
package camera

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"
)

var (
	// ErrUnsupported reports that no capture backend is available.
	ErrUnsupported = errors.New("camera: capture not supported on this system")
	// ErrNoFrame reports a capture request before any frame arrived.
	ErrNoFrame = errors.New("camera: no frame available")
)

// Camera is a live video source with at most one active stream.
type Camera interface {
	// Start opens the stream and blocks until the first frame or a failure.
	Start(ctx context.Context) error
	// Stop releases the device. Stopping an inactive camera is a no-op.
	Stop() error
	// Frame returns the most recent frame, or nil.
	Frame() image.Image
	Active() bool
}

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// FFmpeg streams PNG frames from a capture device through an ffmpeg child
// process.
type FFmpeg struct {
	Binary       string
	InputFormat  string
	Device       string
	FPS          int
	StartTimeout time.Duration

	mu     sync.Mutex
	cmd    *exec.Cmd
	cancel context.CancelFunc
	frame  image.Image
	done   chan struct{}
	stderr bytes.Buffer
}

// NewFFmpeg returns a camera using the platform's default capture input.
func NewFFmpeg(binary, device string) *FFmpeg {
	format, def := defaultInput()
	if device == "" {
		device = def
	}
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpeg{
		Binary:       binary,
		InputFormat:  format,
		Device:       device,
		FPS:          10,
		StartTimeout: 10 * time.Second,
	}
}

func defaultInput() (format, device string) {
	switch runtime.GOOS {
	case "darwin":
		return "avfoundation", "0"
	case "windows":
		return "dshow", "video=Integrated Camera"
	default:
		return "v4l2", "/dev/video0"
	}
}

func (c *FFmpeg) args() []string {
	return []string{
		"-loglevel", "error",
		"-f", c.InputFormat,
		"-i", c.Device,
		"-vf", fmt.Sprintf("fps=%d", c.FPS),
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	}
}

// Start launches ffmpeg and waits for the first frame.
func (c *FFmpeg) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.cmd != nil {
		c.mu.Unlock()
		return nil
	}
	bin, err := exec.LookPath(c.Binary)
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(runCtx, bin, c.args()...)
	c.stderr.Reset()
	cmd.Stderr = &lockedWriter{mu: &c.mu, w: &c.stderr}
	out, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		c.mu.Unlock()
		return fmt.Errorf("camera pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		c.mu.Unlock()
		return fmt.Errorf("camera start: %w", err)
	}
	c.cmd, c.cancel, c.frame = cmd, cancel, nil
	c.done = make(chan struct{})
	first := make(chan struct{})
	go c.read(out, first)
	done := c.done
	c.mu.Unlock()

	timeout := time.NewTimer(c.StartTimeout)
	defer timeout.Stop()
	select {
	case <-first:
		return nil
	case <-done:
		c.Stop()
		return fmt.Errorf("camera: stream ended before the first frame: %s", c.lastError())
	case <-timeout.C:
		c.Stop()
		return errors.New("camera: timed out waiting for the first frame")
	case <-ctx.Done():
		c.Stop()
		return ctx.Err()
	}
}

func (c *FFmpeg) read(r io.Reader, first chan struct{}) {
	defer close(c.done)
	br := bufio.NewReader(r)
	signalled := false
	for {
		img, err := NextFrame(br)
		if err != nil {
			return
		}
		c.mu.Lock()
		c.frame = img
		c.mu.Unlock()
		if !signalled {
			close(first)
			signalled = true
		}
	}
}

func (c *FFmpeg) lastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := strings.TrimSpace(c.stderr.String())
	if msg == "" {
		return "no output"
	}
	return msg
}

// Stop kills ffmpeg and releases the device.
func (c *FFmpeg) Stop() error {
	c.mu.Lock()
	cmd, cancel, done := c.cmd, c.cancel, c.done
	c.cmd, c.cancel = nil, nil
	c.mu.Unlock()
	if cmd == nil {
		return nil
	}
	cancel()
	<-done
	// killed on purpose, exit status is noise
	_ = cmd.Wait()
	return nil
}

// Frame returns the latest decoded frame.
func (c *FFmpeg) Frame() image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

// Active reports whether a stream is open.
func (c *FFmpeg) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cmd != nil
}

// Capture returns the latest frame of cam or ErrNoFrame.
func Capture(cam Camera) (image.Image, error) {
	if cam == nil || !cam.Active() {
		return nil, ErrNoFrame
	}
	img := cam.Frame()
	if img == nil {
		return nil, ErrNoFrame
	}
	return img, nil
}

// NextFrame reads exactly one PNG image from r, stopping after its IEND chunk
// so the following frame stays in the reader.
func NextFrame(r *bufio.Reader) (image.Image, error) {
	var buf bytes.Buffer
	sig := make([]byte, len(pngSignature))
	if _, err := io.ReadFull(r, sig); err != nil {
		return nil, err
	}
	if !bytes.Equal(sig, pngSignature) {
		return nil, errors.New("camera: stream is not PNG")
	}
	buf.Write(sig)

	header := make([]byte, 8)
	for {
		if _, err := io.ReadFull(r, header); err != nil {
			return nil, fmt.Errorf("camera: truncated frame: %w", err)
		}
		buf.Write(header)
		length := binary.BigEndian.Uint32(header[:4])
		// chunk data plus CRC
		if _, err := io.CopyN(&buf, r, int64(length)+4); err != nil {
			return nil, fmt.Errorf("camera: truncated frame: %w", err)
		}
		if string(header[4:8]) == "IEND" {
			break
		}
	}
	return png.Decode(&buf)
}

type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
