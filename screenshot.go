package infospot

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Screenshot queues a labeled capture of the next drawn frame. The PNG is
// written to ScreenshotDir as <timestamp>_<label>.png once Draw finishes.
func (b *Board) Screenshot(label string) {
	b.screenshotQueue = append(b.screenshotQueue, label)
}

// flushScreenshots writes one PNG per queued label. Called at the end of
// Board.Draw.
func (b *Board) flushScreenshots(screen *ebiten.Image) {
	if len(b.screenshotQueue) == 0 {
		return
	}
	b.writeScreenshots(captureFrame(screen), time.Now())
}

// writeScreenshots writes img once per queued label and empties the queue.
func (b *Board) writeScreenshots(img image.Image, now time.Time) {
	defer func() { b.screenshotQueue = b.screenshotQueue[:0] }()

	if err := os.MkdirAll(b.ScreenshotDir, 0o755); err != nil {
		b.logger.Error("screenshot dir", "dir", b.ScreenshotDir, "err", err)
		return
	}

	stamp := now.Format("20060102_150405")
	for _, label := range b.screenshotQueue {
		name := screenshotName(stamp, label)
		if err := writePNG(filepath.Join(b.ScreenshotDir, name), img); err != nil {
			b.logger.Error("screenshot", "err", err)
			continue
		}
		b.logger.Debug("screenshot written", "file", name)
	}
}

// captureFrame reads the frame back and un-premultiplies it.
func captureFrame(screen *ebiten.Image) *image.NRGBA {
	bounds := screen.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pix := make([]byte, 4*w*h)
	screen.ReadPixels(pix)

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	unpremultiply(img.Pix, pix)
	return img
}

func unpremultiply(dst, src []byte) {
	for i := 0; i+3 < len(src); i += 4 {
		r, g, bl, a := src[i], src[i+1], src[i+2], src[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			bl = uint8(min(int(bl)*255/int(a), 255))
		}
		dst[i], dst[i+1], dst[i+2], dst[i+3] = r, g, bl, a
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// screenshotName builds a file name from a timestamp and a label, keeping
// only characters that are safe in file names.
func screenshotName(stamp, label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		label = "unlabeled"
	}
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
	return stamp + "_" + safe + ".png"
}
