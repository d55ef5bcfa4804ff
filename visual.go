package infospot

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"math"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// DefaultIconRef names the built-in info icon. Markers configured without an
// image use it.
const DefaultIconRef = "infospot:info"

// DefaultLoadTimeout bounds a single ImageLoader load when no timeout is set.
// A load that times out is reported at once, but its decode goroutine keeps
// the source open until the decoder returns.
const DefaultLoadTimeout = 10 * time.Second

var (
	// ErrLoadTimeout is returned when a visual does not decode in time.
	ErrLoadTimeout = errors.New("infospot: visual load timed out")
	// ErrUnknownReference is returned for references that are neither the
	// built-in icon, a data URI, nor a valid path in the loader's FS.
	ErrUnknownReference = errors.New("infospot: unknown image reference")
)

// Visual is a resolved image. It is immutable once delivered.
type Visual struct {
	Width, Height int
	Image         image.Image
}

// AspectRatio returns Width/Height, or 0 for a degenerate visual.
func (v Visual) AspectRatio() float64 {
	if v.Height == 0 {
		return 0
	}
	return float64(v.Width) / float64(v.Height)
}

// Loader resolves an image reference. done must be called exactly once, on
// the goroutine that drives the board (see Poller). A Visual without an
// Image fails the marker.
type Loader interface {
	Load(ref string, done func(Visual, error))
}

// Poller is implemented by loaders that decode off the update goroutine.
// Poll runs queued completions on the caller's goroutine and reports how
// many ran.
type Poller interface {
	Poll() int
}

// --- ImageLoader ---

type loadResult struct {
	visual Visual
	err    error
	done   func(Visual, error)
}

// ImageLoader decodes png, jpeg, gif, webp and bmp images in background
// goroutines and hands the results back through Poll. References may be a
// path in the loader's FS, a base64 data URI, or DefaultIconRef.
type ImageLoader struct {
	fsys    fs.FS
	timeout time.Duration
	pending int // owned by the polling goroutine

	mu       sync.Mutex
	finished []loadResult
}

// NewImageLoader creates a loader reading files from fsys. A nil fsys reads
// from the working directory; a zero timeout uses DefaultLoadTimeout.
func NewImageLoader(fsys fs.FS, timeout time.Duration) *ImageLoader {
	if fsys == nil {
		fsys = os.DirFS(".")
	}
	if timeout <= 0 {
		timeout = DefaultLoadTimeout
	}
	return &ImageLoader{fsys: fsys, timeout: timeout}
}

// Load starts decoding ref. done runs from a later Poll call.
func (l *ImageLoader) Load(ref string, done func(Visual, error)) {
	l.pending++
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		defer cancel()
		v, err := l.resolve(ctx, ref)
		l.mu.Lock()
		l.finished = append(l.finished, loadResult{visual: v, err: err, done: done})
		l.mu.Unlock()
	}()
}

// Poll delivers every finished load.
func (l *ImageLoader) Poll() int {
	l.mu.Lock()
	batch := l.finished
	l.finished = nil
	l.mu.Unlock()

	for _, r := range batch {
		l.pending--
		r.done(r.visual, r.err)
	}
	return len(batch)
}

// Pending returns the number of loads not yet delivered by Poll.
func (l *ImageLoader) Pending() int {
	return l.pending
}

func (l *ImageLoader) resolve(ctx context.Context, ref string) (Visual, error) {
	type decoded struct {
		img image.Image
		err error
	}
	ch := make(chan decoded, 1)
	go func() {
		img, err := l.decode(ref)
		ch <- decoded{img, err}
	}()

	select {
	case d := <-ch:
		if d.err != nil {
			return Visual{}, d.err
		}
		b := d.img.Bounds()
		if b.Dx() <= 0 || b.Dy() <= 0 {
			return Visual{}, fmt.Errorf("load %s: empty image %dx%d", describeRef(ref), b.Dx(), b.Dy())
		}
		return Visual{Width: b.Dx(), Height: b.Dy(), Image: d.img}, nil
	case <-ctx.Done():
		return Visual{}, fmt.Errorf("load %s after %v: %w", describeRef(ref), l.timeout, ErrLoadTimeout)
	}
}

func (l *ImageLoader) decode(ref string) (image.Image, error) {
	switch {
	case ref == DefaultIconRef:
		return infoIcon(), nil
	case strings.HasPrefix(ref, "data:"):
		data, err := decodeDataURI(ref)
		if err != nil {
			return nil, err
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode data uri: %w", err)
		}
		return img, nil
	}

	name := strings.TrimPrefix(path.Clean(ref), "/")
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("load %q: %w", ref, ErrUnknownReference)
	}
	f, err := l.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", ref, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", ref, err)
	}
	return img, nil
}

// decodeDataURI accepts data:[<mediatype>][;base64],<data>.
func decodeDataURI(ref string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("data uri: missing ',': %w", ErrUnknownReference)
	}
	if strings.HasSuffix(header, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("data uri: %w", err)
		}
		return data, nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("data uri: %w", err)
	}
	return []byte(s), nil
}

// describeRef keeps data URIs out of error messages and logs.
func describeRef(ref string) string {
	if strings.HasPrefix(ref, "data:") {
		return "data uri"
	}
	return fmt.Sprintf("%q", ref)
}

// --- Built-in icon ---

const infoIconSize = 64

var infoIcon = sync.OnceValue(drawInfoIcon)

// drawInfoIcon renders a white disc with a dark ring and a dark "i".
func drawInfoIcon() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, infoIconSize, infoIconSize))
	c := float64(infoIconSize) / 2
	outer := c - 1
	ring := outer - 3

	white := color.NRGBA{255, 255, 255, 255}
	ink := color.NRGBA{34, 34, 34, 255}

	for y := 0; y < infoIconSize; y++ {
		for x := 0; x < infoIconSize; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			d := math.Hypot(px-c, py-c)
			switch {
			case d > outer:
				continue
			case d > ring:
				img.SetNRGBA(x, y, ink)
			case isInfoGlyph(px-c, py-c):
				img.SetNRGBA(x, y, ink)
			default:
				img.SetNRGBA(x, y, white)
			}
		}
	}
	return img
}

// isInfoGlyph reports whether an offset from the icon center falls on the
// dot or the stem of the "i".
func isInfoGlyph(dx, dy float64) bool {
	if math.Hypot(dx, dy+14) <= 4.5 {
		return true
	}
	return math.Abs(dx) <= 4 && dy >= -6 && dy <= 17
}
