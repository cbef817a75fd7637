// Package imagesource loads the base photo for the editor from a file path,
// an http(s) URL or the clipboard, decodes it and scales it to canvas size.
package imagesource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/roomedit/internal/clipboard"
)

// DefaultMaxDimension caps the long edge of the canvas.
const DefaultMaxDimension = 1024

// DefaultMaxBytes caps the encoded size read from a file or URL.
const DefaultMaxBytes = 64 << 20

// ClipboardRef selects the clipboard as the image source.
const ClipboardRef = "clipboard:"

// Image is a decoded base photo scaled to canvas size.
type Image struct {
	// Pixels has zero-based bounds of the canvas size.
	Pixels *image.RGBA
	// Natural is the size of the decoded source before capping.
	Natural image.Point
	Ref     string
	Format  string
	// Tainted is set when the pixels were obtained without cross-origin
	// permission. They may be displayed but not read back.
	Tainted bool
}

// Size returns the canvas size.
func (i *Image) Size() image.Point { return i.Pixels.Bounds().Size() }

// Loader fetches and decodes images.
type Loader struct {
	client        *http.Client
	maxDimension  int
	maxBytes      int64
	origin        string
	readClipboard func() ([]byte, error)
	openFile      func(string) (io.ReadCloser, error)
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// WithMaxDimension changes the long edge cap. Values below 1 keep the
// default.
func WithMaxDimension(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxDimension = n
		}
	}
}

// WithMaxBytes changes the encoded size limit. Values below 1 keep the
// default.
func WithMaxBytes(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxBytes = n
		}
	}
}

// WithOrigin sets the origin presented on cross-origin requests, for
// example "https://editor.example". Images from that origin are never
// tainted.
func WithOrigin(origin string) Option {
	return func(l *Loader) { l.origin = strings.TrimSuffix(origin, "/") }
}

// WithClipboard replaces the clipboard reader.
func WithClipboard(read func() ([]byte, error)) Option {
	return func(l *Loader) { l.readClipboard = read }
}

// NewLoader returns a Loader with the given options applied.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		client:        http.DefaultClient,
		maxDimension:  DefaultMaxDimension,
		maxBytes:      DefaultMaxBytes,
		readClipboard: clipboard.ReadImageData,
		openFile:      func(p string) (io.ReadCloser, error) { return os.Open(p) },
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load resolves ref and returns the canvas-sized image. The first attempt
// requires cross-origin access; if it fails the load is retried once
// without that requirement. A second failure is reported as an
// *ImageDecodeError.
func (l *Loader) Load(ctx context.Context, ref string) (*Image, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, &ImageDecodeError{Ref: ref, Err: errors.New("empty image reference")}
	}
	img, err := l.attempt(ctx, ref, true)
	if err == nil {
		return img, nil
	}
	if ctx.Err() != nil {
		return nil, &ImageDecodeError{Ref: ref, Err: ctx.Err()}
	}
	logger().Warn("image load failed, retrying without cross-origin", "ref", ref, "err", err)
	img, err = l.attempt(ctx, ref, false)
	if err != nil {
		logger().Error("image load failed", "ref", ref, "err", err)
		return nil, &ImageDecodeError{Ref: ref, Err: err}
	}
	return img, nil
}

func (l *Loader) attempt(ctx context.Context, ref string, crossOrigin bool) (*Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		data    []byte
		tainted bool
		err     error
	)
	switch {
	case ref == ClipboardRef:
		data, err = l.readClipboard()
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		data, tainted, err = l.fetch(ctx, ref, crossOrigin)
	default:
		data, err = l.readFile(strings.TrimPrefix(ref, "file://"))
	}
	if err != nil {
		return nil, err
	}
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	out := &Image{
		Pixels:  Fit(src, l.maxDimension),
		Natural: src.Bounds().Size(),
		Ref:     ref,
		Format:  format,
		Tainted: tainted,
	}
	logger().Debug("image loaded", "ref", ref, "format", format,
		"natural", out.Natural, "canvas", out.Size(), "tainted", tainted)
	return out, nil
}

func (l *Loader) readFile(path string) ([]byte, error) {
	f, err := l.openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return l.readLimited(f)
}

// readLimited reads at most maxBytes and fails rather than truncate.
func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, l.maxBytes)
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context, ref string, crossOrigin bool) ([]byte, bool, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, false, err
	}
	sameOrigin := l.origin != "" && originOf(u) == l.origin
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, false, err
	}
	if crossOrigin && !sameOrigin && l.origin != "" {
		req.Header.Set("Origin", l.origin)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("GET %s: %s", ref, resp.Status)
	}
	if crossOrigin && !sameOrigin {
		allow := resp.Header.Get("Access-Control-Allow-Origin")
		if allow != "*" && (l.origin == "" || allow != l.origin) {
			return nil, false, errNoCORS
		}
	}
	data, err := l.readLimited(resp.Body)
	if err != nil {
		return nil, false, err
	}
	return data, !crossOrigin && !sameOrigin, nil
}

func originOf(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

// CanvasSize caps w×h so the long edge is at most max, keeping the aspect
// ratio. Sizes already within the cap are returned unchanged.
func CanvasSize(w, h, max int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	if max <= 0 {
		max = DefaultMaxDimension
	}
	var cw, ch float64
	if w > h {
		cw = float64(min(w, max))
		ch = float64(h) / float64(w) * cw
	} else {
		ch = float64(min(h, max))
		cw = float64(w) / float64(h) * ch
	}
	return max1(int(cw)), max1(int(ch))
}

func max1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// Fit copies src into a zero-based RGBA of canvas size, scaling down with
// Catmull-Rom when the source exceeds max on its long edge.
func Fit(src image.Image, max int) *image.RGBA {
	b := src.Bounds()
	w, h := CanvasSize(b.Dx(), b.Dy(), max)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	}
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
