// Package export writes scenes to animated GIF files.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/anthonynsimon/bild/transform"

	"github.com/olivier-w/fieldviz/internal/frame"
	"github.com/olivier-w/fieldviz/internal/render"
)

// ErrUnsupportedFormat is returned for output paths that are not .gif files.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Options control the exported images.
type Options struct {
	Width, Height int
	// Supersample renders at this multiple of the output size before
	// downsizing. 1 disables it.
	Supersample int
	// Glow is the blur radius in output pixels of the glow pass. 0 disables it.
	Glow    float64
	Dither  bool
	Workers int
	// Progress is called after each finished frame, possibly from several
	// goroutines at once.
	Progress func(done, total int)
}

// DefaultOptions is a 480 pixel square with 2x supersampling.
var DefaultOptions = Options{Width: 480, Height: 480, Supersample: 2, Glow: 1.5, Dither: true}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("export size %dx%d must be positive", o.Width, o.Height)
	}
	if o.Supersample < 1 || o.Supersample > 4 {
		return fmt.Errorf("supersample %d out of range 1-4", o.Supersample)
	}
	if o.Glow < 0 {
		return fmt.Errorf("glow radius %g must not be negative", o.Glow)
	}
	return nil
}

// Encoder turns frame states into paletted images.
type Encoder struct {
	opt     Options
	palette color.Palette
}

// NewEncoder validates opt and creates an encoder.
func NewEncoder(opt Options) (*Encoder, error) {
	if err := opt.validate(); err != nil {
		return nil, err
	}
	return &Encoder{opt: opt, palette: palette.Plan9}, nil
}

// Image paints st at output size.
func (e *Encoder) Image(st frame.State) *image.RGBA {
	ss := e.opt.Supersample
	r := render.NewRaster(e.opt.Width*ss, e.opt.Height*ss)
	render.Paint(st, r)
	r.Glow(e.opt.Glow*float64(ss), 0.6)
	if ss == 1 {
		return r.Image()
	}
	return transform.Resize(r.Image(), e.opt.Width, e.opt.Height, transform.Linear)
}

// Frame paints st and reduces it to the encoder palette.
func (e *Encoder) Frame(st frame.State) *image.Paletted {
	img := e.Image(st)
	out := image.NewPaletted(img.Bounds(), e.palette)
	if e.opt.Dither {
		draw.FloydSteinberg.Draw(out, img.Bounds(), img, image.Point{})
	} else {
		draw.Draw(out, img.Bounds(), img, image.Point{}, draw.Src)
	}
	return out
}

// Render computes and paints every frame of gen in parallel. Images are in
// frame order.
func (e *Encoder) Render(ctx context.Context, gen frame.Generator) ([]*image.Paletted, error) {
	n := gen.Frames()
	images := make([]*image.Paletted, n)
	var done atomic.Int64
	err := frame.Each(ctx, n, e.opt.Workers, func(i int) error {
		st, err := gen.Frame(i)
		if err != nil {
			return err
		}
		images[i] = e.Frame(st)
		d := done.Add(1)
		if e.opt.Progress != nil {
			e.opt.Progress(int(d), n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

// Delay returns the GIF frame delay in 1/100 s for fps. Browsers clamp
// delays below 2.
func Delay(fps int) int {
	if fps <= 0 {
		return 10
	}
	return max(2, (100+fps/2)/fps)
}

// GIF writes images as a looping animation.
func GIF(w io.Writer, images []*image.Paletted, fps int) error {
	if len(images) == 0 {
		return fmt.Errorf("no frames to encode")
	}
	delays := make([]int, len(images))
	for i := range delays {
		delays[i] = Delay(fps)
	}
	anim := &gif.GIF{Image: images, Delay: delays, LoopCount: 0}
	if err := gif.EncodeAll(w, anim); err != nil {
		return fmt.Errorf("encoding GIF: %w", err)
	}
	return nil
}

// Result describes a written file.
type Result struct {
	Path    string
	Frames  int
	Bytes   int64
	Elapsed time.Duration
}

// WriteFile renders gen and writes it to path. The file is written next to
// its destination and renamed into place, so a failed export leaves nothing
// behind.
func WriteFile(ctx context.Context, path string, gen frame.Generator, fps int, opt Options) (Result, error) {
	if !strings.EqualFold(filepath.Ext(path), ".gif") {
		return Result{}, fmt.Errorf("%w %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	enc, err := NewEncoder(opt)
	if err != nil {
		return Result{}, err
	}
	start := time.Now()
	images, err := enc.Render(ctx, gen)
	if err != nil {
		return Result{}, fmt.Errorf("rendering frames: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".fieldviz-*.gif")
	if err != nil {
		return Result{}, fmt.Errorf("creating output file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := GIF(tmp, images, fps); err != nil {
		tmp.Close()
		return Result{}, err
	}
	info, err := tmp.Stat()
	if err != nil {
		tmp.Close()
		return Result{}, err
	}
	if err := tmp.Close(); err != nil {
		return Result{}, fmt.Errorf("writing output file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return Result{}, fmt.Errorf("moving output file: %w", err)
	}

	res := Result{Path: path, Frames: len(images), Bytes: info.Size(), Elapsed: time.Since(start)}
	slog.Info("exported", "path", path, "frames", res.Frames, "bytes", res.Bytes, "elapsed", res.Elapsed)
	return res, nil
}

var invalidFilenameChars = regexp.MustCompile(`[\\/:*?"<>|]`)

// SanitizeFilename strips characters invalid in filenames and trims
// whitespace. Falls back to "scene" if the result is empty.
func SanitizeFilename(name string) string {
	name = invalidFilenameChars.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)
	if name == "" {
		return "scene"
	}
	return name
}

// FreePath returns "<dir>/<name>.gif", or "<name>-2.gif" and so on when the
// file already exists.
func FreePath(dir, name string) string {
	base := SanitizeFilename(name)
	path := filepath.Join(dir, base+".gif")
	for i := 2; ; i++ {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return path
		}
		path = filepath.Join(dir, fmt.Sprintf("%s-%d.gif", base, i))
	}
}
