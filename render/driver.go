// Package render turns one result directory into a single PNG showing the
// true and predicted series of one sample, one chart per channel.
package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"path/filepath"

	"github.com/Noofbiz/seqvis"
	"github.com/Noofbiz/seqvis/chart"
	"github.com/Noofbiz/seqvis/datasets"
	"github.com/Noofbiz/seqvis/fonts"
	"github.com/Noofbiz/seqvis/layout"
	"github.com/Noofbiz/seqvis/sampling"
	"golang.org/x/sync/errgroup"
)

// Resolution is an output canvas size in pixels.
type Resolution struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// DefaultResolutions maps each variant to its canvas size.
var DefaultResolutions = map[datasets.Variant]Resolution{
	datasets.VariantTest:  {Width: 3840, Height: 2160},
	datasets.VariantTrain: {Width: 1920, Height: 1080},
}

// OutputFile is the name of the image written for v.
func OutputFile(v datasets.Variant) string {
	if v == datasets.VariantTrain {
		return "true_pred_all_train.png"
	}
	return "true_pred_all.png"
}

// FontSource resolves families to drawable faces. *fonts.Registry is the
// production implementation.
type FontSource interface {
	fonts.Prober
	Face(family string) fonts.Face
}

// Driver runs the load, select, lay out and draw pipeline. A zero Driver
// works: it picks samples at random, draws in sans-serif unless a preferred
// CJK family has been registered, and renders tiles one after another.
//
// A Driver must not run two Visualize calls at once.
type Driver struct {
	Selector    *sampling.Selector
	Fonts       FontSource
	Preferences []string
	Resolutions map[datasets.Variant]Resolution
	DPI         int
	Logger      *slog.Logger

	// Workers above 1 renders that many tiles concurrently.
	Workers int
}

func (d *Driver) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

func (d *Driver) resolution(v datasets.Variant) Resolution {
	if r, ok := d.Resolutions[v]; ok && r.Width > 0 && r.Height > 0 {
		return r
	}
	return DefaultResolutions[v]
}

// Titles returns one caption per channel: the channel names when a name list
// is present, "维度 i" (1-based) otherwise. A name list with fewer entries
// than channels is an error; extra entries are ignored.
func Titles(names []string, channels int) ([]string, error) {
	if names != nil && len(names) < channels {
		return nil, fmt.Errorf("%w: name list has %d entries for %d channels",
			seqvis.ErrInvalidInput, len(names), channels)
	}
	titles := make([]string, channels)
	for i := range titles {
		if names != nil {
			titles[i] = names[i]
		} else {
			titles[i] = fmt.Sprintf("维度 %d", i+1)
		}
	}
	return titles, nil
}

// Visualize renders a random sample of dir's variant arrays and writes the
// image next to them. It returns the path of the written file. On error
// nothing is written.
func (d *Driver) Visualize(ctx context.Context, dir string, v datasets.Variant) (string, error) {
	log := d.logger()

	res, err := datasets.Load(dir, v)
	if err != nil {
		return "", err
	}
	if err := res.Validate(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	sel := d.Selector
	if sel == nil {
		sel = sampling.NewSelector(nil)
		d.Selector = sel
	}
	sample, err := sel.Select(res.Samples())
	if err != nil {
		return "", err
	}
	log.Info("Selected random index", "index", sample)

	src := d.Fonts
	if src == nil {
		src = fonts.NewRegistry()
	}
	prefs := d.Preferences
	if prefs == nil {
		prefs = fonts.DefaultPreferences
	}
	family := fonts.Resolve(src, prefs)
	log.Debug("caption font resolved", "family", family)

	grid, err := layout.Plan(res.Channels())
	if err != nil {
		return "", err
	}
	size := d.resolution(v)
	bounds := image.Rect(0, 0, size.Width, size.Height)
	tiles, err := grid.Tiles(res.Channels(), bounds)
	if err != nil {
		return "", err
	}
	log.Debug("layout planned", "rows", grid.Rows, "cols", grid.Cols, "width", size.Width, "height", size.Height)

	titles, err := Titles(res.Names, res.Channels())
	if err != nil {
		return "", err
	}

	job := &composition{
		res:      res,
		sample:   sample,
		titles:   titles,
		tiles:    tiles,
		bounds:   bounds,
		renderer: chart.Renderer{Face: src.Face(family), DPI: d.DPI},
	}
	canvas, err := job.run(ctx, d.Workers)
	if err != nil {
		return "", err
	}

	out := filepath.Join(dir, OutputFile(v))
	if err := WritePNG(out, canvas); err != nil {
		return "", err
	}
	log.Info("Plot saved", "path", out)
	return out, nil
}

type composition struct {
	res      *datasets.Result
	sample   int
	titles   []string
	tiles    []layout.Tile
	bounds   image.Rectangle
	renderer chart.Renderer
}

// run draws every tile and composites them onto a white canvas. Each tile is
// drawn into its own image, so concurrent workers never share pixels.
func (c *composition) run(ctx context.Context, workers int) (*image.RGBA, error) {
	images := make([]*image.RGBA, len(c.tiles))

	if workers <= 1 {
		for i := range c.tiles {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			img, err := c.tile(i)
			if err != nil {
				return nil, err
			}
			images[i] = img
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i := range c.tiles {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				img, err := c.tile(i)
				if err != nil {
					return err
				}
				images[i] = img
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	canvas := image.NewRGBA(c.bounds)
	draw.Draw(canvas, c.bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	for i, t := range c.tiles {
		draw.Draw(canvas, t.Rect, images[i], t.Rect.Min, draw.Src)
	}
	return canvas, nil
}

func (c *composition) tile(i int) (*image.RGBA, error) {
	t := c.tiles[i]
	truth, err := c.res.True.Series(c.sample, t.Index)
	if err != nil {
		return nil, err
	}
	pred, err := c.res.Pred.Series(c.sample, t.Index)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(t.Rect)
	if err := c.renderer.Render(img, c.titles[i], truth, pred); err != nil {
		return nil, fmt.Errorf("channel %d: %w", t.Index, err)
	}
	return img, nil
}
